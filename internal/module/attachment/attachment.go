package attachment

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"capstone-guard/config"
	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/global/storage"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const maxFilenameLength = 255

// multipartOverhead 表单边界等额外开销
const multipartOverhead = 1 << 20

var extMimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// checkFile 校验扩展名和大小，返回小写扩展名
func checkFile(cfg config.Storage, filename string, size int64) (string, *response.Error) {
	ext := tools.FileExt(filename)
	if ext == "" || !slices.Contains(cfg.AllowedExt, ext) {
		return "", response.ErrInvalidRequest.WithTips("file type not allowed, allowed: " + strings.Join(cfg.AllowedExt, ", "))
	}
	if size <= 0 {
		return "", response.ErrInvalidRequest.WithTips("file is empty")
	}
	if cfg.MaxSize > 0 && size > cfg.MaxSize {
		return "", response.ErrFileTooLarge.WithTips(fmt.Sprintf("max %d MiB", cfg.MaxSize>>20))
	}
	return ext, nil
}

func contentType(ext, declared string) string {
	if t, ok := extMimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		return t
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}

// displayName 去掉客户端上传的目录部分
func displayName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if utf8.RuneCountInString(name) <= maxFilenameLength {
		return name
	}
	ext := filepath.Ext(name)
	keep := maxFilenameLength - utf8.RuneCountInString(ext)
	// 扩展名过长时直接截断
	if keep <= 0 {
		return tools.Truncate(name, maxFilenameLength)
	}
	return tools.Truncate(strings.TrimSuffix(name, ext), keep) + ext
}

func findProject(id uint) (*model.Project, *response.Error) {
	var p model.Project
	err := database.DB.Select("id", "user_id").First(&p, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("project not found")
	case err != nil:
		log.Error("查询项目失败", "error", err, "project_id", id)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &p, nil
}

func findAttachment(id uint) (*model.Attachment, *response.Error) {
	var a model.Attachment
	err := database.DB.First(&a, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("attachment not found")
	case err != nil:
		log.Error("查询附件失败", "error", err, "attachment_id", id)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &a, nil
}

// UploadAttachment 项目作者或审阅者上传，表单字段为 file
func UploadAttachment(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	projectID, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}

	cfg := config.Get().Storage
	if cfg.MaxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxSize+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, response.ErrInvalidRequest.WithTips("file is required").WithOrigin(err))
		return
	}
	ext, e := checkFile(cfg, fh.Filename, fh.Size)
	if e != nil {
		response.Fail(c, e)
		return
	}

	p, e := findProject(projectID)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if p.UserID != claims.UserID && !claims.Role.IsStaff() {
		response.Fail(c, response.ErrForbidden)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	defer f.Close()

	ctype := contentType(ext, fh.Header.Get("Content-Type"))
	key := storage.NewKey(ext)
	path, err := storage.Default.Put(c.Request.Context(), key, f, fh.Size, ctype)
	if err != nil {
		log.Error("保存附件失败", "error", err, "project_id", projectID, "driver", storage.Default.Driver())
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}

	a := model.Attachment{
		ProjectID:        projectID,
		Filename:         key,
		OriginalFilename: displayName(fh.Filename),
		FilePath:         path,
		FileSize:         fh.Size,
		MimeType:         ctype,
		FileType:         ext,
		Storage:          storage.Default.Driver(),
		UploadedByID:     claims.UserID,
	}
	if err := database.DB.Create(&a).Error; err != nil {
		log.Error("保存附件记录失败", "error", err, "project_id", projectID)
		if err := storage.Default.Delete(c.Request.Context(), path); err != nil {
			log.Warn("清理附件失败", "error", err, "path", path)
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("附件上传成功", "attachment_id", a.ID, "project_id", projectID, "size", a.FileSize)
	response.Success(c, a)
}

func ListAttachments(c *gin.Context) {
	projectID, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	list := []model.Attachment{}
	if err := database.DB.Where("project_id = ?", projectID).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		log.Error("查询附件列表失败", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}

// DownloadAttachment 对象存储重定向到预签名地址，本地存储直接返回文件
func DownloadAttachment(c *gin.Context) {
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid attachment id"))
		return
	}
	a, e := findAttachment(id)
	if e != nil {
		response.Fail(c, e)
		return
	}

	switch a.Storage {
	case storage.DriverLocal:
		if !tools.FileExist(a.FilePath) {
			log.Warn("附件文件不存在", "attachment_id", a.ID, "path", a.FilePath)
			response.Fail(c, response.ErrNotFound.WithTips("file missing"))
			return
		}
		tools.SendStoredFile(c, a.FilePath, a.OriginalFilename, a.MimeType)
	default:
		ps, ok := storage.Default.(storage.Presigner)
		if !ok || storage.Default.Driver() != a.Storage {
			response.Fail(c, response.ErrStorage.WithTips("storage driver " + a.Storage + " is not configured"))
			return
		}
		url, err := ps.PresignGet(c.Request.Context(), a.FilePath, a.OriginalFilename)
		if err != nil {
			log.Error("生成下载地址失败", "error", err, "attachment_id", a.ID)
			response.Fail(c, response.ErrStorage.WithOrigin(err))
			return
		}
		c.Redirect(http.StatusFound, url)
	}
}

// DeleteAttachment 上传者或审阅者可以删除，先删记录再删文件
func DeleteAttachment(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid attachment id"))
		return
	}
	a, e := findAttachment(id)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if a.UploadedByID != claims.UserID && !claims.Role.IsStaff() {
		response.Fail(c, response.ErrForbidden)
		return
	}

	if err := database.DB.Unscoped().Delete(a).Error; err != nil {
		log.Error("删除附件记录失败", "error", err, "attachment_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if a.Storage == storage.Default.Driver() {
		if err := storage.Default.Delete(c.Request.Context(), a.FilePath); err != nil {
			log.Warn("删除附件文件失败", "error", err, "attachment_id", id, "path", a.FilePath)
		}
	}
	log.Info("附件已删除", "attachment_id", id, "user_id", claims.UserID)
	response.Success(c)
}
