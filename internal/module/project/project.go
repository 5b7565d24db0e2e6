package project

import (
	"strings"
	"time"
	"unicode/utf8"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/audit"
	"capstone-guard/internal/module/comment"
	"capstone-guard/internal/module/similarity"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	maxTitleLength = 200
	listPageSize   = 20
)

type CreateReq struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description" binding:"required"`
	StreamID         uint   `json:"stream_id" binding:"required"`
	Technologies     string `json:"technologies" binding:"max=500"`
	GithubURL        string `json:"github_url" binding:"omitempty,url"`
	DemoURL          string `json:"demo_url" binding:"omitempty,url"`
	DocumentationURL string `json:"documentation_url" binding:"omitempty,url"`
}

// UpdateReq 指针字段为 nil 表示不修改
type UpdateReq struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	StreamID         *uint   `json:"stream_id"`
	Technologies     *string `json:"technologies" binding:"omitempty,max=500"`
	GithubURL        *string `json:"github_url" binding:"omitempty,url"`
	DemoURL          *string `json:"demo_url" binding:"omitempty,url"`
	DocumentationURL *string `json:"documentation_url" binding:"omitempty,url"`
}

func validateText(title, description string) error {
	switch {
	case title == "":
		return errors.New("title is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return errors.New("title is too long")
	case description == "":
		return errors.New("description is required")
	}
	return nil
}

// activeStream 提交项目时届别必须存在且处于开放状态
func activeStream(id uint) *response.Error {
	var s model.Stream
	err := database.DB.Select("id", "is_active").First(&s, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.ErrNotFound.WithTips("stream not found")
	case err != nil:
		return response.ErrDatabase.WithOrigin(err)
	case !s.IsActive:
		return response.ErrInvalidRequest.WithTips("stream is not accepting submissions")
	}
	return nil
}

// findProject 查询项目并预加载关联，unscoped 时包含已删除的项目
func findProject(id uint, unscoped bool) (*model.Project, *response.Error) {
	q := database.DB.Preload("Author").Preload("Stream").Preload("Reviewer")
	if unscoped {
		q = q.Unscoped()
	}
	var p model.Project
	err := q.First(&p, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("project not found")
	case err != nil:
		log.Error("查询项目失败", "error", err, "project_id", id)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &p, nil
}

func CreateProject(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	var req CreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateText(req.Title, req.Description); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}
	if e := activeStream(req.StreamID); e != nil {
		response.Fail(c, e)
		return
	}

	p := model.Project{
		Title:            req.Title,
		Description:      req.Description,
		UserID:           claims.UserID,
		StreamID:         req.StreamID,
		Status:           model.StatusPending,
		Technologies:     strings.TrimSpace(req.Technologies),
		GithubURL:        req.GithubURL,
		DemoURL:          req.DemoURL,
		DocumentationURL: req.DocumentationURL,
		SubmittedAt:      time.Now(),
	}
	if err := database.DB.Create(&p).Error; err != nil {
		log.Error("创建项目失败", "error", err, "user_id", claims.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	matches, err := detect(c.Request.Context(), &p, "submit")
	if err != nil {
		// 项目已保存，查重结果写入失败不影响提交
		log.Error("保存查重结果失败", "error", err, "project_id", p.ID)
	}
	log.Info("项目提交成功", "project_id", p.ID, "user_id", claims.UserID, "matches", len(matches))

	if matches == nil {
		matches = []similarity.Match{}
	}
	response.Success(c, CreateResp{Project: NewView(&p), Matches: matches})
}

type ListReq struct {
	Stream uint   `form:"stream"`
	Status string `form:"status"`
	Search string `form:"search"`
	Mine   bool   `form:"mine"`
}

func (r ListReq) apply(q *gorm.DB, userID uint) *gorm.DB {
	if r.Stream != 0 {
		q = q.Where("stream_id = ?", r.Stream)
	}
	// 未知状态忽略
	if st, ok := model.ParseProjectStatus(r.Status); ok {
		q = q.Where("status = ?", st)
	}
	if s := strings.TrimSpace(r.Search); s != "" {
		like := tools.LikePattern(s)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if r.Mine {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

func ListProjects(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	var req ListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, pageSize, offset := tools.GetPage(c, listPageSize)

	q := req.apply(database.DB.Model(&model.Project{}), claims.UserID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Error("统计项目失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var list []model.Project
	err := q.Preload("Author").Preload("Stream").
		Order("submitted_at DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&list).Error
	if err != nil {
		log.Error("查询项目列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, tools.NewPageResp(NewViews(list), total, page, pageSize))
}

func GetProject(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	p, e := findProject(id, false)
	if e != nil {
		response.Fail(c, e)
		return
	}

	resp := DetailResp{
		Project:         NewView(p),
		SimilarProjects: []similarity.RecordView{},
		CanEdit:         canEdit(claims, p),
	}
	if p.IsFlaggedDuplicate {
		records, err := similarity.LoadRecords(database.DB, p.ID)
		if err != nil {
			log.Error("查询相似记录失败", "error", err, "project_id", p.ID)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		resp.SimilarProjects = records
	}
	threads, _, err := comment.LoadThreads(database.DB, p.ID, 0, 0)
	if err != nil {
		log.Error("查询评论失败", "error", err, "project_id", p.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	resp.Comments = threads
	response.Success(c, resp)
}

func UpdateProject(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	p, e := findProject(id, false)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if !canEdit(claims, p) {
		response.Fail(c, response.ErrForbidden.WithTips("you do not have permission to edit this project"))
		return
	}

	textChanged := false
	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t != p.Title {
			p.Title, textChanged = t, true
		}
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != p.Description {
			p.Description, textChanged = d, true
		}
	}
	if err := validateText(p.Title, p.Description); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}
	if req.StreamID != nil && *req.StreamID != p.StreamID {
		if e := activeStream(*req.StreamID); e != nil {
			response.Fail(c, e)
			return
		}
		p.StreamID = *req.StreamID
		p.Stream = nil
	}
	if req.Technologies != nil {
		p.Technologies = strings.TrimSpace(*req.Technologies)
	}
	if req.GithubURL != nil {
		p.GithubURL = *req.GithubURL
	}
	if req.DemoURL != nil {
		p.DemoURL = *req.DemoURL
	}
	if req.DocumentationURL != nil {
		p.DocumentationURL = *req.DocumentationURL
	}

	err := database.DB.Model(&model.Project{}).Where("id = ?", p.ID).Updates(map[string]any{
		"title":             p.Title,
		"description":       p.Description,
		"stream_id":         p.StreamID,
		"technologies":      p.Technologies,
		"github_url":        p.GithubURL,
		"demo_url":          p.DemoURL,
		"documentation_url": p.DocumentationURL,
	}).Error
	if err != nil {
		log.Error("更新项目失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if textChanged {
		if _, err := detect(c.Request.Context(), p, "update"); err != nil {
			log.Error("保存查重结果失败", "error", err, "project_id", p.ID)
		}
	}
	log.Info("项目更新成功", "project_id", id, "user_id", claims.UserID, "redetected", textChanged)
	response.Success(c, NewView(p))
}

func DeleteProject(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	p, e := findProject(id, false)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if !canDelete(claims, p) {
		response.Fail(c, response.ErrForbidden)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Project{}, id).Error; err != nil {
			return err
		}
		return audit.Record(tx, c, model.AuditProjectDelete, "project", id, nil, p.Title)
	})
	if err != nil {
		log.Error("删除项目失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("项目已删除", "project_id", id, "user_id", claims.UserID)
	response.Success(c)
}

func RestoreProject(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	p, e := findProject(id, true)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if !p.DeletedAt.Valid {
		response.Fail(c, response.ErrInvalidRequest.WithTips("project is not deleted"))
		return
	}
	if !canDelete(claims, p) {
		response.Fail(c, response.ErrForbidden)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&model.Project{}).Where("id = ?", id).Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return audit.Record(tx, c, model.AuditProjectRestore, "project", id, nil, p.Title)
	})
	if err != nil {
		log.Error("恢复项目失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	p.DeletedAt = gorm.DeletedAt{}
	log.Info("项目已恢复", "project_id", id, "user_id", claims.UserID)
	response.Success(c, NewView(p))
}
