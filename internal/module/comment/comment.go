package comment

import (
	"fmt"
	"strings"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/notification"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	pageSize   = 10
	maxContent = 5000
)

type CreateReq struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateReq struct {
	Content string `json:"content" binding:"required"`
}

func cleanContent(s string) (string, *response.Error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", response.ErrInvalidRequest.WithTips("comment cannot be empty")
	case len(s) > maxContent:
		return "", response.ErrInvalidRequest.WithTips("comment is too long")
	}
	return s, nil
}

func commentMessage(name, title string) string {
	return fmt.Sprintf("%s commented on \"%s\".", name, title)
}

// shouldNotify 自己评论自己的项目不通知
func shouldNotify(commenterID, ownerID uint) bool {
	return commenterID != ownerID
}

func CreateComment(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	projectID, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	var req CreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	content, e := cleanContent(req.Content)
	if e != nil {
		response.Fail(c, e)
		return
	}

	var project model.Project
	err := database.DB.Select("id", "user_id", "title").First(&project, projectID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("project not found"))
		return
	case err != nil:
		log.Error("查询项目失败", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	cm := model.Comment{ProjectID: projectID, UserID: claims.UserID, Content: content}
	if req.ParentID != nil {
		var parent model.Comment
		err := database.DB.Select("id", "project_id", "parent_id").
			Where("id = ? AND project_id = ?", *req.ParentID, projectID).
			First(&parent).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Fail(c, response.ErrInvalidRequest.WithTips("parent comment does not belong to this project"))
			return
		case err != nil:
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		// 回复只保留两层，回复的回复挂到顶层评论下
		root := parent.ID
		if parent.ParentID != nil {
			root = *parent.ParentID
		}
		cm.ParentID = &root
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cm).Error; err != nil {
			return err
		}
		if !shouldNotify(claims.UserID, project.UserID) {
			return nil
		}
		var author model.User
		if err := tx.Select("id", "full_name").First(&author, claims.UserID).Error; err != nil {
			return err
		}
		return notification.Send(tx, project.UserID, "New Comment on Your Project",
			commentMessage(author.FullName, project.Title), model.NotifyNewComment, project.ID)
	})
	if err != nil {
		log.Error("发表评论失败", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("评论发表成功", "comment_id", cm.ID, "project_id", projectID, "user_id", claims.UserID)
	response.Success(c, NewView(&cm))
}

func ListComments(c *gin.Context) {
	projectID, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	page, size, offset := tools.GetPage(c, pageSize)
	list, total, err := LoadThreads(database.DB, projectID, offset, size)
	if err != nil {
		log.Error("查询评论失败", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, tools.NewPageResp(list, total, page, size))
}

func findComment(id uint) (*model.Comment, *response.Error) {
	var cm model.Comment
	err := database.DB.Preload("Author").First(&cm, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("comment not found")
	case err != nil:
		log.Error("查询评论失败", "error", err, "comment_id", id)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &cm, nil
}

// UpdateComment 只有作者可以编辑
func UpdateComment(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid comment id"))
		return
	}
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	content, e := cleanContent(req.Content)
	if e != nil {
		response.Fail(c, e)
		return
	}

	cm, e := findComment(id)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if cm.UserID != claims.UserID {
		response.Fail(c, response.ErrForbidden)
		return
	}
	if cm.IsDeleted {
		response.Fail(c, response.ErrInvalidRequest.WithTips("comment has been deleted"))
		return
	}

	if err := database.DB.Model(cm).Updates(map[string]any{"content": content, "is_edited": true}).Error; err != nil {
		log.Error("编辑评论失败", "error", err, "comment_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	cm.Content, cm.IsEdited = content, true
	response.Success(c, NewView(cm))
}

// DeleteComment 作者或审阅者可以删除，只做标记
func DeleteComment(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid comment id"))
		return
	}
	cm, e := findComment(id)
	if e != nil {
		response.Fail(c, e)
		return
	}
	if cm.UserID != claims.UserID && !claims.Role.IsStaff() {
		response.Fail(c, response.ErrForbidden)
		return
	}

	if err := database.DB.Model(cm).Update("is_deleted", true).Error; err != nil {
		log.Error("删除评论失败", "error", err, "comment_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	cm.IsDeleted = true
	log.Info("评论已删除", "comment_id", id, "user_id", claims.UserID)
	response.Success(c, NewView(cm))
}
