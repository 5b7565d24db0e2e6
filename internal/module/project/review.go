package project

import (
	"time"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/audit"
	"capstone-guard/internal/module/notification"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// statusMessages 未列出的状态（pending）不通知
var statusMessages = map[model.ProjectStatus]string{
	model.StatusApproved:    "Congratulations! Your project has been approved.",
	model.StatusRejected:    "Your project was not approved. Please review the feedback.",
	model.StatusUnderReview: "Your project is currently under review.",
	model.StatusDuplicate:   "Your project has been marked as a duplicate of an existing project.",
}

type StatusReq struct {
	Status      string `json:"status" binding:"required"`
	ReviewNotes string `json:"review_notes"`
}

type statusChange struct {
	Status      model.ProjectStatus `json:"status"`
	ReviewNotes string              `json:"review_notes,omitempty"`
}

func UpdateStatus(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid project id"))
		return
	}
	var req StatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	status, ok := model.ParseProjectStatus(req.Status)
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid status value"))
		return
	}

	p, e := findProject(id, false)
	if e != nil {
		response.Fail(c, e)
		return
	}

	from := p.Status
	now := time.Now()
	reviewer := claims.UserID
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return applyStatus(tx, c, p, status, req.ReviewNotes, reviewer, now)
	})
	if err != nil {
		log.Error("更新项目状态失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	p.Status, p.ReviewedByID, p.ReviewedAt, p.ReviewNotes = status, &reviewer, &now, req.ReviewNotes
	p.Reviewer = nil
	log.Info("项目状态已更新", "project_id", id, "from", from, "to", status, "reviewer_id", reviewer)
	response.Success(c, NewView(p))
}

// applyStatus 在事务中写入审阅结果，按状态通知作者并记录审计
func applyStatus(tx *gorm.DB, c *gin.Context, p *model.Project, status model.ProjectStatus, notes string, reviewer uint, now time.Time) error {
	old := statusChange{Status: p.Status, ReviewNotes: p.ReviewNotes}
	err := tx.Model(&model.Project{}).Where("id = ?", p.ID).Updates(map[string]any{
		"status":         status,
		"reviewed_by_id": reviewer,
		"reviewed_at":    now,
		"review_notes":   notes,
	}).Error
	if err != nil {
		return err
	}
	if msg, ok := statusMessages[status]; ok {
		title := "Project " + status.Title()
		if err := notification.Send(tx, p.UserID, title, msg, model.StatusNotification(status), p.ID); err != nil {
			return err
		}
	}
	return audit.Record(tx, c, model.AuditStatusChange, "project", p.ID, old,
		statusChange{Status: status, ReviewNotes: notes})
}
