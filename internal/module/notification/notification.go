package notification

import (
	"strconv"
	"time"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// New 构造通知，projectID 为 0 表示不关联项目
func New(userID uint, title, message string, typ model.NotificationType, projectID uint) model.Notification {
	n := model.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: typ,
	}
	if projectID != 0 {
		n.ProjectID = &projectID
	}
	return n
}

// Send 写入一条通知，可在调用方的事务中执行
func Send(tx *gorm.DB, userID uint, title, message string, typ model.NotificationType, projectID uint) error {
	n := New(userID, title, message, typ, projectID)
	return tx.Create(&n).Error
}

func UnreadCount(db *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := db.Model(&model.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

// parseLimit 缺省为 50，非法值同样按缺省处理
func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

func List(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)

	q := database.DB.Where("user_id = ?", claims.UserID)
	if tools.QueryBool(c, "unread") {
		q = q.Where("is_read = ?", false)
	}
	var list []model.Notification
	if err := q.Order("created_at DESC, id DESC").Limit(parseLimit(c.Query("limit"))).Find(&list).Error; err != nil {
		log.Error("查询通知失败", "error", err, "user_id", claims.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}

func CountUnread(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	n, err := UnreadCount(database.DB, claims.UserID)
	if err != nil {
		log.Error("统计未读通知失败", "error", err, "user_id", claims.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"count": n})
}

// MarkRead 只能标记自己的通知
func MarkRead(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid notification id"))
		return
	}

	var n model.Notification
	err := database.DB.First(&n, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("notification not found"))
		return
	case err != nil:
		log.Error("查询通知失败", "error", err, "notification_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if n.UserID != claims.UserID {
		response.Fail(c, response.ErrForbidden)
		return
	}

	if !n.IsRead {
		now := time.Now()
		if err := database.DB.Model(&n).Updates(map[string]any{"is_read": true, "read_at": now}).Error; err != nil {
			log.Error("标记通知已读失败", "error", err, "notification_id", id)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		n.IsRead, n.ReadAt = true, &now
	}
	response.Success(c, n)
}

func MarkAllRead(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	res := database.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.UserID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()})
	if res.Error != nil {
		log.Error("全部标记已读失败", "error", res.Error, "user_id", claims.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(res.Error))
		return
	}
	response.Success(c, gin.H{"updated": res.RowsAffected})
}
