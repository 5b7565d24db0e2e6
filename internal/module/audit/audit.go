package audit

import (
	"encoding/json"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// encode 把变更前后的值序列化为 JSON 文本，nil 记为空
func encode(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Entry 由请求上下文生成一条审计记录
func Entry(c *gin.Context, action, entityType string, entityID uint, oldValue, newValue any) model.AuditLog {
	entry := model.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValue:   encode(oldValue),
		NewValue:   encode(newValue),
		IPAddress:  c.ClientIP(),
		UserAgent:  tools.Truncate(c.Request.UserAgent(), 255),
	}
	if claims, ok := jwt.GetUserPayload(c); ok {
		entry.UserID = claims.UserID
	}
	return entry
}

// Record 写入审计记录，通常与业务修改处于同一事务
func Record(tx *gorm.DB, c *gin.Context, action, entityType string, entityID uint, oldValue, newValue any) error {
	entry := Entry(c, action, entityType, entityID, oldValue, newValue)
	return tx.Create(&entry).Error
}

type ListReq struct {
	Action     string `form:"action"`
	EntityType string `form:"entity_type"`
	EntityID   uint   `form:"entity_id"`
	UserID     uint   `form:"user_id"`
}

func List(c *gin.Context) {
	var req ListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, pageSize, offset := tools.GetPage(c, 20)

	q := database.DB.Model(&model.AuditLog{})
	if req.Action != "" {
		q = q.Where("action = ?", req.Action)
	}
	if req.EntityType != "" {
		q = q.Where("entity_type = ?", req.EntityType)
	}
	if req.EntityID != 0 {
		q = q.Where("entity_id = ?", req.EntityID)
	}
	if req.UserID != 0 {
		q = q.Where("user_id = ?", req.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Error("统计审计日志失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var list []model.AuditLog
	if err := q.Order("id DESC").Offset(offset).Limit(pageSize).Find(&list).Error; err != nil {
		log.Error("查询审计日志失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, tools.NewPageResp(list, total, page, pageSize))
}
