package user

import (
	"strings"

	"capstone-guard/internal/global/database"
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/global/response"
	"capstone-guard/internal/model"
	"capstone-guard/internal/module/audit"
	"capstone-guard/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const listPageSize = 20

type ListReq struct {
	Role   string `form:"role"`
	Search string `form:"search"`
}

func (r ListReq) apply(q *gorm.DB) *gorm.DB {
	if role := model.Role(strings.ToLower(strings.TrimSpace(r.Role))); role.Valid() {
		q = q.Where("role = ?", role)
	}
	if s := strings.TrimSpace(r.Search); s != "" {
		like := tools.LikePattern(s)
		q = q.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}
	return q
}

func ListUsers(c *gin.Context) {
	var req ListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, pageSize, offset := tools.GetPage(c, listPageSize)

	q := req.apply(database.DB.Model(&model.User{}))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Error("统计用户失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var list []model.User
	if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&list).Error; err != nil {
		log.Error("查询用户列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, tools.NewPageResp(list, total, page, pageSize))
}

// RoleReq 两个字段至少提供一个
type RoleReq struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type roleState struct {
	Role     model.Role `json:"role"`
	IsActive bool       `json:"is_active"`
}

// apply 在原状态上应用修改，返回新状态
func (r RoleReq) apply(old roleState) (roleState, error) {
	if r.Role == nil && r.IsActive == nil {
		return old, errors.New("role or is_active is required")
	}
	next := old
	if r.Role != nil {
		role := model.Role(strings.ToLower(strings.TrimSpace(*r.Role)))
		if !role.Valid() {
			return old, errors.New("invalid role")
		}
		next.Role = role
	}
	if r.IsActive != nil {
		next.IsActive = *r.IsActive
	}
	return next, nil
}

// UpdateRole 管理员修改用户角色或启用状态，不能修改自己
func UpdateRole(c *gin.Context) {
	claims, _ := jwt.GetUserPayload(c)
	id, ok := tools.ParamID(c, "id")
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid user id"))
		return
	}
	var req RoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if id == claims.UserID {
		response.Fail(c, response.ErrForbidden.WithTips("cannot change your own role"))
		return
	}

	var user model.User
	err := database.DB.First(&user, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("user not found"))
		return
	case err != nil:
		log.Error("查询用户失败", "error", err, "user_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	old := roleState{Role: user.Role, IsActive: user.IsActive}
	next, err := req.apply(old)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.User{}).Where("id = ?", user.ID).
			Updates(map[string]any{"role": next.Role, "is_active": next.IsActive}).Error
		if err != nil {
			return err
		}
		return audit.Record(tx, c, model.AuditRoleChange, "user", user.ID, old, next)
	})
	if err != nil {
		log.Error("修改用户角色失败", "error", err, "user_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	user.Role, user.IsActive = next.Role, next.IsActive

	log.Info("用户角色已修改", "user_id", user.ID, "operator", claims.UserID,
		"old_role", old.Role, "new_role", next.Role, "is_active", next.IsActive)
	response.Success(c, user)
}
