package project

import (
	"capstone-guard/internal/global/jwt"
	"capstone-guard/internal/model"
)

// canEdit 所有者或审阅者、管理员
func canEdit(claims *jwt.Claims, p *model.Project) bool {
	return p.UserID == claims.UserID || claims.Role.IsStaff()
}

// canDelete 删除和恢复只允许所有者或管理员
func canDelete(claims *jwt.Claims, p *model.Project) bool {
	return p.UserID == claims.UserID || claims.Role == model.RoleAdmin
}
