package user

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

// InitRouter 注册、登录无需认证，其余接口需要登录
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")
	userGroup.POST("/register", Register)
	userGroup.POST("/login", Login)

	authed := userGroup.Group("", middleware.Auth(model.RoleStudent))
	authed.GET("/me", GetMe)
	authed.PUT("/password", ChangePassword)
	authed.PUT("/profile", UpdateProfile)

	admin := userGroup.Group("", middleware.Auth(model.RoleAdmin))
	admin.GET("/list", ListUsers)
	admin.PUT("/:id/role", UpdateRole)
}
