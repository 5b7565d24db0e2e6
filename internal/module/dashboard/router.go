package dashboard

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleDashboard) InitRouter(r *gin.RouterGroup) {
	r.GET("/dashboard", middleware.Auth(model.RoleStudent), GetDashboard)
}
