package audit

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleAudit) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/audit", middleware.Auth(model.RoleAdmin))
	g.GET("/list", List)
}
