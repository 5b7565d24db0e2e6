package project

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleProject) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/project", middleware.Auth(model.RoleStudent))
	{
		g.GET("/list", ListProjects)
		g.POST("/create", CreateProject)
		g.GET("/:id", GetProject)
		g.PUT("/:id", UpdateProject)
		g.DELETE("/:id", DeleteProject)
		g.PUT("/:id/restore", RestoreProject)
	}

	staff := r.Group("/project", middleware.Auth(model.RoleReviewer))
	{
		staff.GET("/export", ExportProjects)
		staff.POST("/:id/status", UpdateStatus)
	}
}
