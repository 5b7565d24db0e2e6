package stream

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleStream) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/stream")
	g.GET("/list", middleware.Auth(model.RoleStudent), ListStreams)

	admin := g.Group("", middleware.Auth(model.RoleAdmin))
	admin.POST("/create", CreateStream)
	admin.PUT("/:id", UpdateStream)
}
