package attachment

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleAttachment) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/attachment", middleware.Auth(model.RoleStudent))
	g.GET("/project/:id", ListAttachments)
	g.POST("/project/:id", UploadAttachment)
	g.GET("/:id/download", DownloadAttachment)
	g.DELETE("/:id", DeleteAttachment)
}
