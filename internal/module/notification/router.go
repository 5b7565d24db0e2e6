package notification

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleNotification) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/notification", middleware.Auth(model.RoleStudent))
	g.GET("/list", List)
	g.GET("/unread-count", CountUnread)
	g.POST("/read-all", MarkAllRead)
	g.POST("/:id/read", MarkRead)
}
