package comment

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleComment) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/comment", middleware.Auth(model.RoleStudent))
	g.GET("/project/:id", ListComments)
	g.POST("/project/:id", CreateComment)
	g.PUT("/:id", UpdateComment)
	g.DELETE("/:id", DeleteComment)
}
