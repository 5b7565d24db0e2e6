package similarity

import (
	"capstone-guard/internal/global/middleware"
	"capstone-guard/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleSimilarity) InitRouter(r *gin.RouterGroup) {
	g := r.Group("/similarity", middleware.Auth(model.RoleStudent))
	g.POST("/check", limiter.Middleware(), LiveCheck)
	g.GET("/project/:id", ListRecords)
}
