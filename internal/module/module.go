package module

import (
	"capstone-guard/internal/module/attachment"
	"capstone-guard/internal/module/audit"
	"capstone-guard/internal/module/comment"
	"capstone-guard/internal/module/dashboard"
	"capstone-guard/internal/module/notification"
	"capstone-guard/internal/module/ping"
	"capstone-guard/internal/module/project"
	"capstone-guard/internal/module/similarity"
	"capstone-guard/internal/module/stream"
	"capstone-guard/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&stream.ModuleStream{},
		&similarity.ModuleSimilarity{},
		&project.ModuleProject{},
		&comment.ModuleComment{},
		&notification.ModuleNotification{},
		&attachment.ModuleAttachment{},
		&dashboard.ModuleDashboard{},
		&audit.ModuleAudit{},
	})
}
