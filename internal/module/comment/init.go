package comment

import (
	"log/slog"

	"capstone-guard/internal/global/logger"
)

var log *slog.Logger

type ModuleComment struct{}

func (m *ModuleComment) GetName() string {
	return "Comment"
}

func (m *ModuleComment) Init() {
	log = logger.New("Comment")
}

func selfInit() {
	m := &ModuleComment{}
	m.Init()
}
