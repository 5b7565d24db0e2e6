package attachment

import (
	"log/slog"

	"capstone-guard/internal/global/logger"
)

var log *slog.Logger

type ModuleAttachment struct{}

func (m *ModuleAttachment) GetName() string {
	return "Attachment"
}

func (m *ModuleAttachment) Init() {
	log = logger.New("Attachment")
}

func selfInit() {
	m := &ModuleAttachment{}
	m.Init()
}
