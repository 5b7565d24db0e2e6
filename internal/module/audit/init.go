package audit

import (
	"log/slog"

	"capstone-guard/internal/global/logger"
)

var log *slog.Logger

type ModuleAudit struct{}

func (m *ModuleAudit) GetName() string {
	return "Audit"
}

func (m *ModuleAudit) Init() {
	log = logger.New("Audit")
}

func selfInit() {
	m := &ModuleAudit{}
	m.Init()
}
