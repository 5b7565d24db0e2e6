package dashboard

import (
	"log/slog"

	"capstone-guard/internal/global/logger"
)

var log *slog.Logger

type ModuleDashboard struct{}

func (m *ModuleDashboard) GetName() string {
	return "Dashboard"
}

func (m *ModuleDashboard) Init() {
	log = logger.New("Dashboard")
}

func selfInit() {
	m := &ModuleDashboard{}
	m.Init()
}
