package stream

import (
	"log/slog"

	"capstone-guard/internal/global/logger"
)

var log *slog.Logger

type ModuleStream struct{}

func (m *ModuleStream) GetName() string {
	return "Stream"
}

func (m *ModuleStream) Init() {
	log = logger.New("Stream")
}

func selfInit() {
	m := &ModuleStream{}
	m.Init()
}
