package notification

import (
	"log/slog"

	"capstone-guard/internal/global/logger"
)

var log *slog.Logger

type ModuleNotification struct{}

func (m *ModuleNotification) GetName() string {
	return "Notification"
}

func (m *ModuleNotification) Init() {
	log = logger.New("Notification")
}

func selfInit() {
	m := &ModuleNotification{}
	m.Init()
}
