package model

import "time"

type NotificationType string

const (
	NotifyDuplicateWarning NotificationType = "duplicate_warning"
	NotifyNewComment       NotificationType = "new_comment"
)

// StatusNotification 状态变更通知的类型，例如 project_approved
func StatusNotification(s ProjectStatus) NotificationType {
	return NotificationType("project_" + string(s))
}

type Notification struct {
	Model
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	Title            string           `gorm:"type:varchar(200);not null" json:"title"`
	Message          string           `gorm:"type:text;not null" json:"message"`
	NotificationType NotificationType `gorm:"type:varchar(50)" json:"notification_type"`
	ProjectID        *uint            `gorm:"column:related_project_id;index" json:"related_project_id"`
	IsRead           bool             `gorm:"default:false;not null;index" json:"is_read"`
	ReadAt           *time.Time       `json:"read_at"`
}
