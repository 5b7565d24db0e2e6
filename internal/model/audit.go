package model

const (
	AuditRoleChange     = "user.role_change"
	AuditStatusChange   = "project.status_change"
	AuditProjectDelete  = "project.delete"
	AuditProjectRestore = "project.restore"
)

type AuditLog struct {
	Model
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Action     string `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string `gorm:"type:varchar(50);index:idx_audit_entity" json:"entity_type"`
	EntityID   uint   `gorm:"index:idx_audit_entity" json:"entity_id"`
	OldValue   string `gorm:"type:text" json:"old_value"`
	NewValue   string `gorm:"type:text" json:"new_value"`
	IPAddress  string `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent  string `gorm:"type:varchar(255)" json:"user_agent"`
}
