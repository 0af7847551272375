package models

import "time"

// LogLevel is the severity of an activity-log entry.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
	LogDebug   LogLevel = "debug"
)

// ActivityLog is an application-level audit record written on notable
// actions (auth events, record creation, imports, moderation decisions).
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	LogLevel  LogLevel  `gorm:"type:varchar(8);not null;default:'info';index" json:"log_level"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	LogType   string    `gorm:"not null;default:'general_info';index" json:"log_type"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the short historical table name.
func (ActivityLog) TableName() string {
	return "logs"
}
