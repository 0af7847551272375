// Package service contains the business logic layer between HTTP handlers
// and repositories.
package service

import (
	"context"

	"openeyes/internal/middleware"
	"openeyes/internal/models"
	"openeyes/internal/repository"
)

// Well-known activity log types. Handlers and services pass these rather
// than free-form strings so the admin log view can filter reliably.
const (
	LogTypeAuth         = "auth"
	LogTypeModeration   = "moderation"
	LogTypeUserAdmin    = "user_admin"
	LogTypeDataImport   = "data_import"
	LogTypeRecordChange = "record_change"
	LogTypeGeneral      = "general_info"
)

// AuditLogger writes activity-log entries. Writes are best-effort: a failed
// audit write is slog-logged and swallowed so it can never fail the request
// that triggered it.
type AuditLogger struct {
	logRepo repository.ActivityLogRepository
}

func NewAuditLogger(logRepo repository.ActivityLogRepository) *AuditLogger {
	return &AuditLogger{logRepo: logRepo}
}

// Log records an activity entry. userID may be nil for anonymous events.
func (a *AuditLogger) Log(ctx context.Context, level models.LogLevel, logType, message string, userID *uint) {
	if a == nil || a.logRepo == nil {
		return
	}
	entry := &models.ActivityLog{
		Message:  message,
		LogLevel: level,
		LogType:  logType,
		UserID:   userID,
	}
	if err := a.logRepo.Create(ctx, entry); err != nil {
		middleware.Logger.WarnContext(ctx, "audit log write failed",
			"log_type", logType, "error", err)
	}
}

// Info is shorthand for Log at info level.
func (a *AuditLogger) Info(ctx context.Context, logType, message string, userID *uint) {
	a.Log(ctx, models.LogInfo, logType, message, userID)
}

// Warning is shorthand for Log at warning level.
func (a *AuditLogger) Warning(ctx context.Context, logType, message string, userID *uint) {
	a.Log(ctx, models.LogWarning, logType, message, userID)
}

// Error is shorthand for Log at error level.
func (a *AuditLogger) Error(ctx context.Context, logType, message string, userID *uint) {
	a.Log(ctx, models.LogError, logType, message, userID)
}
