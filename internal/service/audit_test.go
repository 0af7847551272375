package service

import (
	"context"
	"testing"

	"openeyes/internal/models"
	"openeyes/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// activityLogRepoStub is a stub for repository.ActivityLogRepository.
type activityLogRepoStub struct {
	createFn func(context.Context, *models.ActivityLog) error
}

func (s *activityLogRepoStub) Create(ctx context.Context, entry *models.ActivityLog) error {
	return s.createFn(ctx, entry)
}
func (s *activityLogRepoStub) List(_ context.Context, _ repository.ActivityLogFilter, _, _ int) ([]*models.ActivityLog, error) {
	return nil, nil
}

func TestAuditLogger_WritesEntry(t *testing.T) {
	var got *models.ActivityLog
	logs := &activityLogRepoStub{
		createFn: func(_ context.Context, entry *models.ActivityLog) error {
			got = entry
			return nil
		},
	}

	userID := uint(7)
	NewAuditLogger(logs).Info(context.Background(), LogTypeAuth, "user logged in", &userID)

	require.NotNil(t, got)
	assert.Equal(t, models.LogInfo, got.LogLevel)
	assert.Equal(t, LogTypeAuth, got.LogType)
	assert.Equal(t, "user logged in", got.Message)
	require.NotNil(t, got.UserID)
	assert.Equal(t, uint(7), *got.UserID)
}

func TestAuditLogger_SwallowsWriteFailure(t *testing.T) {
	logs := &activityLogRepoStub{
		createFn: func(_ context.Context, _ *models.ActivityLog) error {
			return assert.AnError
		},
	}

	// Must not panic or propagate.
	NewAuditLogger(logs).Error(context.Background(), LogTypeDataImport, "import failed", nil)
}

func TestAuditLogger_NilSafe(t *testing.T) {
	var a *AuditLogger
	a.Info(context.Background(), LogTypeGeneral, "ignored", nil)

	NewAuditLogger(nil).Warning(context.Background(), LogTypeGeneral, "ignored", nil)
}
