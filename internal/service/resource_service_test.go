package service

import (
	"context"
	"testing"
	"time"

	"openeyes/internal/models"
	"openeyes/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conflictRepoStub is a stub for repository.ConflictRepository.
type conflictRepoStub struct {
	createFn    func(context.Context, *models.Conflict) error
	getByIDFn   func(context.Context, uint) (*models.Conflict, error)
	getByNameFn func(context.Context, string) (*models.Conflict, error)
	listFn      func(context.Context, repository.ConflictFilter, int, int) ([]*models.Conflict, error)
	updateFn    func(context.Context, *models.Conflict) error
	deleteFn    func(context.Context, uint) error
	countFn     func(context.Context, models.ConflictStatus) (int64, error)
}

func (s *conflictRepoStub) Create(ctx context.Context, c *models.Conflict) error {
	return s.createFn(ctx, c)
}
func (s *conflictRepoStub) GetByID(ctx context.Context, id uint) (*models.Conflict, error) {
	return s.getByIDFn(ctx, id)
}
func (s *conflictRepoStub) GetByName(ctx context.Context, name string) (*models.Conflict, error) {
	return s.getByNameFn(ctx, name)
}
func (s *conflictRepoStub) List(ctx context.Context, f repository.ConflictFilter, limit, offset int) ([]*models.Conflict, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *conflictRepoStub) Update(ctx context.Context, c *models.Conflict) error {
	return s.updateFn(ctx, c)
}
func (s *conflictRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *conflictRepoStub) Count(ctx context.Context, status models.ConflictStatus) (int64, error) {
	return s.countFn(ctx, status)
}

func noopConflictRepo() *conflictRepoStub {
	return &conflictRepoStub{
		createFn:    func(_ context.Context, _ *models.Conflict) error { return nil },
		getByIDFn:   func(_ context.Context, id uint) (*models.Conflict, error) { return &models.Conflict{ID: id}, nil },
		getByNameFn: func(_ context.Context, _ string) (*models.Conflict, error) { return nil, nil },
		listFn: func(_ context.Context, _ repository.ConflictFilter, _, _ int) ([]*models.Conflict, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Conflict) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		countFn:  func(_ context.Context, _ models.ConflictStatus) (int64, error) { return 0, nil },
	}
}

func newResourceService(conflicts *conflictRepoStub) *ResourceService {
	return NewResourceService(conflicts, nil, nil, nil, nil, nil)
}

func TestCreateConflict_RequiredFields(t *testing.T) {
	conflicts := noopConflictRepo()
	var created bool
	conflicts.createFn = func(_ context.Context, _ *models.Conflict) error {
		created = true
		return nil
	}
	svc := newResourceService(conflicts)

	tests := []struct {
		name  string
		input ConflictInput
	}{
		{"Missing Name", ConflictInput{Region: "Africa", StartDate: time.Now()}},
		{"Missing Region", ConflictInput{Name: "Border clash", StartDate: time.Now()}},
		{"Missing StartDate", ConflictInput{Name: "Border clash", Region: "Africa"}},
		{"Bad Status", ConflictInput{Name: "Border clash", Region: "Africa", StartDate: time.Now(), Status: "simmering"}},
		{"Negative Casualties", ConflictInput{Name: "Border clash", Region: "Africa", StartDate: time.Now(), Casualties: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateConflict(context.Background(), 1, tt.input)
			assertValidationError(t, err)
		})
	}
	assert.False(t, created, "nothing may reach the store on validation failure")
}

func TestCreateConflict_Defaults(t *testing.T) {
	conflicts := noopConflictRepo()
	var stored *models.Conflict
	conflicts.createFn = func(_ context.Context, c *models.Conflict) error {
		c.ID = 3
		stored = c
		return nil
	}

	svc := newResourceService(conflicts)
	conflict, err := svc.CreateConflict(context.Background(), 9, ConflictInput{
		Name:      "Border clash",
		Region:    "Africa",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.ConflictActive, conflict.Status)
	assert.Equal(t, models.SeverityMedium, conflict.Severity)
	require.NotNil(t, conflict.CreatedByID)
	assert.Equal(t, uint(9), *conflict.CreatedByID)
}

func TestUpdateConflict(t *testing.T) {
	conflicts := noopConflictRepo()
	conflicts.getByIDFn = func(_ context.Context, id uint) (*models.Conflict, error) {
		return &models.Conflict{ID: id, Name: "Old name", Region: "Africa", Status: models.ConflictActive}, nil
	}
	var saved *models.Conflict
	conflicts.updateFn = func(_ context.Context, c *models.Conflict) error {
		saved = c
		return nil
	}

	svc := newResourceService(conflicts)
	conflict, err := svc.UpdateConflict(context.Background(), 1, 3, ConflictInput{
		Name:      "New name",
		Region:    "Africa",
		StartDate: time.Now(),
		Status:    "resolved",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "New name", conflict.Name)
	assert.Equal(t, models.ConflictResolved, conflict.Status)
}

func TestDeleteConflict_UnknownID(t *testing.T) {
	conflicts := noopConflictRepo()
	conflicts.getByIDFn = func(_ context.Context, id uint) (*models.Conflict, error) {
		return nil, models.NewNotFoundError("Conflict", id)
	}

	svc := newResourceService(conflicts)
	err := svc.DeleteConflict(context.Background(), 1, 999)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestCreateViolation_RequiredFields(t *testing.T) {
	svc := NewResourceService(nil, nil, &violationRepoStub{}, nil, nil, nil)
	_, err := svc.CreateViolation(context.Background(), 1, ViolationInput{
		Title: "Censorship order",
		// Type, Country and Date missing.
	})
	assertValidationError(t, err)
}

// violationRepoStub is a stub for repository.ViolationRepository.
type violationRepoStub struct {
	createFn func(context.Context, *models.Violation) error
}

func (s *violationRepoStub) Create(ctx context.Context, v *models.Violation) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, v)
}
func (s *violationRepoStub) GetByID(_ context.Context, id uint) (*models.Violation, error) {
	return &models.Violation{ID: id}, nil
}
func (s *violationRepoStub) List(_ context.Context, _ repository.ViolationFilter, _, _ int) ([]*models.Violation, error) {
	return nil, nil
}
func (s *violationRepoStub) Update(_ context.Context, _ *models.Violation) error { return nil }
func (s *violationRepoStub) Delete(_ context.Context, _ uint) error              { return nil }
func (s *violationRepoStub) Count(_ context.Context) (int64, error)              { return 0, nil }

func TestCreateViolation_Success(t *testing.T) {
	violations := &violationRepoStub{}
	var stored *models.Violation
	violations.createFn = func(_ context.Context, v *models.Violation) error {
		stored = v
		return nil
	}

	svc := NewResourceService(nil, nil, violations, nil, nil, nil)
	violation, err := svc.CreateViolation(context.Background(), 4, ViolationInput{
		Title:    "Censorship order",
		Type:     "press_freedom",
		Country:  "Examplestan",
		Date:     time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		Severity: "high",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.SeverityHigh, violation.Severity)
	require.NotNil(t, violation.CreatedByID)
	assert.Equal(t, uint(4), *violation.CreatedByID)
}
