package service

import (
	"context"
	"time"

	"openeyes/internal/cache"
	"openeyes/internal/models"
	"openeyes/internal/repository"
)

// DashboardMetrics are the headline counts shown on the dashboard landing
// page.
type DashboardMetrics struct {
	ActiveConflicts int64     `json:"active_conflicts"`
	TotalConflicts  int64     `json:"total_conflicts"`
	Countries       int64     `json:"countries"`
	Violations      int64     `json:"violations"`
	Declarations    int64     `json:"declarations"`
	Disasters       int64     `json:"disasters"`
	RecentDisasters int64     `json:"recent_disasters"`
	PendingPosts    int64     `json:"pending_posts"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// recentDisasterWindow bounds the "recent disasters" headline count.
const recentDisasterWindow = 30 * 24 * time.Hour

type DashboardService struct {
	conflictRepo    repository.ConflictRepository
	countryRepo     repository.CountryRepository
	violationRepo   repository.ViolationRepository
	declarationRepo repository.DeclarationRepository
	disasterRepo    repository.DisasterRepository
	postRepo        repository.PostRepository
}

func NewDashboardService(
	conflictRepo repository.ConflictRepository,
	countryRepo repository.CountryRepository,
	violationRepo repository.ViolationRepository,
	declarationRepo repository.DeclarationRepository,
	disasterRepo repository.DisasterRepository,
	postRepo repository.PostRepository,
) *DashboardService {
	return &DashboardService{
		conflictRepo:    conflictRepo,
		countryRepo:     countryRepo,
		violationRepo:   violationRepo,
		declarationRepo: declarationRepo,
		disasterRepo:    disasterRepo,
		postRepo:        postRepo,
	}
}

// Metrics returns the dashboard counts, cached for a few minutes since the
// landing page is the most-hit endpoint and the counts tolerate staleness.
func (s *DashboardService) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	var m DashboardMetrics
	err := cache.Aside(ctx, cache.DashboardKey, &m, cache.DashboardTTL, func() error {
		fresh, err := s.computeMetrics(ctx)
		if err != nil {
			return err
		}
		m = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *DashboardService) computeMetrics(ctx context.Context) (*DashboardMetrics, error) {
	m := &DashboardMetrics{GeneratedAt: time.Now().UTC()}

	var err error
	if m.ActiveConflicts, err = s.conflictRepo.Count(ctx, models.ConflictActive); err != nil {
		return nil, err
	}
	if m.TotalConflicts, err = s.conflictRepo.Count(ctx, ""); err != nil {
		return nil, err
	}
	if m.Countries, err = s.countryRepo.Count(ctx); err != nil {
		return nil, err
	}
	if m.Violations, err = s.violationRepo.Count(ctx); err != nil {
		return nil, err
	}
	if m.Declarations, err = s.declarationRepo.Count(ctx, ""); err != nil {
		return nil, err
	}
	if m.Disasters, err = s.disasterRepo.Count(ctx); err != nil {
		return nil, err
	}
	if m.RecentDisasters, err = s.disasterRepo.CountSince(ctx, time.Now().Add(-recentDisasterWindow)); err != nil {
		return nil, err
	}
	if m.PendingPosts, err = s.postRepo.Count(ctx, models.ModerationPending); err != nil {
		return nil, err
	}
	return m, nil
}
