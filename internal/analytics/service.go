package analytics

import (
	"context"
	"fmt"
	"time"

	"stocky/internal/caching"
	"stocky/internal/models"
	"stocky/internal/repositories"

	"go.uber.org/zap"
)

// Service loads the current snapshot and aggregates it. The dashboard is
// cached until the next commit invalidates it.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Report(ctx context.Context) (*Report, error)
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

type analyticsService struct {
	store        repositories.StoreRepository
	cacheService caching.CacheService
	cacheTTL     time.Duration
	now          func() time.Time
	log          *zap.Logger
}

func NewService(store repositories.StoreRepository, cacheService caching.CacheService, cacheTTL time.Duration, log *zap.Logger) Service {
	return &analyticsService{
		store:        store,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
		now:          time.Now,
		log:          log,
	}
}

func (a *analyticsService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snapshot, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}
	return snapshot, nil
}

func (a *analyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var cached Dashboard
	found, err := a.cacheService.GetJSON(ctx, caching.DashboardKey, &cached)
	if err != nil {
		a.log.Warn("Failed to read cached dashboard", zap.Error(err))
	} else if found {
		return &cached, nil
	}

	snapshot, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	dashboard := BuildDashboard(snapshot, a.now())

	if err := a.cacheService.SetJSON(ctx, caching.DashboardKey, dashboard, a.cacheTTL); err != nil {
		a.log.Warn("Failed to cache dashboard", zap.Error(err))
	}
	return dashboard, nil
}

func (a *analyticsService) Report(ctx context.Context) (*Report, error) {
	snapshot, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildReport(snapshot, a.now())

	if report.Daily.Skipped > 0 {
		a.log.Warn("Skipped history records with malformed timestamps", zap.Int("count", report.Daily.Skipped))
	}
	return report, nil
}
