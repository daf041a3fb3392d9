package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	projects "github.com/pulseboard/go-board-backend/internal/projects/domain"
	"github.com/pulseboard/go-board-backend/internal/stats/cache"
	"github.com/pulseboard/go-board-backend/internal/stats/domain"
)

// defaultReportDays is the report window when the caller gives no range.
const defaultReportDays = 30

// Store is the read-only slice of the persistence gateway stats needs.
type Store interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*projects.Project, error)
}

// StatsService derives per-project summaries and time reports. It never
// mutates; everything is computed from one aggregate load.
type StatsService struct {
	store Store
	cache *cache.StatsCache
	log   *zap.Logger
	now   func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(store Store, statsCache *cache.StatsCache, log *zap.Logger) *StatsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsService{store: store, cache: statsCache, log: log, now: time.Now}
}

// ProjectStats returns the project's summary, served from cache when a
// fresh snapshot exists. Cache trouble degrades to a recompute.
func (s *StatsService) ProjectStats(ctx context.Context, projectID string) (*domain.Stats, error) {
	id, err := parseID(projectID)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, projectID); err != nil {
		s.log.Warn("stats cache read failed", zap.String("project_id", projectID), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats := domain.Compute(p, s.now())

	if err := s.cache.Set(ctx, projectID, stats); err != nil {
		s.log.Warn("stats cache write failed", zap.String("project_id", projectID), zap.Error(err))
	}
	return stats, nil
}

// TimeReport aggregates closed time entries over [start, endOfDay(end)].
// Nil bounds default to the last 30 days through now.
func (s *StatsService) TimeReport(ctx context.Context, projectID string, start, end *time.Time) (*domain.TimeReport, error) {
	id, err := parseID(projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := now.AddDate(0, 0, -defaultReportDays)
	if start != nil {
		from = *start
	}
	to := now
	if end != nil {
		to = *end
	}
	to = domain.EndOfDay(to)

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.BuildTimeReport(p, from, to), nil
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", projects.ErrInvalidID, raw)
	}
	return id, nil
}
