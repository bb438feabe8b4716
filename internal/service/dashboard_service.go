package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:summary"

type dashboardOfficialRepository interface {
	Count(ctx context.Context) (int, error)
}

type dashboardStudentRepository interface {
	Count(ctx context.Context) (int, error)
}

type dashboardRiskRepository interface {
	CountActive(ctx context.Context) (int, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardSummary is the admin landing page payload.
type DashboardSummary struct {
	TotalOfficials    int `json:"totalOfficials"`
	TotalStudents     int `json:"totalStudents"`
	StudentsAtRisk    int `json:"studentsAtRisk"`
	ClearanceRequests int `json:"clearanceRequests"`
}

// DashboardService aggregates headline counts, cached in Redis with a short
// TTL. Without a cache backend every call recomputes.
type DashboardService struct {
	officials dashboardOfficialRepository
	students  dashboardStudentRepository
	risks     dashboardRiskRepository
	cache     dashboardCache
	logger    *zap.Logger
	ttl       time.Duration

	// clearanceRequests counts submissions since boot. Decisions are not
	// persisted, so the figure resets with the process.
	clearanceRequests atomic.Int64
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(officials dashboardOfficialRepository, students dashboardStudentRepository, risks dashboardRiskRepository, cache dashboardCache, logger *zap.Logger, ttl time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardService{officials: officials, students: students, risks: risks, cache: cache, logger: logger, ttl: ttl}
}

// ObserveClearanceDecision counts each derived decision as one request.
func (s *DashboardService) ObserveClearanceDecision(models.DecisionOutcome) {
	s.clearanceRequests.Add(1)
}

// Summary returns the dashboard counts, serving from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		var cached DashboardSummary
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			cached.ClearanceRequests = int(s.clearanceRequests.Load())
			return &cached, nil
		}
	}

	totalOfficials, err := s.officials.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count officials")
	}
	totalStudents, err := s.students.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	atRisk, err := s.risks.CountActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count risk entries")
	}

	summary := &DashboardSummary{
		TotalOfficials:    totalOfficials,
		TotalStudents:     totalStudents,
		StudentsAtRisk:    atRisk,
		ClearanceRequests: int(s.clearanceRequests.Load()),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.ttl); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return summary, nil
}
