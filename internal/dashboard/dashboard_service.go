package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	snapshotKeyPrefix = "dashboard:snapshot:"
	snapshotTTL       = 30 * time.Second
)

// SnapshotKey returns the cache key for the given day's snapshot. Write paths
// delete it after commit so the next read recomputes.
func SnapshotKey(day time.Time) string {
	return snapshotKeyPrefix + day.Format("2006-01-02")
}

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	GetSnapshot(ctx context.Context) (DashboardResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetSnapshot(ctx context.Context) (DashboardResponse, error) {
	today := time.Now()
	cacheKey := SnapshotKey(today)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp DashboardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.computeSnapshot(ctx, today)
		if err != nil {
			return DashboardResponse{}, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, snapshotTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		s.logger.Error("get dashboard snapshot failed", zap.Error(err))
		return DashboardResponse{}, err
	}

	return v.(DashboardResponse), nil
}

func (s *service) computeSnapshot(ctx context.Context, today time.Time) (DashboardResponse, error) {
	total, err := s.repo.CountEmployees(ctx)
	if err != nil {
		return DashboardResponse{}, err
	}

	present, err := s.repo.CountAttendanceByDateAndStatus(ctx, today, "Present")
	if err != nil {
		return DashboardResponse{}, err
	}

	absent, err := s.repo.CountAttendanceByDateAndStatus(ctx, today, "Absent")
	if err != nil {
		return DashboardResponse{}, err
	}

	return DashboardResponse{
		TotalEmployees: total,
		PresentToday:   present,
		AbsentToday:    absent,
		NotMarked:      total - present - absent,
	}, nil
}
