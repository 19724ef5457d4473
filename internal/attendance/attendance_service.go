package attendance

import (
	"context"
	"encoding/json"
	"time"

	attendanceerrors "github.com/rohityadav0112/hrms-lite/internal/attendance/errors"
	"github.com/rohityadav0112/hrms-lite/internal/dashboard"
	"github.com/rohityadav0112/hrms-lite/internal/events"
	"github.com/rohityadav0112/hrms-lite/internal/messaging/kafka"
	"github.com/rohityadav0112/hrms-lite/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		logger: l,
	}
}

func (s *service) Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("mark attendance requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)

	// Binding already enforces the enum; this guards non-HTTP callers.
	if !ValidStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("mark attendance begin tx failed", zap.String("request_id", rid), zap.Error(tx.Error))
		return AttendanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("mark attendance employee lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if !exists {
		s.logger.Warn("mark attendance employee not found",
			zap.String("request_id", rid),
			zap.String("employee_id", req.EmployeeID),
		)
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
	}

	row := &Attendance{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     req.Status,
	}

	if err := qtx.Upsert(ctx, row); err != nil {
		s.logger.Error("mark attendance upsert failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.AttendanceMarkedEvent{
			EventType:    events.AttendanceMarkedEventType,
			RequestID:    rid,
			AttendanceID: row.ID,
			EmployeeID:   row.EmployeeID,
			Date:         row.Date.Format(dateLayout),
			Status:       row.Status,
			OccurredAt:   time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return AttendanceResponse{}, err
		}

		sqlTx, err := kafka.SQLTx(tx)
		if err != nil {
			s.logger.Error("mark attendance outbox tx unwrap failed", zap.Error(err))
			return AttendanceResponse{}, err
		}
		outboxRepo := s.outbox.WithTx(sqlTx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "attendance",
			AggregateID:   row.EmployeeID,
			EventType:     event.EventType,
			Topic:         events.AttendanceMarkedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("mark attendance outbox persist failed",
				zap.String("employee_id", row.EmployeeID),
				zap.Error(err),
			)
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("mark attendance commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.invalidateDashboard(ctx)

	s.logger.Info("mark attendance success",
		zap.String("request_id", rid),
		zap.Int64("attendance_id", row.ID),
		zap.String("employee_id", row.EmployeeID),
		zap.String("status", row.Status),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	s.logger.Debug("get all attendance requested",
		zap.String("employee_id", filter.EmployeeID),
	)

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all attendance failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) invalidateDashboard(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	cacheKey := dashboard.SnapshotKey(time.Now())
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate dashboard snapshot cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date.Format(dateLayout),
		Status:     a.Status,
	}
}
