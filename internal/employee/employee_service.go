package employee

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rohityadav0112/hrms-lite/internal/dashboard"
	employeeerrors "github.com/rohityadav0112/hrms-lite/internal/employee/errors"
	"github.com/rohityadav0112/hrms-lite/internal/events"
	"github.com/rohityadav0112/hrms-lite/internal/messaging/kafka"
	"github.com/rohityadav0112/hrms-lite/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	Delete(ctx context.Context, employeeID string) error
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
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("email", req.Email),
	)

	if strings.TrimSpace(req.EmployeeID) == "" ||
		strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Department) == "" {
		s.logger.Warn("create employee blank required field",
			zap.String("request_id", rid),
			zap.String("employee_id", req.EmployeeID),
		)
		return EmployeeResponse{}, employeeerrors.ErrMissingRequiredFields
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(tx.Error))
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Conflict checks run in a fixed order: employee id first, then email.
	if _, err := qtx.FindByID(ctx, req.EmployeeID); err == nil {
		s.logger.Warn("create employee id taken",
			zap.String("request_id", rid),
			zap.String("employee_id", req.EmployeeID),
		)
		return EmployeeResponse{}, employeeerrors.ErrEmployeeIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create employee lookup by id failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if _, err := qtx.FindByEmail(ctx, req.Email); err == nil {
		s.logger.Warn("create employee email taken",
			zap.String("request_id", rid),
			zap.String("email", req.Email),
		)
		return EmployeeResponse{}, employeeerrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create employee lookup by email failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  events.EmployeeCreatedEventType,
			RequestID:  rid,
			EmployeeID: empl.EmployeeID,
			Department: empl.Department,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		sqlTx, err := kafka.SQLTx(tx)
		if err != nil {
			s.logger.Error("create employee outbox tx unwrap failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		outboxRepo := s.outbox.WithTx(sqlTx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.EmployeeID,
			EventType:     event.EventType,
			Topic:         events.EmployeeLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.EmployeeID),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateDashboard(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.EmployeeID),
	)

	return EmployeeResponse{
		EmployeeID:  empl.EmployeeID,
		Name:        empl.Name,
		Email:       empl.Email,
		Department:  empl.Department,
		PresentDays: 0,
	}, nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")
	rows, err := s.repo.FindAllWithPresentDays(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]EmployeeResponse, len(rows))
	for i, r := range rows {
		resp[i] = EmployeeResponse{
			EmployeeID:  r.EmployeeID,
			Name:        r.Name,
			Email:       r.Email,
			Department:  r.Department,
			PresentDays: r.PresentDays,
		}
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, employeeID string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, employeeID); err != nil {
		s.logger.Warn("delete employee not found",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
		)
		return mapRepositoryError(err)
	}

	// Cascade is explicit: attendance rows go first, then the employee.
	if err := qtx.DeleteAttendanceByEmployee(ctx, employeeID); err != nil {
		s.logger.Error("delete employee attendance cascade failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, employeeID); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeDeletedEvent{
			EventType:  events.EmployeeDeletedEventType,
			RequestID:  rid,
			EmployeeID: employeeID,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}

		sqlTx, err := kafka.SQLTx(tx)
		if err != nil {
			s.logger.Error("delete employee outbox tx unwrap failed", zap.Error(err))
			return err
		}
		outboxRepo := s.outbox.WithTx(sqlTx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   employeeID,
			EventType:     event.EventType,
			Topic:         events.EmployeeLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("delete employee outbox persist failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateDashboard(ctx)

	s.logger.Info("delete employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
	)
	return nil
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
