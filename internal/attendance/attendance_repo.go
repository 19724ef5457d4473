package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows a listing; zero values mean "no filter".
type ListFilter struct {
	EmployeeID string
	Date       *time.Time
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, a *Attendance) error
	FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error)
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose statements run on the given transaction,
// so the upsert commits or rolls back with the caller's unit of work.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// Upsert atomically inserts or updates the record for (employee_id, date).
// The unique constraint makes two concurrent marks for the same pair converge
// on one row; the surviving row's id comes back via RETURNING.
func (r *repository) Upsert(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Raw(`
		INSERT INTO attendances (employee_id, date, status, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING id
	`, a.EmployeeID, a.Date.Format("2006-01-02"), a.Status).Scan(&a.ID).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error) {
	q := r.db.WithContext(ctx)
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Date != nil {
		q = q.Where("date = ?", filter.Date.Format("2006-01-02"))
	}

	var rows []Attendance
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
