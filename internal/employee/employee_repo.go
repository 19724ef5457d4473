package employee

import (
	"context"

	"gorm.io/gorm"
)

// EmployeeWithPresentDays is the listing projection: one row per employee
// joined with the count of its Present attendance records.
type EmployeeWithPresentDays struct {
	EmployeeID  string
	Name        string
	Email       string
	Department  string
	PresentDays int64
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, employeeID string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindAllWithPresentDays(ctx context.Context) ([]EmployeeWithPresentDays, error)
	DeleteAttendanceByEmployee(ctx context.Context, employeeID string) error
	Delete(ctx context.Context, employeeID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose statements run on the given transaction,
// so domain writes commit or roll back with the caller's unit of work.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindByID(ctx context.Context, employeeID string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		First(&empl, "employee_id = ?", employeeID).Error
	return &empl, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		First(&empl, "email = ?", email).Error
	return &empl, err
}

func (r *repository) FindAllWithPresentDays(ctx context.Context) ([]EmployeeWithPresentDays, error) {
	var rows []EmployeeWithPresentDays
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			e.employee_id,
			e.name,
			e.email,
			e.department,
			COALESCE(p.present_days, 0) AS present_days
		FROM employees e
		LEFT JOIN (
			SELECT employee_id, COUNT(id) AS present_days
			FROM attendances
			WHERE status = 'Present'
			GROUP BY employee_id
		) p ON p.employee_id = e.employee_id
	`).Scan(&rows).Error
	return rows, err
}

func (r *repository) DeleteAttendanceByEmployee(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM attendances WHERE employee_id = ?", employeeID).Error
}

func (r *repository) Delete(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Delete(&Employee{}, "employee_id = ?", employeeID).Error
}
