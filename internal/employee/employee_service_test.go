package employee

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	employeeerrors "github.com/rohityadav0112/hrms-lite/internal/employee/errors"
	"github.com/rohityadav0112/hrms-lite/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock, func() { db.Close() }
}

type fakeRepo struct {
	withTxFn                     func(tx *gorm.DB) Repository
	createFn                     func(ctx context.Context, empl *Employee) error
	findByIDFn                   func(ctx context.Context, employeeID string) (*Employee, error)
	findByEmailFn                func(ctx context.Context, email string) (*Employee, error)
	findAllWithPresentDaysFn     func(ctx context.Context) ([]EmployeeWithPresentDays, error)
	deleteAttendanceByEmployeeFn func(ctx context.Context, employeeID string) error
	deleteFn                     func(ctx context.Context, employeeID string) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, empl *Employee) error { return f.createFn(ctx, empl) }
func (f *fakeRepo) FindByID(ctx context.Context, employeeID string) (*Employee, error) {
	return f.findByIDFn(ctx, employeeID)
}
func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	return f.findByEmailFn(ctx, email)
}
func (f *fakeRepo) FindAllWithPresentDays(ctx context.Context) ([]EmployeeWithPresentDays, error) {
	return f.findAllWithPresentDaysFn(ctx)
}
func (f *fakeRepo) DeleteAttendanceByEmployee(ctx context.Context, employeeID string) error {
	return f.deleteAttendanceByEmployeeFn(ctx, employeeID)
}
func (f *fakeRepo) Delete(ctx context.Context, employeeID string) error {
	return f.deleteFn(ctx, employeeID)
}

type fakeOutbox struct {
	created   []kafka.OutboxEvent
	createErr error
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func notFoundRepo() *fakeRepo {
	return &fakeRepo{
		findByIDFn: func(ctx context.Context, employeeID string) (*Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
		findByEmailFn: func(ctx context.Context, email string) (*Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		var saved *Employee
		repo := notFoundRepo()
		repo.createFn = func(ctx context.Context, empl *Employee) error {
			saved = empl
			return nil
		}

		outbox := &fakeOutbox{}
		svc := NewServiceWithOutbox(gdb, repo, outbox, nil)

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Create(ctx, CreateEmployeeRequest{
			EmployeeID: "E1",
			Name:       "Alice",
			Email:      "alice@x.com",
			Department: "Eng",
		})
		assert.NoError(t, err)
		assert.Equal(t, "E1", resp.EmployeeID)
		assert.Equal(t, "Alice", resp.Name)
		assert.Equal(t, int64(0), resp.PresentDays)
		assert.NotNil(t, saved)
		assert.Equal(t, "alice@x.com", saved.Email)

		assert.Len(t, outbox.created, 1)
		assert.Equal(t, "employee_created", outbox.created[0].EventType)
		assert.Equal(t, "E1", outbox.created[0].AggregateID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("employee id already exists", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		repo := notFoundRepo()
		repo.findByIDFn = func(ctx context.Context, employeeID string) (*Employee, error) {
			return &Employee{EmployeeID: employeeID}, nil
		}

		svc := NewService(gdb, repo, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, CreateEmployeeRequest{
			EmployeeID: "E1",
			Name:       "Alice",
			Email:      "alice@x.com",
			Department: "Eng",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeIDTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email already registered", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		repo := notFoundRepo()
		repo.findByEmailFn = func(ctx context.Context, email string) (*Employee, error) {
			return &Employee{Email: email}, nil
		}

		svc := NewService(gdb, repo, nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, CreateEmployeeRequest{
			EmployeeID: "E2",
			Name:       "Bob",
			Email:      "alice@x.com",
			Department: "Eng",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("whitespace-only name rejected before any write", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		svc := NewService(gdb, notFoundRepo(), nil)

		_, err := svc.Create(ctx, CreateEmployeeRequest{
			EmployeeID: "E3",
			Name:       "   ",
			Email:      "c@x.com",
			Department: "Eng",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrMissingRequiredFields)
		// no transaction was opened
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// Drives the real repository so the insert runs on the service's own
	// transaction: when the outbox write fails, the employee row must roll
	// back with it instead of surviving on a separate connection.
	t.Run("outbox failure rolls back the insert", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		repo := NewRepository(gdb)
		outbox := &fakeOutbox{createErr: errors.New("outbox unavailable")}
		svc := NewServiceWithOutbox(gdb, repo, outbox, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "employees" WHERE employee_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"employee_id"}))
		mock.ExpectQuery(`SELECT \* FROM "employees" WHERE email = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"employee_id"}))
		mock.ExpectExec(`INSERT INTO "employees"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		_, err := svc.Create(ctx, CreateEmployeeRequest{
			EmployeeID: "E1",
			Name:       "Alice",
			Email:      "alice@x.com",
			Department: "Eng",
		})
		assert.EqualError(t, err, "outbox unavailable")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	gdb, _, closeDB := newTestDB(t)
	defer closeDB()

	repo := notFoundRepo()
	repo.findAllWithPresentDaysFn = func(ctx context.Context) ([]EmployeeWithPresentDays, error) {
		return []EmployeeWithPresentDays{
			{EmployeeID: "E1", Name: "Alice", Email: "alice@x.com", Department: "Eng", PresentDays: 3},
			{EmployeeID: "E2", Name: "Bob", Email: "bob@x.com", Department: "Ops", PresentDays: 0},
		}, nil
	}

	svc := NewService(gdb, repo, nil)

	resp, err := svc.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(3), resp[0].PresentDays)
	assert.Equal(t, int64(0), resp[1].PresentDays)
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades attendance before employee", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		var calls []string
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, employeeID string) (*Employee, error) {
				return &Employee{EmployeeID: employeeID}, nil
			},
			deleteAttendanceByEmployeeFn: func(ctx context.Context, employeeID string) error {
				calls = append(calls, "attendance")
				return nil
			},
			deleteFn: func(ctx context.Context, employeeID string) error {
				calls = append(calls, "employee")
				return nil
			},
		}

		svc := NewService(gdb, repo, nil)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := svc.Delete(ctx, "E1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"attendance", "employee"}, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		svc := NewService(gdb, notFoundRepo(), nil)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := svc.Delete(ctx, "missing")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// Real repository again: both cascade deletes run between BEGIN and
	// ROLLBACK, so a failing outbox write leaves no half-applied cascade.
	t.Run("outbox failure rolls back the cascade", func(t *testing.T) {
		gdb, mock, closeDB := newTestDB(t)
		defer closeDB()

		repo := NewRepository(gdb)
		outbox := &fakeOutbox{createErr: errors.New("outbox unavailable")}
		svc := NewServiceWithOutbox(gdb, repo, outbox, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "employees" WHERE employee_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"employee_id", "name", "email", "department"}).
				AddRow("E1", "Alice", "alice@x.com", "Eng"))
		mock.ExpectExec(`DELETE FROM attendances WHERE employee_id = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "employees" WHERE employee_id = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := svc.Delete(ctx, "E1")
		assert.EqualError(t, err, "outbox unavailable")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
