package attendance

import (
	"errors"
	"strings"

	attendanceerrors "github.com/rohityadav0112/hrms-lite/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapRepositoryError covers the race where the referenced employee is deleted
// between the existence check and the insert: the FK violation still maps to
// the not-found contract.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" {
			return attendanceerrors.ErrEmployeeNotFound
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "violates foreign key constraint") {
		return attendanceerrors.ErrEmployeeNotFound
	}

	return err
}
