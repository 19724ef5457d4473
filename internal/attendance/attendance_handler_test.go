package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohityadav0112/hrms-lite/internal/attendance"
	attendanceerrors "github.com/rohityadav0112/hrms-lite/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	markFn   func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error)
	getAllFn func(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error)
}

func (f *fakeService) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.markFn(ctx, req)
}
func (f *fakeService) GetAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
	return f.getAllFn(ctx, filter)
}

func TestAttendanceHandler_Mark(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("created", func(t *testing.T) {
		svc := &fakeService{
			markFn: func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{
					ID:         1,
					EmployeeID: req.EmployeeID,
					Date:       req.Date,
					Status:     req.Status,
				}, nil
			},
		}
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance",
			strings.NewReader(`{"employee_id":"E1","date":"2024-01-01","status":"Present"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Mark(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":1`)
		assert.Contains(t, w.Body.String(), `"status":"Present"`)
	})

	t.Run("status outside the enum is a validation error", func(t *testing.T) {
		svc := &fakeService{
			markFn: func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
				t.Fatal("service must not be called")
				return attendance.AttendanceResponse{}, nil
			},
		}
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance",
			strings.NewReader(`{"employee_id":"E1","date":"2024-01-01","status":"Late"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Mark(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("unknown employee maps to 404", func(t *testing.T) {
		svc := &fakeService{
			markFn: func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
			},
		}
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance",
			strings.NewReader(`{"employee_id":"ghost","date":"2024-01-01","status":"Absent"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Mark(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Employee not found")
	})
}

func TestAttendanceHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("filters forwarded", func(t *testing.T) {
		var gotFilter attendance.ListFilter
		svc := &fakeService{
			getAllFn: func(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
				gotFilter = filter
				return []attendance.AttendanceResponse{
					{ID: 1, EmployeeID: "E1", Date: "2024-01-01", Status: "Absent"},
				}, nil
			},
		}
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/attendance?employee_id=E1&date=2024-01-01", nil)
		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "E1", gotFilter.EmployeeID)
		if assert.NotNil(t, gotFilter.Date) {
			assert.Equal(t, "2024-01-01", gotFilter.Date.Format("2006-01-02"))
		}
		assert.Contains(t, w.Body.String(), `"status":"Absent"`)
	})

	t.Run("bad date query", func(t *testing.T) {
		svc := &fakeService{
			getAllFn: func(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
				t.Fatal("service must not be called")
				return nil, nil
			},
		}
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/attendance?date=tomorrow", nil)
		h.GetAll(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
