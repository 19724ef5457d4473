package app

import (
	"database/sql"
	"os"

	"github.com/rohityadav0112/hrms-lite/internal/attendance"
	"github.com/rohityadav0112/hrms-lite/internal/dashboard"
	"github.com/rohityadav0112/hrms-lite/internal/employee"
	"github.com/rohityadav0112/hrms-lite/internal/messaging/kafka"
	"github.com/rohityadav0112/hrms-lite/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func connectRedisOptional() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}
	return connection.ConnectRedisWithRetry(addr, 5)
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	attendanceService := attendance.NewServiceWithOutbox(gormDB, attendanceRepo, outboxRepo, rdb)
	dashboardService := dashboard.NewService(dashboardRepo, rdb)
	employeeService := employee.NewServiceWithOutbox(gormDB, employeeRepo, outboxRepo, rdb)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	employeeHandler := employee.NewHandler(employeeService)

	// --- Routes ---
	api := router.Group("/api")
	{
		attendance.RegisterRoutes(api, attendanceHandler)
		dashboard.RegisterRoutes(api, dashboardHandler)
		employee.RegisterRoutes(api, employeeHandler)
	}
}
