package app

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/rohityadav0112/hrms-lite/internal/attendance"
	"github.com/rohityadav0112/hrms-lite/internal/employee"
	"github.com/rohityadav0112/hrms-lite/internal/messaging/kafka"
	"github.com/rohityadav0112/hrms-lite/internal/middleware"
	"github.com/rohityadav0112/hrms-lite/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultAllowOrigins is the fixed cross-origin allow-list.
var defaultAllowOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"https://hrms-lite-production-bc0b.up.railway.app",
}

func allowOrigins() []string {
	if raw := os.Getenv("CORS_ALLOW_ORIGINS"); raw != "" {
		return strings.Split(raw, ",")
	}
	return defaultAllowOrigins
}

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	// 1. Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	if err := gormDB.AutoMigrate(&employee.Employee{}, &attendance.Attendance{}); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := kafka.EnsureSchema(context.Background(), sqlDB); err != nil {
		return err
	}

	rdb, err := connectRedisOptional()
	if err != nil {
		return err
	}
	if rdb == nil {
		logger.Info("redis disabled, dashboard caching off")
	}

	// 2. Middleware
	router.Use(middleware.CORS(allowOrigins()))
	router.Use(middleware.ContextLogger(zap.L()))

	// 3. Liveness
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "HRMS Lite API is running"})
	})

	// 4. Modules & routes
	registerModules(router, sqlDB, gormDB, rdb)

	return nil
}
