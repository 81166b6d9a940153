package app

import (
	"go-leave/internal/leavebalance"
	"go-leave/internal/leaverequest"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/uow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leaveBalanceRepo := leavebalance.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	unitOfWork := uow.NewGormUoW(gormDB)

	// --- Services ---
	leaveTypeService := leavetype.NewService(unitOfWork, leaveTypeRepo)
	leaveBalanceService := leavebalance.NewService(unitOfWork, leaveBalanceRepo, leaveTypeRepo, rdb)
	leaveRequestService := leaverequest.NewService(
		unitOfWork, leaveRequestRepo, leaveBalanceService, leaveTypeRepo, outboxRepo,
	)

	// --- Handlers ---
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leaveBalanceHandler := leavebalance.NewHandler(leaveBalanceService)
	leaveRequestHandler := leaverequest.NewHandlerWithRedis(leaveRequestService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, leaveTypeHandler)
		leavebalance.RegisterRoutes(api, leaveBalanceHandler)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, middleware.Idempotency(rdb))
	}

	return nil
}
