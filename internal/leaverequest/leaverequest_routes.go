package leaverequest

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, idempotency gin.HandlerFunc) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", idempotency, handler.Create)
		requests.GET("", handler.GetAll)
		requests.GET("/:id", handler.GetByID)
		requests.PUT("/:id", handler.Update)
		requests.DELETE("/:id", handler.Delete)

		requests.POST("/:id/approve",
			middleware.RoleMiddleware("HR_ADMIN", "MANAGER"), handler.Approve)
		requests.POST("/:id/reject",
			middleware.RoleMiddleware("HR_ADMIN", "MANAGER"), handler.Reject)
		requests.POST("/:id/cancel", handler.Cancel)
	}
}
