package leavebalance

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/employees/:employeeId", handler.GetEmployeeBalances)
		balances.POST("/employees/:employeeId/initialize",
			middleware.RoleMiddleware("HR_ADMIN"), handler.InitializeYearly)
		balances.POST("/carry-forward",
			middleware.RoleMiddleware("HR_ADMIN"), handler.CarryForward)
	}
}
