package leavetype

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", handler.GetAll)
		types.GET("/:id", handler.GetById)
		types.POST("", middleware.RoleMiddleware("HR_ADMIN"), handler.Create)
		types.PUT("/:id", middleware.RoleMiddleware("HR_ADMIN"), handler.Update)
		types.DELETE("/:id", middleware.RoleMiddleware("HR_ADMIN"), handler.Delete)
	}
}
