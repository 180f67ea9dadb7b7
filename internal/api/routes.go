package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Session routes
	router.POST("/api/login", handler.Login)
	router.POST("/api/logout", handler.Logout)
	router.GET("/api/session", handler.Session)

	// Everything below requires a signed-in operator
	authed := router.Group("/", handler.AuthRequired())
	{
		authed.GET("/api/health-status", handler.HealthStatus)

		screens := authed.Group("/console/:resource")
		{
			screens.GET("", handler.Screen)
			screens.POST("/form", handler.ChangeField)
			screens.POST("/edit/:id", handler.BeginEdit)
			screens.POST("/cancel", handler.CancelEdit)
			screens.POST("/submit", handler.Submit)
			screens.DELETE("/:id", handler.Delete)
			screens.POST("/import", handler.Import)
			screens.POST("/import/open", handler.OpenImport)
			screens.POST("/import/close", handler.CloseImport)
			screens.GET("/template", handler.Template)
		}
	}
}
