package routes

import (
	"nimbusdrive/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	authController := controllers.NewAuthController(container.AuthService)

	auth := rg.Group("/auth")
	{
		auth.POST("/token", authController.IssueToken) // POST /auth/token
	}
}
