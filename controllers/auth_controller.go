package controllers

import (
	"nimbusdrive/models"
	"nimbusdrive/services"
	"nimbusdrive/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
}

type tokenRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name"`
	Subscription string `json:"subscription"`
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// IssueToken exchanges a verified identity for a bearer token, creating
// the account on first sight.
func (ac *AuthController) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid token request", err.Error())
		return
	}

	subscription := models.Subscription(req.Subscription)
	if subscription != models.SubscriptionPro {
		subscription = models.SubscriptionBasic
	}

	token, user, err := ac.authService.IssueToken(c.Request.Context(), req.Email, req.Name, subscription)
	if err != nil {
		respondError(c, err, "Failed to issue token")
		return
	}

	utils.SuccessResponse(c, "Token issued", gin.H{
		"token": token,
		"user":  user,
	})
}
