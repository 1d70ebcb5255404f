package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/identityhub/auth-service/internal/application"
	"github.com/identityhub/auth-service/internal/domain/password"
	"github.com/identityhub/auth-service/pkg/response"
	"github.com/identityhub/auth-service/pkg/validation"
)

type AuthHandler struct {
	Reset  *userapp.ResetService
	Logger *logrus.Logger
}

func NewAuthHandler(reset *userapp.ResetService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Reset: reset, Logger: logger}
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetInit always answers 202 for well-formed requests, whether or not the
// email belongs to an account.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Reset.InitiateReset(c.Request.Context(), req.Email); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("reset init failed")
		}
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Reset.CompleteReset(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		var policyErr *password.PolicyError
		switch {
		case errors.Is(err, userapp.ErrInvalidResetToken):
			response.Error(c, http.StatusBadRequest, "invalid or expired token")
		case errors.As(err, &policyErr):
			response.Error(c, http.StatusBadRequest, policyErr.Error())
		default:
			if h.Logger != nil {
				h.Logger.WithError(err).Error("reset confirm failed")
			}
			response.Error(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password updated"})
}
