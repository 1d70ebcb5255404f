package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	userapp "github.com/identityhub/auth-service/internal/application"
	"github.com/identityhub/auth-service/internal/domain/entity"
	"github.com/identityhub/auth-service/internal/domain/password"
	repo "github.com/identityhub/auth-service/internal/domain/repository"
	"github.com/identityhub/auth-service/pkg/response"
	"github.com/identityhub/auth-service/pkg/validation"
)

const birthDateLayout = "2006-01-02"

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Surname   string `json:"surname" binding:"required,min=1,max=100"`
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Password  string `json:"password" binding:"required"`
}

type authRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Surname  *string `json:"surname" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	BirthDate   time.Time `json:"birth_date"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	IsSuperuser bool      `json:"is_superuser"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// toUserResponse is the only outward projection of a user; the password hash
// never leaves the service.
func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Surname:     u.Surname,
		BirthDate:   u.BirthDate,
		Email:       u.Email,
		Username:    u.Username,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", validation.ToDetails(err))
		return
	}
	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		response.ValidationError(c, "invalid payload", map[string]string{"birth_date": "must match format " + birthDateLayout})
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:      req.Name,
		Surname:   req.Surname,
		BirthDate: birthDate,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *UserHandler) Authenticate(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), userapp.UpdateInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Activate(c *gin.Context) {
	u, err := h.Svc.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	u, err := h.Svc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// renderError maps domain failures to the transport contract. Unknown email
// and wrong password render identically to avoid account enumeration.
func (h *UserHandler) renderError(c *gin.Context, err error) {
	var policyErr *password.PolicyError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &policyErr):
		response.Error(c, http.StatusBadRequest, policyErr.Error())
	case errors.As(err, &verrs):
		response.ValidationError(c, "invalid payload", validation.ToDetails(err))
	case errors.Is(err, userapp.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "user not found")
	case errors.Is(err, repo.ErrAlreadyExists):
		response.Error(c, http.StatusConflict, "user already exists")
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("request failed")
		}
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}
