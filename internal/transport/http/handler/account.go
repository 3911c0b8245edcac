package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/campwire/community-core/internal/domain"
	"github.com/campwire/community-core/internal/usecase"
	"github.com/gin-gonic/gin"
)

// accountUsecaser is the subset of AccountUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type accountUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)
	UpdateProfile(ctx context.Context, accountID string, input usecase.UpdateProfileInput) (*domain.Account, error)
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)
}

type AccountHandler struct {
	accounts accountUsecaser
	logger   *slog.Logger
}

func NewAccountHandler(accounts accountUsecaser, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With("component", "account_handler"),
	}
}

// accountResponse never carries the password hash.
type accountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Bookmarks   []string  `json:"bookmarks"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	bookmarks := a.Bookmarks
	if bookmarks == nil {
		bookmarks = []string{}
	}
	return accountResponse{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Bookmarks:   bookmarks,
		CreatedAt:   a.CreatedAt,
	}
}

type registerRequest struct {
	Email       string `json:"email"        binding:"required,email"`
	Password    string `json:"password"     binding:"required"`
	DisplayName string `json:"display_name" binding:"omitempty,max=64"`
}

// POST /auth/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailTaken})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": errWeakPassword})
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrValidation.Error()})
		default:
			h.logger.Error("register", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, toAccountResponse(account))
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Account accountResponse `json:"account"`
	Token   string          `json:"token"`
}

// POST /auth/login
// Unknown email and wrong password produce the same response body.
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, signed, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.Error("login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Account: toAccountResponse(account),
		Token:   signed,
	})
}

// GET /me
func (h *AccountHandler) Me(c *gin.Context) {
	accountID := c.GetString("accountID")

	account, err := h.accounts.GetByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errAccountNotFound})
			return
		}
		h.logger.Error("read self", "account_id", accountID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	NewPassword *string `json:"new_password"`
}

// PATCH /me
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	accountID := c.GetString("accountID")

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.UpdateProfile(c.Request.Context(), accountID, usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrValidation.Error()})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": errWeakPassword})
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errAccountNotFound})
		default:
			h.logger.Error("update profile", "account_id", accountID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}
