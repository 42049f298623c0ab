package service

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/auth"
	"github.com/evelane/tabsplit/internal/middleware"
	"github.com/evelane/tabsplit/internal/models"
	"github.com/evelane/tabsplit/internal/storage"
)

// AuthService implements registration, login and session introspection.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

func fromUser(u *models.User) userPayload {
	return userPayload{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// Register creates a new user account and returns a session token.
func (s *AuthService) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email, displayName and password are required")
		return
	}
	s.logger.Info("Register request", "email", req.Email)

	user, err := s.authenticator.Register(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Email, "error", err)
		switch err {
		case auth.ErrEmailExists:
			c.JSON(http.StatusConflict, gin.H{"code": "AlreadyExists", "error": err.Error()})
		case auth.ErrWeakPassword:
			respondBadRequest(c, err.Error())
		default:
			respondError(c, err)
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respondError(c, err)
		return
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"user":  fromUser(user),
		"token": token,
	})
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}
	s.logger.Info("Login request", "email", req.Email)

	user, err := s.authenticator.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Email, "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":  "Unauthenticated",
			"error": auth.ErrInvalidCredentials.Error(),
		})
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respondError(c, err)
		return
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"user":  fromUser(user),
		"token": token,
	})
}

// Me returns the authenticated user's account details.
func (s *AuthService) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := s.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("Failed to load user", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": "NotFound", "error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": fromUser(user)})
}
