package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the slice of the database layer the auth endpoints need.
type UserStore interface {
	CreateUser(email, passwordHash, role string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CountUsers() (int, error)
}

type AuthHandler struct {
	users UserStore
	cfg   *config.Config
	log   *zap.Logger
}

func NewAuthHandler(users UserStore, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg, log: log}
}

// Signup godoc
// @Summary     Register a new user
// @Description Creates a user account. The first account ever registered becomes the admin; everyone after that is a guest.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignupRequest true "Signup payload"
// @Success     201 {object} models.AuthResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email, password and confirm password are required"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "passwords do not match"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "please provide a valid email address"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "password must be at least 6 characters long"})
		return
	}

	if _, err := h.users.GetUserByEmail(email); err == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "user already exists with this email"})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		h.log.Error("failed to check existing user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user"})
		return
	}

	// The first registered account gets admin so a fresh deployment can be
	// claimed without seeding the database.
	count, err := h.users.CountUsers()
	if err != nil {
		h.log.Error("failed to count users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user"})
		return
	}
	role := models.RoleGuest
	if count == 0 {
		role = models.RoleAdmin
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user"})
		return
	}

	user, err := h.users.CreateUser(email, hash, role)
	if err != nil {
		h.log.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user"})
		return
	}

	h.sendToken(c, http.StatusCreated, user)
}

// Login godoc
// @Summary     Login
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Login payload"
// @Success     200 {object} models.AuthResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "please provide email and password"})
		return
	}

	user, err := h.users.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid email or password"})
		return
	}

	h.sendToken(c, http.StatusOK, user)
}

// Logout godoc
// @Summary     Logout
// @Tags        auth
// @Produce     json
// @Success     200 {object} models.MessageResponse
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", h.cfg.Environment == "production", true)
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "logged out successfully"})
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, user *models.User) {
	expires := time.Duration(h.cfg.JWTExpiresDays) * 24 * time.Hour
	token, err := auth.GenerateToken(user, h.cfg.JWTSecret, expires)
	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to issue token"})
		return
	}

	c.SetCookie("token", token, int(expires.Seconds()), "/", "", h.cfg.Environment == "production", true)
	c.JSON(status, models.AuthResponse{
		Success: true,
		Token:   token,
		User: models.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}
