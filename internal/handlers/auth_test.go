package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/models"
)

type fakeUserStore struct {
	users   map[string]*models.User
	nextID  int64
	listErr error

	createdEmail string
	createdRole  string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUserStore) CreateUser(email, passwordHash, role string) (*models.User, error) {
	user := &models.User{ID: f.nextID, Email: email, Password: passwordHash, Role: role}
	f.nextID++
	f.users[email] = user
	f.createdEmail = email
	f.createdRole = role
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(email string) (*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeUserStore) CountUsers() (int, error) {
	return len(f.users), nil
}

func newAuthRouter(store *fakeUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiresDays: 7, Environment: "development"}
	h := NewAuthHandler(store, cfg, zap.NewNop())
	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	return r
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupFirstUserBecomesAdmin(t *testing.T) {
	store := newFakeUserStore()
	router := newAuthRouter(store)

	w := postJSON(router, "/auth/signup", models.SignupRequest{
		Email:           "Owner@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "owner@example.com", store.createdEmail)
	assert.Equal(t, models.RoleAdmin, store.createdRole)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
}

func TestSignupSecondUserIsGuest(t *testing.T) {
	store := newFakeUserStore()
	store.users["owner@example.com"] = &models.User{ID: 1, Email: "owner@example.com", Role: models.RoleAdmin}
	router := newAuthRouter(store)

	w := postJSON(router, "/auth/signup", models.SignupRequest{
		Email:           "visitor@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.RoleGuest, store.createdRole)
}

func TestSignupRejectsMismatchedPasswords(t *testing.T) {
	router := newAuthRouter(newFakeUserStore())

	w := postJSON(router, "/auth/signup", models.SignupRequest{
		Email:           "owner@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupRejectsInvalidEmail(t *testing.T) {
	router := newAuthRouter(newFakeUserStore())

	w := postJSON(router, "/auth/signup", models.SignupRequest{
		Email:           "not-an-email",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	router := newAuthRouter(newFakeUserStore())

	w := postJSON(router, "/auth/signup", models.SignupRequest{
		Email:           "owner@example.com",
		Password:        "tiny",
		ConfirmPassword: "tiny",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	store.users["owner@example.com"] = &models.User{ID: 1, Email: "owner@example.com"}
	router := newAuthRouter(store)

	w := postJSON(router, "/auth/signup", models.SignupRequest{
		Email:           "owner@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.createdEmail)
}

func TestSignupLookupFailure(t *testing.T) {
	store := newFakeUserStore()
	store.listErr = errors.New("connection refused")
	router := newAuthRouter(store)

	w := postJSON(router, "/auth/signup", models.SignupRequest{
		Email:           "owner@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	store := newFakeUserStore()
	store.users["owner@example.com"] = &models.User{ID: 1, Email: "owner@example.com", Password: hash, Role: models.RoleAdmin}
	router := newAuthRouter(store)

	w := postJSON(router, "/auth/login", models.LoginRequest{Email: "owner@example.com", Password: "secret1"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "owner@example.com", resp.User.Email)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	store := newFakeUserStore()
	store.users["owner@example.com"] = &models.User{ID: 1, Email: "owner@example.com", Password: hash}
	router := newAuthRouter(store)

	w := postJSON(router, "/auth/login", models.LoginRequest{Email: "owner@example.com", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	router := newAuthRouter(newFakeUserStore())

	w := postJSON(router, "/auth/login", models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutExpiresCookie(t *testing.T) {
	router := newAuthRouter(newFakeUserStore())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}