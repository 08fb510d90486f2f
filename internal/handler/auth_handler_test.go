package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	internalmiddleware "github.com/helpora/helpora-api/internal/middleware"
	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/internal/service"
)

type stubUserRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	hasProfile    bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:         make(map[string]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := s.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (s *stubUserRepo) HasProviderProfile(ctx context.Context, userID string) (bool, error) {
	return s.hasProfile, nil
}

func (s *stubUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.refreshTokens[token.Token] = token
	return nil
}

func (s *stubUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := s.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (s *stubUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, rt := range s.refreshTokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (s *stubUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, rt := range s.refreshTokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

func buildAuthRouter(repo *stubUserRepo) (*gin.Engine, *service.AuthService) {
	gin.SetMode(gin.TestMode)
	svc := service.NewAuthService(repo, validator.New(), zap.NewNop(), service.AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "helpora-api",
	})
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", internalmiddleware.JWT(svc), h.Logout)
	return r, svc
}

func TestSignupAndLoginFlow(t *testing.T) {
	repo := newStubUserRepo()
	router, _ := buildAuthRouter(repo)

	signup := `{"email":"new@example.com","password":"password","role":"CUSTOMER"}`
	req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(signup))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code)

	login := `{"email":"new@example.com","password":"password"}`
	req, _ = http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(login))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.AccessToken)
	assert.NotEmpty(t, body.Data.RefreshToken)
	assert.True(t, body.Data.User.ProfileComplete)
}

func TestSignupRejectsAdmin(t *testing.T) {
	router, _ := buildAuthRouter(newStubUserRepo())

	payload := `{"email":"boss@example.com","password":"password","role":"ADMIN"}`
	req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLoginSuspendedAccount(t *testing.T) {
	repo := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo.users["u1"] = &models.User{
		ID:           "u1",
		Email:        "banned@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		Status:       models.UserSuspended,
	}
	router, _ := buildAuthRouter(repo)

	payload := `{"email":"banned@example.com","password":"password"}`
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "ACCOUNT_SUSPENDED")
}

func TestLogoutRequiresToken(t *testing.T) {
	router, _ := buildAuthRouter(newStubUserRepo())

	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", bytes.NewBufferString(`{"refresh_token":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefreshEndpointRotates(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Email: "user@example.com", Role: models.RoleCustomer, Status: models.UserActive}
	repo.refreshTokens["old"] = &models.RefreshToken{ID: "rt1", UserID: "u1", Token: "old", ExpiresAt: time.Now().Add(time.Hour)}
	router, _ := buildAuthRouter(repo)

	req, _ := http.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(`{"refresh_token":"old"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, repo.refreshTokens["old"].Revoked)
}
