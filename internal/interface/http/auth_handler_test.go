package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkrajat/fullstack-monorpo-starter/internal/application"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/domain/entity"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/domain/repository"
	handlers "github.com/rkrajat/fullstack-monorpo-starter/internal/interface/http"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/interface/middleware"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/router"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/router/modules"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/apperr"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/helpers"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/validation"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memRepo struct {
	users  map[string]*entity.User
	nextID int
}

func newMemRepo() *memRepo { return &memRepo{users: map[string]*entity.User{}} }

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	u.ID = fmt.Sprintf("u-%d", r.nextID)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type testServer struct {
	engine *gin.Engine
	repo   *memRepo
	tokens *helpers.TokenManager
}

// newTestServer assembles the engine the way the composition root does, with
// an in-memory repository and no redis (the limiter passes through).
func newTestServer(t *testing.T, production bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := newMemRepo()
	tokens := helpers.NewTokenManager(testSecret, time.Hour)
	svc := application.NewAuthService(repo, logger)
	authHandler := handlers.NewAuthHandler(svc, tokens, logger, nil, "starter")

	r := gin.New()
	r.Use(middleware.Recovery(logger, production))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.ErrorHandler(logger, production))

	reg := router.NewRegistry(r)
	reg.Add(modules.NewAuthModule(authHandler, tokens, nil))
	reg.RegisterAll()

	r.GET("/health", handlers.NewHealthHandler("starter").Health)
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperr.NotFound("Route not found"))
	})

	return &testServer{engine: r, repo: repo, tokens: tokens}
}

func (s *testServer) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

const registerBody = `{"email":"a@b.com","password":"secret1","firstName":"A","lastName":"B"}`

func TestEndToEndAuthFlow(t *testing.T) {
	srv := newTestServer(t, false)

	// register
	w := srv.do(http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "A", user["firstName"])
	assert.Equal(t, "B", user["lastName"])
	assert.NotEmpty(t, user["id"])

	// me with the fresh token
	w = srv.do(http.MethodGet, "/api/auth/me", "", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decode(t, w)
	assert.Equal(t, user["id"], me["id"])
	assert.Equal(t, "a@b.com", me["email"])
	assert.Equal(t, "A", me["firstName"])
	assert.Equal(t, "B", me["lastName"])

	// login with the wrong password
	w = srv.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"wrong"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	srv := newTestServer(t, false)
	srv.do(http.MethodPost, "/api/auth/register", registerBody, nil)

	w := srv.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := srv.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestLoginAntiEnumeration(t *testing.T) {
	srv := newTestServer(t, false)
	srv.do(http.MethodPost, "/api/auth/register", registerBody, nil)

	unknown := srv.do(http.MethodPost, "/api/auth/login", `{"email":"nobody@b.com","password":"secret1"}`, nil)
	wrongPwd := srv.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrongPwd.Code)
	// byte-identical bodies: no enumeration signal
	assert.Equal(t, unknown.Body.String(), wrongPwd.Body.String())
}

func TestRegisterValidationReportsAllViolations(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodPost, "/api/auth/register", `{"email":"nope","password":"abc","firstName":"","lastName":""}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Invalid request data", body["error"])
	details, ok := body["details"].([]any)
	require.True(t, ok, "details should be a list: %s", w.Body.String())
	assert.Len(t, details, 4)

	first, _ := details[0].(map[string]any)
	require.NotNil(t, first)
	assert.Equal(t, "email", first["path"])
	assert.Equal(t, "must be a valid email", first["message"])
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(http.MethodPost, "/api/auth/register", registerBody, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "User already exists", body["error"])

	// exactly one document for that email
	assert.Len(t, srv.repo.users, 1)
}

func TestAuthGate(t *testing.T) {
	srv := newTestServer(t, false)
	w := srv.do(http.MethodPost, "/api/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := decode(t, w)["token"].(string)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"no header", "", http.StatusUnauthorized, "Authorization header missing"},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized, "Invalid token"},
		{"valid token", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hdr map[string]string
			if tt.header != "" {
				hdr = map[string]string{"Authorization": tt.header}
			}
			w := srv.do(http.MethodGet, "/api/auth/me", "", hdr)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode(t, w)["error"])
			}
		})
	}
}

func TestAuthGateExpiredToken(t *testing.T) {
	srv := newTestServer(t, false)

	stale := helpers.NewTokenManager(testSecret, -time.Minute)
	token, _, err := stale.Issue("u-1", "a@b.com")
	require.NoError(t, err)

	w := srv.do(http.MethodGet, "/api/auth/me", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token expired", decode(t, w)["error"])
}

func TestMeForDeletedAccount(t *testing.T) {
	srv := newTestServer(t, false)
	token, _, err := srv.tokens.Issue("gone", "ghost@b.com")
	require.NoError(t, err)

	w := srv.do(http.MethodGet, "/api/auth/me", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestUnmatchedRoute(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decode(t, w)["error"])
}

func TestUnclassifiedErrorHidesDetailInProduction(t *testing.T) {
	srv := newTestServer(t, true)
	srv.engine.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: something awful"))
	})

	w := srv.do(http.MethodGet, "/boom", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestUnclassifiedErrorCarriesStackInDevelopment(t *testing.T) {
	srv := newTestServer(t, false)
	srv.engine.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("kaput"))
	})

	w := srv.do(http.MethodGet, "/boom", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Internal server error", body["error"])
	details, _ := body["details"].(map[string]any)
	require.NotNil(t, details)
	assert.NotEmpty(t, details["stack"])
	assert.NotContains(t, body["error"], "kaput")
}

func TestPanicIsRecoveredToGenericError(t *testing.T) {
	srv := newTestServer(t, true)
	srv.engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := srv.do(http.MethodGet, "/panic", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
