package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linkedout/internal/cache"
	"linkedout/internal/config"
	"linkedout/internal/middleware"
	"linkedout/internal/models"
	"linkedout/internal/repositories"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/storage"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success   bool                  `json:"success"`
	Data      json.RawMessage       `json:"data"`
	Error     *response.ErrorDetail `json:"error"`
	RequestID string                `json:"request_id"`
}

type testServer struct {
	handler http.Handler
	sc      *services.ServiceCollection
}

func newTestServer(t *testing.T, authLimit int) *testServer {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{
		Server:  config.ServerConfig{Environment: "test", AllowedOrigins: []string{"*"}},
		Storage: config.StorageConfig{Provider: "memory", Seed: true},
		Session: config.SessionConfig{Provider: "memory", TTL: time.Hour},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret-that-is-long-enough",
			JWTExpiry:         time.Hour,
			BCryptCost:        bcrypt.MinCost,
			MinPasswordLength: 6,
		},
	}
	c := cache.NewMemoryCache(cache.DefaultConfig(), logger)
	sc, err := services.NewServiceCollection(context.Background(), cfg, services.Infrastructure{
		Store: storage.NewMemoryStore(),
		Cache: c,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sc.Shutdown(ctx)
	})

	limiterConfig := middleware.DefaultRateLimiterConfig()
	limiterConfig.Limit = authLimit

	handler := SetupRouter(&Dependencies{
		Services:        sc,
		Auth:            middleware.NewAuthMiddleware(sc.Sessions, logger),
		RateLimiter:     middleware.NewRateLimiter(c, limiterConfig, logger),
		Metrics:         middleware.NewMetricsCollector(),
		ResponseBuilder: response.NewBuilder(response.DefaultConfig(), logger),
		Logger:          logger,
	})
	return &testServer{handler: handler, sc: sc}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusNoContent {
		return rec, nil
	}
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, &env
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": repositories.SeedPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestHealthAndFallbacks(t *testing.T) {
	s := newTestServer(t, 100)

	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		errorType string
	}{
		{name: "health", method: http.MethodGet, path: "/health", status: http.StatusOK},
		{name: "liveness", method: http.MethodGet, path: "/healthz", status: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", status: http.StatusNotFound, errorType: services.ErrTypeNotFound},
		{name: "wrong method", method: http.MethodDelete, path: "/api/v1/badges", status: http.StatusMethodNotAllowed, errorType: "METHOD_NOT_ALLOWED"},
		{name: "wrong method on path variable", method: http.MethodPut, path: "/api/v1/jobs/job_1", status: http.StatusMethodNotAllowed, errorType: "METHOD_NOT_ALLOWED"},
		{name: "protected without token", method: http.MethodGet, path: "/api/v1/network/connections", status: http.StatusUnauthorized, errorType: services.ErrTypeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, tt.method, tt.path, "", nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.HeaderXRequestID))
			if tt.errorType == "" {
				assert.True(t, env.Success)
				return
			}
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.errorType, env.Error.Type)
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.login(t, "test@linkedout.com")

	rec, env := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		User *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "user_1", me.User.ID)

	// {id} accepts "me"
	rec, env = s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "user_1", user.ID)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, 2)
	body := map[string]string{"email": "test@linkedout.com", "password": "wrong-password"}

	for i := 0; i < 2; i++ {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Error.Type)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestBadgeCheckIsIdempotent(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.login(t, "test@linkedout.com")

	var first, second struct {
		Awarded []models.BadgeDefinition `json:"awarded"`
		Count   int                      `json:"count"`
	}

	rec, env := s.do(t, http.MethodPost, "/api/v1/users/me/badges/check", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Len(t, first.Awarded, first.Count)

	rec, env = s.do(t, http.MethodPost, "/api/v1/users/me/badges/check", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, 0, second.Count)
	assert.NotNil(t, second.Awarded)
}

func TestAwardOtherMemberForbidden(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.login(t, "test@linkedout.com")

	rec, env := s.do(t, http.MethodPost, "/api/v1/users/user_2/badges/first_post", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, services.ErrTypeForbidden, env.Error.Type)
}

func TestApplyTwiceConflicts(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.login(t, "marie@linkedout.com")

	rec, _ := s.do(t, http.MethodPost, "/api/v1/jobs/job_1/apply", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodPost, "/api/v1/jobs/job_1/apply", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, services.ErrTypeConflict, env.Error.Type)

	rec, env = s.do(t, http.MethodGet, "/api/v1/jobs/applications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var apps []*models.JobApplication
	require.NoError(t, json.Unmarshal(env.Data, &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, "job_1", apps[0].JobID)
}

func TestFeedCreateAndDelete(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.login(t, "test@linkedout.com")

	rec, env := s.do(t, http.MethodPost, "/api/v1/posts", token, map[string]string{"content": "Day 500 of doing nothing."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID     string `json:"id"`
		Author struct {
			ID string `json:"id"`
		} `json:"author"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "user_1", created.Author.ID)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/posts/"+created.ID+"/comments", token, map[string]string{"content": "Proud of me."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/posts/"+created.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/posts/"+created.ID+"/comments", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, s.sc.Repositories.Comment.ListByPost(context.Background(), created.ID))
}

func TestMetricsUseRouteTemplates(t *testing.T) {
	s := newTestServer(t, 100)

	s.do(t, http.MethodGet, "/api/v1/jobs/job_1", "", nil)
	s.do(t, http.MethodGet, "/api/v1/jobs/job_2", "", nil)

	rec, env := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot middleware.MetricsSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	var found bool
	for _, e := range snapshot.Endpoints {
		if e.Endpoint == "GET /api/v1/jobs/{id}" {
			found = true
			assert.Equal(t, int64(2), e.RequestCount)
		}
	}
	assert.True(t, found, "route template not recorded: %+v", snapshot.Endpoints)
}

func TestNotificationStream(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.login(t, "test@linkedout.com")

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/notifications/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	// The subscription starts after the upgrade; keep notifying until it lands.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.sc.NotificationService.Notify(context.Background(), "user_1", "Still unemployed", models.SeverityInfo, services.DurationShort)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var n models.Notification
	require.NoError(t, conn.ReadJSON(&n))
	assert.Equal(t, "user_1", n.UserID)
	assert.Equal(t, "Still unemployed", n.Message)
}
