package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkedout/internal/cache"
	"linkedout/internal/contextutils"
	"linkedout/internal/models"
	"linkedout/internal/response"
	"linkedout/internal/session"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCache(t *testing.T) cache.Cache {
	t.Helper()
	c := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// withBuilder mirrors the router: the response builder is always present
func withBuilder(h http.Handler) http.Handler {
	return response.Middleware(response.NewBuilder(nil, zap.NewNop()))(h)
}

func errorType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Type
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(HeaderXRequestID))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderXCorrelationID, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(HeaderXRequestID))
	})
}

func TestAuthenticate(t *testing.T) {
	sessions := session.NewManager(newCache(t), "test-secret", time.Hour, zap.NewNop())
	_, token, err := sessions.Create(context.Background(), &models.User{ID: "user_1", Name: "Jean Glandeur"})
	require.NoError(t, err)

	am := NewAuthMiddleware(sessions, zap.NewNop())
	var gotUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = contextutils.GetUserID(r.Context())
		if sess := session.FromContext(r.Context()); sess != nil {
			assert.Equal(t, "Jean Glandeur", sess.CurrentUser().Name)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		required bool
		header   string
		query    string
		status   int
		user     string
	}{
		{"bearer header", true, "Bearer " + token, "", http.StatusNoContent, "user_1"},
		{"query token", true, "", "?token=" + token, http.StatusNoContent, "user_1"},
		{"missing token", true, "", "", http.StatusUnauthorized, ""},
		{"garbage token", true, "Bearer nope", "", http.StatusUnauthorized, ""},
		{"wrong scheme", true, "Basic " + token, "", http.StatusUnauthorized, ""},
		{"optional without token", false, "", "", http.StatusNoContent, ""},
		{"optional with garbage", false, "Bearer nope", "", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			withBuilder(am.Authenticate(tt.required)(next)).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.user, gotUser)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "UNAUTHORIZED", errorType(t, rec))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(newCache(t), &RateLimiterConfig{
		Enabled: true, HeadersEnabled: true, Limit: 2, Window: time.Minute, FailOpen: true,
	}, zap.NewNop())
	limiter.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 30, 0, time.UTC) }

	h := withBuilder(RateLimit(limiter, "auth")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	rec := call("10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "31", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errorType(t, rec))

	// Other clients and later windows have their own budget
	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code)
	limiter.now = func() time.Time { return time.Date(2024, 6, 1, 12, 1, 1, 0, time.UTC) }
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
}

func TestRecoverPanic(t *testing.T) {
	h := withBuilder(RecoverPanic(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nap interrupted")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorType(t, rec))
	assert.NotContains(t, rec.Body.String(), "nap interrupted")
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://linkedout.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://linkedout.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://linkedout.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsByRouteTemplate(t *testing.T) {
	collector := NewMetricsCollector()
	r := mux.NewRouter()
	r.Use(APIMetricsMiddleware(collector))
	r.HandleFunc("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"user_1", "user_2", "ghost"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
	}

	snap := collector.GetSnapshot()
	assert.EqualValues(t, 3, snap.API.TotalRequests)
	assert.EqualValues(t, 1, snap.API.Status4xx)
	require.Len(t, snap.Endpoints, 1)
	assert.Equal(t, "GET /users/{id}", snap.Endpoints[0].Endpoint)
	assert.EqualValues(t, 1, snap.Endpoints[0].ErrorCount)
	assert.EqualValues(t, 2, snap.Endpoints[0].StatusCodes[http.StatusOK])
}
