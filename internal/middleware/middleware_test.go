package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/internal/scope"
	"github.com/jwalitptl/clinic-records/internal/store"
	"github.com/jwalitptl/clinic-records/pkg/auth"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	e := gin.New()
	e.Use(mw...)
	e.Any("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	e.GET("/panic", func(c *gin.Context) { panic("boom") })
	return e
}

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRequestIDPropagates(t *testing.T) {
	e := newEngine(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	assert.Equal(t, "abc-123", serve(e, req).Header().Get(HeaderXRequestID))

	w := serve(e, httptest.NewRequest(http.MethodGet, "/ping", nil))
	_, err := uuid.Parse(w.Header().Get(HeaderXRequestID))
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	e := newEngine(RequestID(), Recovery(logger.Nop()))
	w := serve(e, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRateLimitIsPerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Every(time.Hour), Burst: 1})
	e := newEngine(rl.RateLimit())

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(e, req).Code
	}

	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.2"))
}

func TestCORS(t *testing.T) {
	e := newEngine(CORS(DefaultCORSConfig([]string{"https://app.clinica.com"})))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.clinica.com")
	w := serve(e, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.clinica.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(e, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardEchoesOriginWithCredentials(t *testing.T) {
	cfg := DefaultCORSConfig(nil)
	assert.Equal(t, "https://a.example", cfg.allowedOrigin("https://a.example"))
	assert.Equal(t, "*", cfg.allowedOrigin(""))
}

func TestSizeLimit(t *testing.T) {
	e := newEngine(SizeLimit(8))
	w := serve(e, httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(e, httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader("ok")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	w := serve(newEngine(SecurityHeaders()), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

type stubVerifier struct {
	id  auth.Identity
	err error
}

func (v stubVerifier) Verify(string) (auth.Identity, error) { return v.id, v.err }

type stubSessions struct {
	got   scope.Identity
	store store.Store
	err   error
}

func (s *stubSessions) Acquire(_ context.Context, id scope.Identity) (store.Store, error) {
	s.got = id
	return s.store, s.err
}

func authEngine(m *AuthMiddleware) *gin.Engine {
	e := gin.New()
	e.GET("/me", m.Authenticate(), func(c *gin.Context) {
		id := c.MustGet(handler.ContextIdentity).(auth.Identity)
		_, hasStore := c.Get(handler.ContextStore)
		c.JSON(http.StatusOK, gin.H{"email": id.Email, "store": hasStore})
	})
	return e
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthenticate(t *testing.T) {
	id := auth.Identity{UserID: uuid.New(), Email: "ana@clinica.com"}
	sessions := &stubSessions{store: store.New(repository.Repositories{}, scope.Unbound(), logger.Nop(), metrics.NewMetrics("test", prometheus.NewRegistry()))}
	e := authEngine(NewAuthMiddleware(stubVerifier{id: id}, sessions))

	w := serve(e, bearer("token"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"ana@clinica.com","store":true}`, w.Body.String())
	assert.Equal(t, id.UserID, sessions.got.UserID)
}

func TestAuthenticateRejects(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		verifier stubVerifier
		sessions *stubSessions
		status   int
	}{
		{"missing header", "", stubVerifier{}, &stubSessions{}, http.StatusUnauthorized},
		{"bad token", "x", stubVerifier{err: auth.ErrInvalidToken}, &stubSessions{}, http.StatusUnauthorized},
		{"session load fails", "x", stubVerifier{id: auth.Identity{UserID: uuid.New()}}, &stubSessions{err: errors.New("db down")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := authEngine(NewAuthMiddleware(tt.verifier, tt.sessions))
			assert.Equal(t, tt.status, serve(e, bearer(tt.token)).Code)
		})
	}
}
