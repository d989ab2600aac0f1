package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/BruksfildServices01/club-admin/internal/audit"
	"github.com/BruksfildServices01/club-admin/internal/config"
	"github.com/BruksfildServices01/club-admin/internal/httperr"
	"github.com/BruksfildServices01/club-admin/internal/models"
	"github.com/BruksfildServices01/club-admin/internal/session"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newExceptionRouter(t *testing.T) (*gin.Engine, *audit.MemoryStore) {
	t.Helper()
	store := audit.NewMemoryStore()
	log := zaptest.NewLogger(t)
	reporter := audit.NewExceptionReporter(audit.NewRecorder(store, log), log)

	r := gin.New()
	r.Use(RequestContext(), ReportExceptions(reporter, log))
	return r, store
}

func TestRequestContextPopulatesAuditInfo(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext())

	var got audit.Context
	r.GET("/api/clubs/:club", func(c *gin.Context) {
		got = audit.Capture(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/clubs/1?tab=members", nil)
	req.Header.Set("User-Agent", "go-test")
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/clubs/:club", got.Route)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "http://example.com/api/clubs/1?tab=members", got.URL)
	assert.Equal(t, "go-test", got.UserAgent)
	assert.Equal(t, "abc-123", got.RequestID)
	assert.NotEmpty(t, got.IP)
	assert.Nil(t, got.ActorID)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestContextGeneratesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext())

	var got string
	r.GET("/health", func(c *gin.Context) {
		got = audit.Capture(c.Request.Context()).RequestID
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, got)
	assert.Equal(t, got, w.Header().Get(RequestIDHeader))
}

func TestReportExceptionsRecoversPanics(t *testing.T) {
	r, store := newExceptionRouter(t)
	r.GET("/api/clubs/:club/members/:member", func(c *gin.Context) {
		BindRecord(c, "member", &models.Member{ID: 9})
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/1/members/abc", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := store.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "exception", e.Action)
	assert.Equal(t, "Member", e.EntityType)
	require.NotNil(t, e.EntityID)
	assert.Equal(t, uint(9), *e.EntityID)
	require.NotNil(t, e.ErrorMessage)
	assert.Equal(t, "panic: boom", *e.ErrorMessage)
	require.NotNil(t, e.Route)
	assert.Equal(t, "/api/clubs/:club/members/:member", *e.Route)
	assert.Equal(t, "/api/clubs/:club/members/:member", e.Metadata["route_pattern"])
}

func TestReportExceptionsUsesRawParamWhenNothingBound(t *testing.T) {
	r, store := newExceptionRouter(t)
	r.DELETE("/api/clubs/:club/events/:event", func(c *gin.Context) {
		httperr.Respond(c, errors.New("deadlock detected"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/clubs/1/events/5", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Event", entries[0].EntityType)
	require.NotNil(t, entries[0].EntityID)
	assert.Equal(t, uint(5), *entries[0].EntityID)
	assert.Equal(t, "*errors.errorString", *entries[0].ErrorClass)
}

func TestReportExceptionsSkipsExpectedErrors(t *testing.T) {
	r, store := newExceptionRouter(t)
	r.GET("/api/clubs/:club/members/:member", func(c *gin.Context) {
		_ = c.Error(httperr.ErrNotFound)
		httperr.NotFound(c, "not_found", "missing")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/1/members/3", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, store.Entries())
}

func TestReportExceptionsIgnoresPublicErrors(t *testing.T) {
	r, store := newExceptionRouter(t)
	r.GET("/api/clubs/:club", func(c *gin.Context) {
		_ = c.Error(errors.New("shown to user")).SetType(gin.ErrorTypePublic)
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/1", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Empty(t, store.Entries())
}

type stubRevoker struct {
	revoked map[string]bool
	err     error
}

func (s stubRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (s stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], s.err
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	valid := jwt.MapClaims{
		"sub":    7,
		"clubId": 2,
		"role":   "owner",
		"jti":    "token-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name     string
		revoker  session.Revoker
		header   string
		wantCode int
	}{
		{"valid token", session.NoopRevoker{}, "Bearer " + signToken(t, valid), http.StatusOK},
		{"missing header", session.NoopRevoker{}, "", http.StatusUnauthorized},
		{"wrong scheme", session.NoopRevoker{}, "Basic abc", http.StatusUnauthorized},
		{"garbage token", session.NoopRevoker{}, "Bearer not-a-jwt", http.StatusUnauthorized},
		{
			"revoked token",
			stubRevoker{revoked: map[string]bool{"token-1": true}},
			"Bearer " + signToken(t, valid),
			http.StatusUnauthorized,
		},
		{
			"session store down",
			stubRevoker{err: errors.New("redis: connection refused")},
			"Bearer " + signToken(t, valid),
			http.StatusServiceUnavailable,
		},
		{
			"expired token",
			session.NoopRevoker{},
			"Bearer " + signToken(t, jwt.MapClaims{"sub": 7, "clubId": 2, "exp": time.Now().Add(-time.Hour).Unix()}),
			http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(AuthMiddleware(cfg, tc.revoker))

			var actor *uint
			r.GET("/api/me", func(c *gin.Context) {
				actor = audit.Capture(c.Request.Context()).ActorID
				assert.Equal(t, uint(2), c.GetUint(ContextClubID))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			if tc.wantCode == http.StatusOK {
				require.NotNil(t, actor)
				assert.Equal(t, uint(7), *actor)
			}
		})
	}
}

func TestClubScopeRejectsOtherClubs(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextClubID, uint(2))
		c.Next()
	})
	r.GET("/api/clubs/:club", ClubScope(nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/3", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
