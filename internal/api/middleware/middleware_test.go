package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoojob/internal/models"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func validClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   sub,
		"email": "user@example.com",
		"role":  "authenticated",
		"aud":   "authenticated",
		"iss":   "https://proj.supabase.co/auth/v1",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "token": c.GetString("access_token")})
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", testSecret)
	t.Setenv("SUPABASE_JWT_AUDIENCE", "authenticated")
	t.Setenv("SUPABASE_JWT_ISSUER", "")

	r := gin.New()
	r.GET("/me", JWTAuth(), whoami)

	good := signToken(t, testSecret, validClaims("user-1"))
	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + signToken(t, "another-secret-another-secret-another", validClaims("user-1")), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": "u", "aud": "authenticated", "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized},
		{"wrong audience", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": "u", "aud": "anon", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized},
		{"no subject", "Bearer " + signToken(t, testSecret, jwt.MapClaims{"aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := do(r, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	w := do(r, req)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, good, body["token"])
}

func TestJWTAuthWebsocketQueryToken(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", testSecret)
	t.Setenv("SUPABASE_JWT_AUDIENCE", "")
	t.Setenv("SUPABASE_JWT_ISSUER", "")

	r := gin.New()
	r.GET("/ws", JWTAuth(), whoami)
	tok := signToken(t, testSecret, validClaims("user-ws"))

	req := httptest.NewRequest(http.MethodGet, "/ws?access_token="+tok, nil)
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/ws?access_token="+tok, nil)
	req.Header.Set("Upgrade", "websocket")
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestJWTAuthWithoutSecret(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "")

	r := gin.New()
	r.GET("/me", JWTAuth(), whoami)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	assert.Equal(t, http.StatusInternalServerError, do(r, req).Code)
}

func TestOptionalJWT(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", testSecret)
	t.Setenv("SUPABASE_JWT_AUDIENCE", "")
	t.Setenv("SUPABASE_JWT_ISSUER", "")

	r := gin.New()
	r.GET("/jobs", OptionalJWT(), whoami)

	w := do(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	req = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims("user-2")))
	w = do(r, req)
	assert.Contains(t, w.Body.String(), `"user_id":"user-2"`)
}

type roleMap map[string]models.UserRole

func (m roleMap) RoleOf(_ context.Context, userID string) (models.UserRole, error) {
	if userID == "broken" {
		return "", errors.New("db down")
	}
	return m[userID], nil
}

func withUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	}
}

func TestLoadRoleAndRequireRole(t *testing.T) {
	roles := roleMap{"rec": models.RoleRecruiter, "cand": models.RoleCandidate, "new": ""}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	cases := []struct {
		user   string
		guard  gin.HandlerFunc
		status int
	}{
		{"rec", RequireRecruiter(), http.StatusNoContent},
		{"cand", RequireRecruiter(), http.StatusForbidden},
		{"cand", RequireCandidate(), http.StatusNoContent},
		{"rec", RequireCandidate(), http.StatusForbidden},
		{"new", RequireCandidate(), http.StatusForbidden},
		{"broken", RequireCandidate(), http.StatusServiceUnavailable},
		{"", RequireRecruiter(), http.StatusForbidden},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", withUser(tc.user), LoadRole(roles, nil), tc.guard, ok)
		w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equalf(t, tc.status, w.Code, "user %q", tc.user)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/auth/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		return do(r, req).Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))

	// idle clients are forgotten
	now = now.Add(time.Hour)
	rl.get("10.0.0.3")
	rl.mu.Lock()
	_, kept := rl.clients["10.0.0.1"]
	rl.mu.Unlock()
	assert.False(t, kept)
}

func TestRequestLogger(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/api/v1/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/jobs/:id", func(c *gin.Context) {
		c.Set("role", models.RoleCandidate)
		c.Status(http.StatusNotFound)
	})

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Empty(t, buf.String())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/42", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w = do(r, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "/api/v1/jobs/:id", entry["path"])
	assert.Equal(t, "candidate", entry["role"])
	assert.Equal(t, "req-123", entry["request_id"])
}
