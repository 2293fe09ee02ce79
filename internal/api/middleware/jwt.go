package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/yoojob/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type supabaseClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role"` // usually "authenticated" / "anon"
	UserMetadata map[string]any `json:"user_metadata"`
}

type jwtConfig struct {
	secret   string
	issuer   string // optional
	audience string // optional
}

func jwtConfigFromEnv() jwtConfig {
	return jwtConfig{
		secret:   os.Getenv("SUPABASE_JWT_SECRET"),
		issuer:   os.Getenv("SUPABASE_JWT_ISSUER"),
		audience: os.Getenv("SUPABASE_JWT_AUDIENCE"),
	}
}

// bearerToken reads the Authorization header, falling back to the
// access_token query parameter browsers use for websocket upgrades.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c.GetHeader("Upgrade") != "" {
		return strings.TrimSpace(c.Query("access_token"))
	}
	return ""
}

// verify returns the subject of a valid token, or a safe message.
func (cfg jwtConfig) verify(raw string) (*supabaseClaims, string) {
	claims := &supabaseClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(cfg.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || tok == nil || !tok.Valid {
		return nil, "invalid token"
	}
	if cfg.issuer != "" && claims.Issuer != cfg.issuer {
		return nil, "invalid token issuer"
	}
	if cfg.audience != "" {
		valid := false
		for _, aud := range claims.Audience {
			if aud == cfg.audience {
				valid = true
				break
			}
		}
		if !valid {
			return nil, "invalid token audience"
		}
	}
	if claims.Subject == "" { // Supabase user UUID is in "sub"
		return nil, "missing subject"
	}
	return claims, ""
}

func setIdentity(c *gin.Context, raw string, claims *supabaseClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("email", claims.Email)
	c.Set("access_token", raw)
}

func JWTAuth() gin.HandlerFunc {
	cfg := jwtConfigFromEnv()

	return func(c *gin.Context) {
		if cfg.secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "SUPABASE_JWT_SECRET is not set",
			})
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims, msg := cfg.verify(raw)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: msg,
			})
			return
		}

		setIdentity(c, raw, claims)
		c.Next()
	}
}

// OptionalJWT identifies the caller when a valid token is present and
// lets anonymous visitors through otherwise.
func OptionalJWT() gin.HandlerFunc {
	cfg := jwtConfigFromEnv()

	return func(c *gin.Context) {
		raw := bearerToken(c)
		if cfg.secret != "" && raw != "" {
			if claims, _ := cfg.verify(raw); claims != nil {
				setIdentity(c, raw, claims)
			}
		}
		c.Next()
	}
}
