package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kidcare/afterhours/internal/shared/config"
	"github.com/kidcare/afterhours/internal/shared/errors"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// RoleAdmin may register and replace triage protocols.
const RoleAdmin = "admin"

// User represents the authenticated caller from JWT claims
type User struct {
	ID    string   `json:"sub"`
	Roles []string `json:"roles"`
}

// Claims extends JWT claims with role data
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// IssueToken signs an HS256 token for subject carrying roles.
func IssueToken(cfg config.AuthConfig, subject string, roles []string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
		Roles: roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// Middleware creates JWT authentication middleware
func Middleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errors.WriteError(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				errors.WriteError(w, errors.Unauthorized("invalid authorization header format"))
				return
			}

			token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithIssuer(cfg.Issuer),
			)
			if err != nil {
				errors.WriteError(w, errors.Unauthorized("invalid token"))
				return
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || !token.Valid {
				errors.WriteError(w, errors.Unauthorized("invalid token claims"))
				return
			}

			user := &User{
				ID:    claims.Subject,
				Roles: claims.Roles,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the user from request context
func GetUser(ctx context.Context) *User {
	user, ok := ctx.Value(UserContextKey).(*User)
	if !ok {
		return nil
	}
	return user
}

// RequireRoles creates middleware that requires specific roles
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				errors.WriteError(w, errors.Unauthorized("authentication required"))
				return
			}

			if !user.HasAnyRole(roles...) {
				errors.WriteError(w, errors.Forbidden("insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HasAnyRole checks if user has at least one of roles
func (u *User) HasAnyRole(roles ...string) bool {
	for _, required := range roles {
		for _, role := range u.Roles {
			if role == required {
				return true
			}
		}
	}
	return false
}
