package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Tanvirgit07/TK-Anii-server/configs"
	"github.com/Tanvirgit07/TK-Anii-server/internal/httputil"
	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/golang-jwt/jwt/v5"
)

const IdentityContextKey = "identity"

// Identity is the verified caller extracted from the bearer token. It
// authenticates the session only; money movement still requires the PIN.
type Identity struct {
	AccountID uint
	Mobile    string
	Role      string
}

// FromContext returns the Identity placed by Authenticated.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(Identity)
	return id, ok
}

func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(configs.AppConfig.JWT.SECRET), nil
		})
		if err != nil || !token.Valid {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			logger.Log.Error("jwt subject missing or wrong type")
			httputil.WriteError(w, http.StatusUnauthorized, "invalid token payload")
			return
		}
		mobile, _ := claims["mobile"].(string)
		role, _ := claims["role"].(string)

		identity := Identity{AccountID: uint(sub), Mobile: mobile, Role: role}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on the role claim. It runs inside Authenticated.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := FromContext(r.Context())
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "missing identity")
				return
			}
			if identity.Role != role {
				httputil.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
