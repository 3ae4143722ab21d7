package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// IdentityKey is the echo context key holding the caller's opaque identity.
const IdentityKey = "identity"

// Identity validates an optional bearer token issued by the identity provider
// and stores its subject as the caller identity. Requests without an
// Authorization header continue as anonymous; a header that does not carry a
// valid token is rejected.
func Identity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.RegisteredClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			c.Set(IdentityKey, claims.Subject)
			return next(c)
		}
	}
}

// CallerFrom returns the caller stored by Identity. It is anonymous when the
// request carried no token.
func CallerFrom(c echo.Context) domain.Caller {
	identity, _ := c.Get(IdentityKey).(string)
	return domain.Caller{Identity: identity}
}
