package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys for the caller identity.
const (
	ProfileIDKey = "profile_id"
	EmailKey     = "email"
	RoleKey      = "role"
)

// Identity resolves the caller from an optional bearer token. Requests
// without an Authorization header pass through anonymously; a header that
// is malformed or carries an invalid token is rejected with 401.
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

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			id, err := strconv.ParseInt(sub, 10, 64)
			if err != nil || id <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing profile identity")
			}

			c.Set(ProfileIDKey, id)
			c.Set(EmailKey, claims["email"])
			c.Set(RoleKey, claims["role"])

			return next(c)
		}
	}
}
