package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mashangjie/taskmarket/internal/infrastructure/payment"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Signature"

// maxSignedBodyBytes caps the body read for verification.
const maxSignedBodyBytes = 1 << 20

// Signature rejects requests whose body is not signed with secret. The body
// is restored so the handler can bind it.
func Signature(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sig := c.Request().Header.Get(SignatureHeader)
			if sig == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing signature")
			}

			body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxSignedBodyBytes+1))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
			}
			if len(body) > maxSignedBodyBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			if !payment.Verify(key, body, sig) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
			}
			return next(c)
		}
	}
}
