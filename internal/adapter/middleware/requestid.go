package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"lendpool-backend/pkg/id"
)

// ContextKeyRequestID is the echo context key holding the correlation id.
const ContextKeyRequestID = "request_id"

// RequestID tags every request with a correlation id. Clients that send
// Ax-Request-Id keep theirs; everything else gets a generated 32-hex id.
// The id is echoed back in X-Request-Id so callers can quote it in reports.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := strings.TrimSpace(c.Request().Header.Get("Ax-Request-Id"))
			if rid == "" {
				rid = id.NewID32()
			}
			c.Set(ContextKeyRequestID, rid)
			c.Response().Header().Set("X-Request-Id", rid)
			return next(c)
		}
	}
}
