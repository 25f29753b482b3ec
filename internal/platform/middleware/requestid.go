package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDFromContext returns the id assigned by RequestID, or "" when the
// middleware has not run.
func RequestIDFromContext(c echo.Context) string {
	rid, _ := c.Get("request_id").(string)
	return rid
}

// RequestID assigns a request id to every request. An id supplied by the
// client in X-Request-ID is kept so upstream proxies can correlate logs.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.New().String()
			}
			c.Set("request_id", rid)
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
