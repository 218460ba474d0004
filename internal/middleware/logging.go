package middleware

import (
	"log"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes a concise structured line for each HTTP request,
// including the authenticated organization when present.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			rid, _ := c.Get(ContextKeyRequestID).(string)
			org := "-"
			if orgID, ok := OrgIDFromContext(c); ok {
				org = strconv.FormatInt(orgID, 10)
			}
			log.Printf("request_id=%s org=%s method=%s path=%s status=%d latency=%s", rid, org, c.Request().Method, c.Request().URL.Path, c.Response().Status, latency)

			return err
		}
	}
}
