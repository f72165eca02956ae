package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes a key=value line per request. License keys are truncated
// so credential material never lands in logs.
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
			line := fmt.Sprintf("request_id=%s method=%s path=%s status=%d latency=%s bytes=%d",
				rid, c.Request().Method, c.Request().URL.Path, c.Response().Status, latency, c.Response().Size)
			if key := LicenseKeyFromContext(c); key != "" {
				line += " license=" + truncateKey(key)
			}
			log.Print(line)

			return err
		}
	}
}
