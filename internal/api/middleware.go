package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"StockOutlook/internal/metrics"
)

// Recover turns a handler panic into a 500 envelope.
func Recover(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					log.Error().Err(perr).Bytes("stack", debug.Stack()).Msg("panic recovered")
					err = InternalServerErrorResponse(c)
				}
			}()
			return next(c)
		}
	}
}

// Observe logs each request and records it under its route template.
// 5xx responses log at error level, slow requests at warn.
func Observe(log zerolog.Logger, rec *metrics.Recorder, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			dur := time.Since(start)
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.ObserveHTTP(route, c.Request().Method, status, dur)

			ev := log.Debug()
			switch {
			case status >= http.StatusInternalServerError:
				ev = log.Error()
			case slowThreshold > 0 && dur >= slowThreshold:
				ev = log.Warn()
			}
			ev.Str("route", route).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Int("status", status).
				Dur("duration", dur).
				Msg("http request")
			return nil
		}
	}
}
