package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// UUIDv7Generator generates time-sortable UUIDv7 request ids.
//
// Format: "0190a6e4-6c1e-7c4a-9b1e-6a1f2d3c4b5a" (36 characters)
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// requestLogger logs one line per request through slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true, // lets the error handler set the status before it is logged
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				slog.Info("request", append(attrs, "error", v.Error.Error())...)
			} else {
				slog.Info("request", attrs...)
			}
			return nil
		},
	})
}

// recoverer turns a panicking handler into a 500 response and logs the
// panic with its stack.
func recoverer() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			slog.Error("panic recovered",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err,
				"stack", string(stack))
			return err
		},
	})
}

// acceptCheck answers 406 when the request accepts JSON only with media
// type parameters, e.g. "application/vnd.api+json; ext=bulk". Accept
// headers that name no JSON type at all are let through.
func acceptCheck() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !acceptable(c.Request().Header.Values(echo.HeaderAccept)) {
				return newAPIError(http.StatusNotAcceptable, CodeNotAcceptable, "unsupported Accept header")
			}
			return next(c)
		}
	}
}

// acceptable reports whether at least one JSON media range in the Accept
// header values is free of media type parameters. The q weight does not
// count as one.
func acceptable(values []string) bool {
	var jsonRanges, withParams int
	for _, value := range values {
		for _, mediaRange := range strings.Split(value, ",") {
			mediaType, params, _ := strings.Cut(mediaRange, ";")
			if !strings.Contains(strings.ToLower(mediaType), "json") {
				continue
			}
			jsonRanges++
			if hasMediaParams(params) {
				withParams++
			}
		}
	}
	return jsonRanges == 0 || withParams < jsonRanges
}

func hasMediaParams(params string) bool {
	for _, param := range strings.Split(params, ";") {
		name, _, _ := strings.Cut(param, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" && name != "q" {
			return true
		}
	}
	return false
}
