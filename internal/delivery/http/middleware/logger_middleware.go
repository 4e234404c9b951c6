package middleware

import (
	"log/slog"

	deliverycontext "bazaar/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// RequestLogger attaches a request-scoped logger carrying the request id to
// the request context. Use-case log lines then correlate with the request
// that produced them.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestLogger := logger
			if requestID := deliverycontext.GetRequestID(c); requestID != "" {
				requestLogger = logger.With(slog.String("requestID", requestID))
			}

			ctx := deliverycontext.WithLogger(c.Request().Context(), requestLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
