package middleware

import (
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestID adds a unique request ID to each request and its response
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(echo.HeaderXRequestID, requestID)
			}

			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
			c.Set("logger", ctxLogger)
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), ctxLogger)))

			return next(c)
		}
	}
}
