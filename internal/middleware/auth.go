package middleware

import (
	"net/http"
	"strings"

	"github.com/Mukulraj109/rez-backend-sub002/pkg/jwtutil"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const claimsKey = "user"

// TokenValidator parses bearer tokens into merchant claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwtutil.MerchantClaims, error)
}

// JWTAuth validates the bearer token and stores the claims on the context
func JWTAuth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("Invalid authorization header format")
				return unauthorized(c, "invalid authorization header format")
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(claimsKey, claims)
			c.Set("logger", log.With(zap.Uint("merchant_id", claims.MerchantID)))
			log.Debug("JWT token validated successfully",
				zap.Uint("merchant_id", claims.MerchantID),
				zap.String("role", claims.Role))

			return next(c)
		}
	}
}

// RequireRole rejects authenticated callers whose token carries another role
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return unauthorized(c, "authentication required")
			}
			if claims.Role != role {
				logger.FromEcho(c).Warn("Role check failed",
					zap.Uint("merchant_id", claims.MerchantID),
					zap.String("role", claims.Role),
					zap.String("required", role))
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "access denied"})
			}
			return next(c)
		}
	}
}

// Claims returns the token claims stored by JWTAuth
func Claims(c echo.Context) (*jwtutil.MerchantClaims, bool) {
	claims, ok := c.Get(claimsKey).(*jwtutil.MerchantClaims)
	return claims, ok && claims != nil
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": message})
}
