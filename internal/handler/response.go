package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/middleware"
	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/validation"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func okMessage(c echo.Context, status int, message string, data interface{}) error {
	body := echo.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

func failure(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// fail maps a service error onto the response envelope
func fail(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	var verr *domain.ValidationError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		fields := verr.Fields
		if fields == nil {
			fields = []domain.FieldError{}
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": verr.Message, "errors": fields})
	case errors.Is(err, domain.ErrInvalidTransition):
		return failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return failure(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		log.Warn("Access denied", zap.String("path", c.Path()), zap.Error(err))
		return failure(c, http.StatusForbidden, "access denied")
	case errors.Is(err, domain.ErrNotFound):
		return failure(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		return failure(c, http.StatusConflict, err.Error())
	case errors.As(err, &herr):
		return failure(c, herr.Code, http.StatusText(herr.Code))
	}

	log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	return failure(c, http.StatusInternalServerError, "internal server error")
}

// bind decodes the request and runs struct validation, reporting JSON field names
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		logger.FromEcho(c).Debug("Failed to bind request", zap.Error(err))
		return &domain.ValidationError{Message: "invalid request"}
	}
	if err := c.Validate(dst); err != nil {
		fields := validation.Fields(err)
		if fields == nil {
			return err
		}
		out := make([]domain.FieldError, len(fields))
		for i, f := range fields {
			out[i] = domain.FieldError{Field: f.Field, Message: f.Message}
		}
		return &domain.ValidationError{Message: "validation failed", Fields: out}
	}
	return nil
}

// merchantID returns the caller's merchant id from the token claims
func merchantID(c echo.Context) uint {
	claims, found := middleware.Claims(c)
	if !found {
		return 0
	}
	return claims.MerchantID
}

func actor(c echo.Context) service.Actor {
	claims, found := middleware.Claims(c)
	if !found {
		return service.Actor{}
	}
	return service.Actor{MerchantID: claims.MerchantID, Admin: claims.IsAdmin()}
}

// anonymous reports whether the request carries no credentials
func anonymous(c echo.Context) bool {
	return c.Request().Header.Get(echo.HeaderAuthorization) == ""
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, domain.Invalid(name, "must be a positive integer")
	}
	return uint(v), nil
}
