package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HomepageHandler serves the aggregated homepage
type HomepageHandler struct {
	homepage *service.HomepageService
}

func NewHomepageHandler(homepage *service.HomepageService) *HomepageHandler {
	return &HomepageHandler{homepage: homepage}
}

// Get handles the aggregated homepage; failed sections are reported, not fatal
func (h *HomepageHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	var q service.HomepageQuery
	if err := bind(c, &q); err != nil {
		return fail(c, err)
	}
	q.Anonymous = anonymous(c)
	log.Info("Building homepage", zap.String("sections", q.Sections), zap.Bool("anonymous", q.Anonymous))

	resp, err := h.homepage.Build(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}

	body := echo.Map{"success": true, "data": resp.Data, "metadata": resp.Metadata}
	if len(resp.Errors) > 0 {
		body["errors"] = resp.Errors
	}
	return c.JSON(http.StatusOK, body)
}
