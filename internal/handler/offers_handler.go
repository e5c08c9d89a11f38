package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OffersSectionRoutes maps each individual offers endpoint to its page section
var OffersSectionRoutes = map[string]string{
	"/hotspots":           "hotspots",
	"/bogo":               "bogoOffers",
	"/sale":               "saleOffers",
	"/free-delivery":      "freeDeliveryOffers",
	"/bank-offers":        "bankOffers",
	"/exclusive-zones":    "exclusiveZones",
	"/special-profiles":   "specialProfiles",
	"/friends-redeemed":   "friendsRedeemed",
	"/double-cashback":    "doubleCashback",
	"/coin-drops":         "coinDrops",
	"/upload-bill-stores": "uploadBillStores",
	"/loyalty-milestones": "loyaltyMilestones",
}

// OffersHandler serves the offers and cashback page
type OffersHandler struct {
	offers *service.OffersPageService
}

func NewOffersHandler(offers *service.OffersPageService) *OffersHandler {
	return &OffersHandler{offers: offers}
}

func (h *OffersHandler) query(c echo.Context) (service.OffersQuery, error) {
	var q service.OffersQuery
	if err := bind(c, &q); err != nil {
		return q, err
	}
	q.Anonymous = anonymous(c)
	return q, nil
}

// Page handles the full offers page; a failed section is served empty
func (h *OffersHandler) Page(c echo.Context) error {
	log := logger.FromEcho(c)
	q, err := h.query(c)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Building offers page", zap.String("tab", q.Tab), zap.String("region", q.Region))

	page, err := h.offers.Page(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// Section returns a handler serving one page section on its own
func (h *OffersHandler) Section(key string) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := h.query(c)
		if err != nil {
			return fail(c, err)
		}
		data, err := h.offers.Section(c.Request().Context(), key, q)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusOK, data)
	}
}

// SectionConfigs lists every section's configuration; admin only
func (h *OffersHandler) SectionConfigs(c echo.Context) error {
	configs, err := h.offers.SectionConfigs(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, configs)
}

// UpdateSectionConfig handles section visibility, order and limits; admin only
func (h *OffersHandler) UpdateSectionConfig(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.SectionConfigInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	config, err := h.offers.UpdateSectionConfig(c.Request().Context(), c.Param("key"), req)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Offers section updated", zap.String("section", c.Param("key")))
	return okMessage(c, http.StatusOK, "Section updated successfully", config)
}
