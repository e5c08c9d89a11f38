package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler serves merchant, store, offer and audit administration
type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) listQuery(c echo.Context) (service.AdminListQuery, error) {
	var q service.AdminListQuery
	err := bind(c, &q)
	return q, err
}

// ListMerchants handles the merchant directory with status filtering
func (h *AdminHandler) ListMerchants(c echo.Context) error {
	log := logger.FromEcho(c)
	q, err := h.listQuery(c)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Listing merchants", zap.String("status", q.Status), zap.Int("page", q.Page))

	page, err := h.admin.ListMerchants(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// ReviewMerchant applies approve, reject, suspend or reactivate from the path
func (h *AdminHandler) ReviewMerchant(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req service.MerchantReviewInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	action := c.Param("action")
	merchant, err := h.admin.ReviewMerchant(c.Request().Context(), merchantID(c), id, action, req, c.RealIP())
	if err != nil {
		return fail(c, err)
	}
	logger.FromEcho(c).Info("Merchant reviewed", zap.Uint("target_merchant_id", id), zap.String("action", action))
	return okMessage(c, http.StatusOK, "Merchant updated successfully", merchant)
}

// ListStores handles every store across merchants
func (h *AdminHandler) ListStores(c echo.Context) error {
	q, err := h.listQuery(c)
	if err != nil {
		return fail(c, err)
	}
	page, err := h.admin.ListStores(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// ApproveStore handles store approval
func (h *AdminHandler) ApproveStore(c echo.Context) error {
	approved := true
	return h.moderateStore(c, &approved, nil)
}

func (h *AdminHandler) RejectStore(c echo.Context) error {
	approved := false
	return h.moderateStore(c, &approved, nil)
}

func (h *AdminHandler) SuspendStore(c echo.Context) error {
	suspended := true
	return h.moderateStore(c, nil, &suspended)
}

func (h *AdminHandler) UnsuspendStore(c echo.Context) error {
	suspended := false
	return h.moderateStore(c, nil, &suspended)
}

func (h *AdminHandler) moderateStore(c echo.Context, approved, suspended *bool) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	store, err := h.admin.ModerateStore(c.Request().Context(), merchantID(c), id, approved, suspended, c.RealIP())
	if err != nil {
		return fail(c, err)
	}
	fields := []zap.Field{zap.String("store_id", id)}
	if approved != nil {
		fields = append(fields, zap.Bool("approved", *approved))
	}
	if suspended != nil {
		fields = append(fields, zap.Bool("suspended", *suspended))
	}
	log.Info("Store moderated", fields...)
	return okMessage(c, http.StatusOK, "Store updated successfully", store)
}

func (h *AdminHandler) ListOffers(c echo.Context) error {
	q, err := h.listQuery(c)
	if err != nil {
		return fail(c, err)
	}
	page, err := h.admin.ListOffers(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// CreateOffer handles publishing a new offer
func (h *AdminHandler) CreateOffer(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.OfferInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Creating offer", zap.String("title", req.Title))

	offer, err := h.admin.CreateOffer(c.Request().Context(), merchantID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusCreated, "Offer created successfully", offer)
}

// UpdateOffer handles replacing an offer's editable fields
func (h *AdminHandler) UpdateOffer(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.OfferInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Updating offer", zap.String("offer_id", c.Param("id")))

	offer, err := h.admin.UpdateOffer(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Offer updated successfully", offer)
}

// DeleteOffer handles removing an offer
func (h *AdminHandler) DeleteOffer(c echo.Context) error {
	logger.FromEcho(c).Info("Deleting offer", zap.String("offer_id", c.Param("id")))

	if err := h.admin.DeleteOffer(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Offer deleted successfully", nil)
}

// ToggleOffer handles flipping an offer's active flag
func (h *AdminHandler) ToggleOffer(c echo.Context) error {
	offer, err := h.admin.ToggleOffer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, offer)
}

func (h *AdminHandler) ApproveOffer(c echo.Context) error {
	return h.reviewOffer(c, true)
}

func (h *AdminHandler) RejectOffer(c echo.Context) error {
	return h.reviewOffer(c, false)
}

func (h *AdminHandler) reviewOffer(c echo.Context, approved bool) error {
	offer, err := h.admin.ReviewOffer(c.Request().Context(), merchantID(c), c.Param("id"), approved, c.RealIP())
	if err != nil {
		return fail(c, err)
	}
	logger.FromEcho(c).Info("Offer reviewed", zap.String("offer_id", c.Param("id")), zap.Bool("approved", approved))
	return okMessage(c, http.StatusOK, "Offer reviewed successfully", offer)
}

// ListAudit handles the admin audit trail, newest first
func (h *AdminHandler) ListAudit(c echo.Context) error {
	log := logger.FromEcho(c)
	q, err := h.listQuery(c)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Listing audit entries", zap.String("action", q.Action), zap.Uint("merchant_id", q.Merchant))

	page, err := h.admin.ListAudit(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}
