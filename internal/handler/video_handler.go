package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VideoHandler serves merchant promotional videos
type VideoHandler struct {
	videos *service.VideoService
}

func NewVideoHandler(videos *service.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

type moderationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected flagged"`
}

// Create handles registering an uploaded video against an owned store
func (h *VideoHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.CreateVideoInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Creating video", zap.String("store_id", req.StoreID), zap.String("title", req.Title))

	video, err := h.videos.Create(c.Request().Context(), merchantID(c), req)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Video created successfully", zap.String("video_id", video.ID.Hex()))
	return okMessage(c, http.StatusCreated, "Video created successfully", video)
}

// ListByStore handles the video listing of one owned store
func (h *VideoHandler) ListByStore(c echo.Context) error {
	log := logger.FromEcho(c)
	var q service.VideoListQuery
	if err := bind(c, &q); err != nil {
		return fail(c, err)
	}
	log.Info("Listing store videos", zap.String("store_id", c.Param("storeId")))

	page, err := h.videos.ListByStore(c.Request().Context(), merchantID(c), c.Param("storeId"), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// Analytics handles the engagement summary of a store's videos
func (h *VideoHandler) Analytics(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Getting video analytics", zap.String("store_id", c.Param("storeId")))

	report, err := h.videos.Analytics(c.Request().Context(), merchantID(c), c.Param("storeId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, report)
}

// Get handles retrieving one owned video
func (h *VideoHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("videoId")
	log.Info("Getting video by ID", zap.String("video_id", id))

	video, err := h.videos.Get(c.Request().Context(), merchantID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, video)
}

// Update handles partial updates of an owned video
func (h *VideoHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("videoId")
	var req service.UpdateVideoInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Updating video", zap.String("video_id", id))

	video, err := h.videos.Update(c.Request().Context(), merchantID(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Video updated successfully", video)
}

// Delete handles removing an owned video and its hosted media
func (h *VideoHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("videoId")
	log.Info("Deleting video", zap.String("video_id", id))

	if err := h.videos.Delete(c.Request().Context(), merchantID(c), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Video deleted successfully", nil)
}

// Moderate moves a video through the moderation table; admin only
func (h *VideoHandler) Moderate(c echo.Context) error {
	log := logger.FromEcho(c)
	var req moderationRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Moderating video", zap.String("video_id", c.Param("id")), zap.String("status", req.Status))

	video, err := h.videos.Moderate(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Video moderation updated", video)
}
