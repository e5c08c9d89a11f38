package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/media"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultVideoLimit = 20
	maxVideoLimit     = 50
	VideoCategoryDef  = "featured"
	videoFolder       = "videos"
)

type CreateVideoInput struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	StoreID      string   `json:"storeId" validate:"required,objectid"`
	VideoURL     string   `json:"videoUrl" validate:"required,url"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"required,url"`
	Products     []string `json:"products" validate:"required,min=1,dive,objectid"`
	Tags         []string `json:"tags" validate:"omitempty,dive,max=50"`
	Category     string   `json:"category" validate:"omitempty,oneof=featured tutorial review"`
	Duration     int      `json:"duration" validate:"required,min=1,max=180"`
	PublicID     string   `json:"publicId"`
}

type UpdateVideoInput struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	Tags         []string `json:"tags" validate:"omitempty,dive,max=50"`
	Category     *string  `json:"category" validate:"omitempty,oneof=featured tutorial review"`
	Products     []string `json:"products" validate:"omitempty,min=1,dive,objectid"`
	IsPublished  *bool    `json:"isPublished"`
	ThumbnailURL *string  `json:"thumbnailUrl" validate:"omitempty,url"`
}

type VideoListQuery struct {
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=50"`
	SortBy string `query:"sortBy" validate:"omitempty,oneof=newest popular views"`
}

type VideoPage struct {
	Videos     []model.Video `json:"videos"`
	Pagination Pagination    `json:"pagination"`
}

type VideoSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Thumbnail string             `json:"thumbnail"`
	Views     int                `json:"views"`
	Likes     int                `json:"likes"`
}

type DailyViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

type VideoAnalyticsReport struct {
	TotalVideos       int            `json:"totalVideos"`
	TotalViews        int            `json:"totalViews"`
	TotalLikes        int            `json:"totalLikes"`
	TotalShares       int            `json:"totalShares"`
	AvgEngagementRate float64        `json:"avgEngagementRate"`
	BestPerforming    []VideoSummary `json:"bestPerforming"`
	Last7Days         []DailyViews   `json:"last7Days"`
}

type VideoService struct {
	stores   *StoreService
	videos   domain.VideoRepository
	products domain.ProductRepository
	media    domain.MediaStore
	events   domain.PublisherPort
	log      *zap.Logger
	now      Clock
}

func NewVideoService(stores *StoreService, videos domain.VideoRepository, products domain.ProductRepository,
	mediaStore domain.MediaStore, events domain.PublisherPort, log *zap.Logger) *VideoService {
	return &VideoService{
		stores:   stores,
		videos:   videos,
		products: products,
		media:    mediaStore,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// ownsPublicID reports whether a hosted object key sits under the store's video folder
func ownsPublicID(storeID primitive.ObjectID, publicID string) bool {
	prefix := media.OwnerPrefix(videoFolder, storeID.Hex())
	return strings.HasPrefix(publicID, prefix) && !strings.Contains(publicID[len(prefix):], "..")
}

// ownedProducts keeps the ids that parse and belong to the store
func (s *VideoService) ownedProducts(ctx context.Context, storeID primitive.ObjectID, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID("products", r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	owned, err := s.products.FilterOwned(ctx, storeID, ids)
	if err != nil {
		return nil, wrap("filter products", err)
	}
	if len(owned) == 0 {
		return nil, domain.Invalid("products", "none of the products belong to this store")
	}
	return owned, nil
}

func (s *VideoService) Create(ctx context.Context, merchantID uint, in CreateVideoInput) (*model.Video, error) {
	store, err := s.stores.OwnedHex(ctx, in.StoreID, merchantID)
	if err != nil {
		return nil, err
	}

	if in.PublicID != "" && !ownsPublicID(store.ID, in.PublicID) {
		return nil, domain.Invalid("publicId", "must reference a video uploaded for this store")
	}

	products, err := s.ownedProducts(ctx, store.ID, in.Products)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = VideoCategoryDef
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now()
	video := &model.Video{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Creator:     merchantID,
		ContentType: model.VideoContentMerchant,
		VideoURL:    in.VideoURL,
		Thumbnail:   in.ThumbnailURL,
		PublicID:    in.PublicID,
		Category:    category,
		Tags:        tags,
		Products:    products,
		Stores:      []primitive.ObjectID{store.ID},
		Analytics: model.VideoAnalytics{
			ViewsByDate: map[string]int{},
		},
		Metadata:         model.VideoMetadata{Duration: in.Duration},
		Processing:       model.VideoProcessing{Status: model.ProcessingCompleted},
		ModerationStatus: model.ModerationApproved,
		IsPublished:      true,
		PublishedAt:      &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, wrap("create video", err)
	}

	prometheus.RecordVideoOperation("create")
	publish(ctx, s.log, s.events, domain.Event{
		Type:       domain.EventVideoPublished,
		Key:        video.ID.Hex(),
		MerchantID: merchantID,
		Payload:    map[string]interface{}{"storeId": store.ID.Hex(), "products": len(products)},
	})
	s.log.Info("Video created successfully",
		zap.String("video_id", video.ID.Hex()),
		zap.String("store_id", store.ID.Hex()),
		zap.Int("products", len(products)))
	return video, nil
}

func (s *VideoService) ListByStore(ctx context.Context, merchantID uint, storeID string, q VideoListQuery) (*VideoPage, error) {
	store, err := s.stores.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}

	window := NewPagination(q.Page, q.Limit, defaultVideoLimit, maxVideoLimit, 0)
	videos, total, err := s.videos.ListByStore(ctx, domain.VideoQuery{
		StoreID: store.ID,
		SortBy:  q.SortBy,
		Page:    window.Window(),
	})
	if err != nil {
		return nil, wrap("list videos", err)
	}

	return &VideoPage{
		Videos:     videos,
		Pagination: NewPagination(window.Page, window.Limit, defaultVideoLimit, maxVideoLimit, total),
	}, nil
}

func (s *VideoService) Analytics(ctx context.Context, merchantID uint, storeID string) (*VideoAnalyticsReport, error) {
	store, err := s.stores.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}

	videos, err := s.videos.AllByStore(ctx, store.ID)
	if err != nil {
		return nil, wrap("load videos", err)
	}
	return BuildVideoAnalytics(videos, s.now()), nil
}

// BuildVideoAnalytics aggregates engagement totals and the trailing seven days of views
func BuildVideoAnalytics(videos []model.Video, now time.Time) *VideoAnalyticsReport {
	report := &VideoAnalyticsReport{
		TotalVideos:    len(videos),
		BestPerforming: make([]VideoSummary, 0, 5),
		Last7Days:      make([]DailyViews, 0, 7),
	}

	engagement := 0.0
	for _, v := range videos {
		report.TotalViews += v.Engagement.Views
		report.TotalLikes += v.Engagement.Likes
		report.TotalShares += v.Engagement.Shares
		engagement += v.Analytics.EngagementRate
	}
	if len(videos) > 0 {
		report.AvgEngagementRate = engagement / float64(len(videos))
	}

	ranked := make([]model.Video, len(videos))
	copy(ranked, videos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement.Views > ranked[j].Engagement.Views
	})
	for i := 0; i < len(ranked) && i < 5; i++ {
		v := ranked[i]
		report.BestPerforming = append(report.BestPerforming, VideoSummary{
			ID:        v.ID,
			Title:     v.Title,
			Thumbnail: v.Thumbnail,
			Views:     v.Engagement.Views,
			Likes:     v.Engagement.Likes,
		})
	}

	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		views := 0
		for _, v := range videos {
			views += v.Analytics.ViewsByDate[date]
		}
		report.Last7Days = append(report.Last7Days, DailyViews{Date: date, Views: views})
	}
	return report
}

// owned loads a video and checks its primary store belongs to merchantID
func (s *VideoService) owned(ctx context.Context, merchantID uint, videoID string) (*model.Video, *model.Store, error) {
	id, err := parseID("videoId", videoID)
	if err != nil {
		return nil, nil, err
	}
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	storeID, ok := video.PrimaryStore()
	if !ok {
		return nil, nil, domain.ErrForbidden
	}
	store, err := s.stores.Owned(ctx, storeID, merchantID)
	if err != nil {
		// the video exists; a missing store still means no access
		if errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrForbidden
		}
		return nil, nil, err
	}
	return video, store, nil
}

func (s *VideoService) Get(ctx context.Context, merchantID uint, videoID string) (*model.Video, error) {
	video, _, err := s.owned(ctx, merchantID, videoID)
	return video, err
}

func (s *VideoService) Update(ctx context.Context, merchantID uint, videoID string, in UpdateVideoInput) (*model.Video, error) {
	video, store, err := s.owned(ctx, merchantID, videoID)
	if err != nil {
		return nil, err
	}
	if in.IsPublished != nil && *in.IsPublished && video.ModerationStatus != model.ModerationApproved {
		return nil, domain.Invalid("isPublished", "only approved videos can be published")
	}

	if in.Title != nil {
		video.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		video.Description = *in.Description
	}
	if in.Tags != nil {
		video.Tags = in.Tags
	}
	if in.Category != nil {
		video.Category = *in.Category
	}
	if in.Products != nil {
		products, err := s.ownedProducts(ctx, store.ID, in.Products)
		if err != nil {
			return nil, err
		}
		video.Products = products
	}
	if in.IsPublished != nil {
		video.IsPublished = *in.IsPublished
		if video.IsPublished && video.PublishedAt == nil {
			now := s.now()
			video.PublishedAt = &now
		}
	}
	if in.ThumbnailURL != nil {
		video.Thumbnail = *in.ThumbnailURL
	}
	video.UpdatedAt = s.now()

	if err := s.videos.Save(ctx, video); err != nil {
		return nil, wrap("update video", err)
	}
	prometheus.RecordVideoOperation("update")
	return video, nil
}

// Delete removes hosted media best-effort, then the document itself
func (s *VideoService) Delete(ctx context.Context, merchantID uint, videoID string) error {
	video, store, err := s.owned(ctx, merchantID, videoID)
	if err != nil {
		return err
	}

	switch {
	case video.PublicID == "":
	case !ownsPublicID(store.ID, video.PublicID):
		s.log.Warn("Skipping hosted media outside the store folder",
			zap.String("video_id", video.ID.Hex()),
			zap.String("public_id", video.PublicID))
	default:
		if err := s.media.Delete(ctx, video.PublicID); err != nil {
			prometheus.RecordMediaCleanupError()
			s.log.Warn("Failed to delete hosted video", zap.String("public_id", video.PublicID), zap.Error(err))
		}
	}
	if err := s.videos.Delete(ctx, video.ID); err != nil {
		return wrap("delete video", err)
	}

	prometheus.RecordVideoOperation("delete")
	publish(ctx, s.log, s.events, domain.Event{
		Type:       domain.EventVideoDeleted,
		Key:        video.ID.Hex(),
		MerchantID: merchantID,
	})
	return nil
}

// Moderate moves a video through the moderation lifecycle; rejected and flagged videos are unpublished
func (s *VideoService) Moderate(ctx context.Context, videoID, status string) (*model.Video, error) {
	id, err := parseID("videoId", videoID)
	if err != nil {
		return nil, err
	}
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := video.ModerationStatus
	if from == "" {
		from = model.ModerationPending
	}
	if err := domain.ModerationTransitions.Check(from, status); err != nil {
		return nil, err
	}

	video.ModerationStatus = status
	switch status {
	case model.ModerationRejected, model.ModerationFlagged:
		video.IsPublished = false
	case model.ModerationApproved:
		video.IsPublished = true
		if video.PublishedAt == nil {
			now := s.now()
			video.PublishedAt = &now
		}
	}
	video.UpdatedAt = s.now()

	if err := s.videos.Save(ctx, video); err != nil {
		return nil, wrap("moderate video", err)
	}

	prometheus.RecordVideoOperation(fmt.Sprintf("moderate_%s", status))
	s.log.Info("Video moderation changed",
		zap.String("video_id", video.ID.Hex()),
		zap.String("from", from),
		zap.String("to", status))
	return video, nil
}
