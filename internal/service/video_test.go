package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type videoFixture struct {
	stores   *fakeStores
	videos   *fakeVideos
	products *fakeProducts
	media    *fakeMedia
	events   *fakePublisher
	store    *model.Store
	product  *model.Product
	service  *VideoService
}

var videoNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newVideoFixture() *videoFixture {
	f := &videoFixture{
		stores:   newFakeStores(),
		videos:   newFakeVideos(),
		products: newFakeProducts(),
		media:    &fakeMedia{},
		events:   &fakePublisher{},
	}
	f.store = f.stores.add(7, "Sole Street")
	f.product = f.products.add(model.Product{Name: "Runner", Store: f.store.ID})
	log := zap.NewNop()
	f.service = NewVideoService(NewStoreService(f.stores, log), f.videos, f.products, f.media, f.events, log)
	f.service.now = fixedClock(videoNow)
	return f
}

func (f *videoFixture) input(products ...string) CreateVideoInput {
	return CreateVideoInput{
		Title:        " Unboxing ",
		StoreID:      f.store.ID.Hex(),
		VideoURL:     "https://media.example.com/v.mp4",
		ThumbnailURL: "https://media.example.com/v.jpg",
		Products:     products,
		Duration:     45,
		PublicID:     "videos/" + f.store.ID.Hex() + "/abc.mp4",
	}
}

func TestVideoCreate(t *testing.T) {
	f := newVideoFixture()
	foreign := primitive.NewObjectID().Hex()

	video, err := f.service.Create(context.Background(), 7, f.input(f.product.ID.Hex(), foreign))
	require.NoError(t, err)

	assert.Equal(t, "Unboxing", video.Title)
	assert.Equal(t, []primitive.ObjectID{f.product.ID}, video.Products)
	assert.Equal(t, VideoCategoryDef, video.Category)
	assert.Equal(t, model.ModerationApproved, video.ModerationStatus)
	assert.True(t, video.IsPublished)
	assert.Equal(t, []string{domain.EventVideoPublished}, f.events.types())
}

func TestVideoCreateRejectsForeignProductsAndStores(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, 7, f.input(primitive.NewObjectID().Hex()))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.service.Create(ctx, 8, f.input(f.product.ID.Hex()))
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestVideoOwnership(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	video, err := f.service.Create(ctx, 7, f.input(f.product.ID.Hex()))
	require.NoError(t, err)

	_, err = f.service.Get(ctx, 8, video.ID.Hex())
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.service.Get(ctx, 7, primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.True(t, errors.Is(f.service.Delete(ctx, 8, video.ID.Hex()), domain.ErrForbidden))
}

func TestVideoUpdateAndDelete(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	video, err := f.service.Create(ctx, 7, f.input(f.product.ID.Hex()))
	require.NoError(t, err)

	title := "Review"
	category := "review"
	hidden := false
	updated, err := f.service.Update(ctx, 7, video.ID.Hex(), UpdateVideoInput{Title: &title, Category: &category, IsPublished: &hidden})
	require.NoError(t, err)
	assert.Equal(t, "Review", updated.Title)
	assert.Equal(t, "review", updated.Category)
	assert.False(t, updated.IsPublished)

	f.media.deleteErr = errBoom
	require.NoError(t, f.service.Delete(ctx, 7, video.ID.Hex()))
	assert.Equal(t, []string{"videos/" + f.store.ID.Hex() + "/abc.mp4"}, f.media.deleted)
	_, err = f.videos.GetByID(ctx, video.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVideoModeration(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	video, err := f.service.Create(ctx, 7, f.input(f.product.ID.Hex()))
	require.NoError(t, err)

	flagged, err := f.service.Moderate(ctx, video.ID.Hex(), model.ModerationFlagged)
	require.NoError(t, err)
	assert.False(t, flagged.IsPublished)

	rejected, err := f.service.Moderate(ctx, video.ID.Hex(), model.ModerationRejected)
	require.NoError(t, err)
	assert.False(t, rejected.IsPublished)

	_, err = f.service.Moderate(ctx, video.ID.Hex(), model.ModerationApproved)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = f.service.Moderate(ctx, video.ID.Hex(), model.ModerationPending)
	require.NoError(t, err)
	approved, err := f.service.Moderate(ctx, video.ID.Hex(), model.ModerationApproved)
	require.NoError(t, err)
	assert.True(t, approved.IsPublished)
}

func TestVideoPublicIDMustBelongToStore(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	rival := f.stores.add(99, "Rival Shoes")

	cases := []struct {
		name     string
		publicID string
	}{
		{"other store gallery", "gallery/" + rival.ID.Hex() + "/cover.jpg"},
		{"other store video", "videos/" + rival.ID.Hex() + "/clip.mp4"},
		{"bare folder", "videos/" + f.store.ID.Hex()},
		{"path escape", "videos/" + f.store.ID.Hex() + "/../" + rival.ID.Hex() + "/clip.mp4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.input(f.product.ID.Hex())
			in.PublicID = tc.publicID
			_, err := f.service.Create(ctx, 7, in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}

	// documents written before the check are removed without touching foreign media
	video, err := f.service.Create(ctx, 7, f.input(f.product.ID.Hex()))
	require.NoError(t, err)
	stored, err := f.videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	stored.PublicID = "gallery/" + rival.ID.Hex() + "/cover.jpg"
	require.NoError(t, f.videos.Save(ctx, stored))

	require.NoError(t, f.service.Delete(ctx, 7, video.ID.Hex()))
	assert.Empty(t, f.media.deleted)
	assert.Empty(t, f.videos.items)
}

func TestVideoUpdateCannotRepublishModeratedVideo(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	video, err := f.service.Create(ctx, 7, f.input(f.product.ID.Hex()))
	require.NoError(t, err)
	_, err = f.service.Moderate(ctx, video.ID.Hex(), model.ModerationRejected)
	require.NoError(t, err)

	publish := true
	title := "Back again"
	_, err = f.service.Update(ctx, 7, video.ID.Hex(), UpdateVideoInput{Title: &title, IsPublished: &publish})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	stored, err := f.videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPublished)
	assert.Equal(t, model.ModerationRejected, stored.ModerationStatus)

	hidden := false
	updated, err := f.service.Update(ctx, 7, video.ID.Hex(), UpdateVideoInput{IsPublished: &hidden})
	require.NoError(t, err)
	assert.False(t, updated.IsPublished)
}

func TestBuildVideoAnalytics(t *testing.T) {
	videos := []model.Video{
		{Title: "a", Engagement: model.VideoEngagement{Views: 10, Likes: 1, Shares: 2},
			Analytics: model.VideoAnalytics{EngagementRate: 4, ViewsByDate: map[string]int{"2026-03-10": 3, "2026-03-04": 2, "2026-03-03": 50}}},
		{Title: "b", Engagement: model.VideoEngagement{Views: 30, Likes: 5},
			Analytics: model.VideoAnalytics{EngagementRate: 8, ViewsByDate: map[string]int{"2026-03-10": 4}}},
	}

	report := BuildVideoAnalytics(videos, videoNow)

	assert.Equal(t, 2, report.TotalVideos)
	assert.Equal(t, 40, report.TotalViews)
	assert.Equal(t, 6, report.TotalLikes)
	assert.Equal(t, 2, report.TotalShares)
	assert.Equal(t, 6.0, report.AvgEngagementRate)
	require.Len(t, report.BestPerforming, 2)
	assert.Equal(t, "b", report.BestPerforming[0].Title)

	require.Len(t, report.Last7Days, 7)
	assert.Equal(t, DailyViews{Date: "2026-03-04", Views: 2}, report.Last7Days[0])
	assert.Equal(t, DailyViews{Date: "2026-03-10", Views: 7}, report.Last7Days[6])

	empty := BuildVideoAnalytics(nil, videoNow)
	assert.Zero(t, empty.AvgEngagementRate)
	assert.Empty(t, empty.BestPerforming)
	assert.Len(t, empty.Last7Days, 7)
}
