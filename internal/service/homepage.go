package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/cache"
	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const newArrivalsWindow = 30 * 24 * time.Hour

type homepageSection struct {
	key          string
	defaultLimit int
	fetch        func(ctx context.Context, catalog domain.HomepageCatalog, now time.Time, limit int) (interface{}, error)
}

var homepageSections = []homepageSection{
	{"featuredProducts", 10, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.FeaturedProducts(ctx, limit)
	}},
	{"newArrivals", 10, func(ctx context.Context, c domain.HomepageCatalog, now time.Time, limit int) (interface{}, error) {
		return c.NewArrivals(ctx, now.Add(-newArrivalsWindow), limit)
	}},
	{"featuredStores", 8, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.FeaturedStores(ctx, limit)
	}},
	{"trendingStores", 8, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.TrendingStores(ctx, limit)
	}},
	{"upcomingEvents", 6, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.UpcomingEvents(ctx, limit)
	}},
	{"megaOffers", 5, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.OffersByCategory(ctx, "mega", limit)
	}},
	{"studentOffers", 5, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.OffersByCategory(ctx, "student", limit)
	}},
	{"categories", 12, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.Categories(ctx, limit)
	}},
	{"trendingVideos", 6, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.TrendingVideos(ctx, limit)
	}},
	{"latestArticles", 4, func(ctx context.Context, c domain.HomepageCatalog, _ time.Time, limit int) (interface{}, error) {
		return c.LatestArticles(ctx, limit)
	}},
}

// HomepageSectionKeys lists every section in display order
func HomepageSectionKeys() []string {
	keys := make([]string, len(homepageSections))
	for i, s := range homepageSections {
		keys[i] = s.key
	}
	return keys
}

type HomepageQuery struct {
	Sections  string `query:"sections"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=50"`
	Anonymous bool   `query:"-"`
}

type HomepageMetadata struct {
	Timestamp          time.Time `json:"timestamp"`
	RequestedSections  []string  `json:"requestedSections"`
	SuccessfulSections int       `json:"successfulSections"`
	FailedSections     int       `json:"failedSections"`
}

type HomepageResponse struct {
	Data     map[string]interface{} `json:"data"`
	Errors   map[string]string      `json:"errors,omitempty"`
	Metadata HomepageMetadata       `json:"metadata"`
}

type HomepageService struct {
	catalog domain.HomepageCatalog
	cache   domain.PageCache
	ttl     time.Duration
	log     *zap.Logger
	now     Clock
}

func NewHomepageService(catalog domain.HomepageCatalog, pageCache domain.PageCache, ttl time.Duration, log *zap.Logger) *HomepageService {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &HomepageService{catalog: catalog, cache: pageCache, ttl: ttl, log: log, now: time.Now}
}

// selectSections resolves the comma list; an empty list selects every section
func selectSections(raw string) ([]homepageSection, error) {
	if strings.TrimSpace(raw) == "" {
		return homepageSections, nil
	}

	byKey := make(map[string]homepageSection, len(homepageSections))
	for _, s := range homepageSections {
		byKey[s.key] = s
	}

	seen := make(map[string]bool)
	selected := make([]homepageSection, 0)
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key == "" || seen[key] {
			continue
		}
		section, ok := byKey[key]
		if !ok {
			return nil, domain.Invalid("sections", fmt.Sprintf("unknown section '%s'", key))
		}
		seen[key] = true
		selected = append(selected, section)
	}
	if len(selected) == 0 {
		return homepageSections, nil
	}
	return selected, nil
}

// Build fetches the requested sections concurrently. A failing section is reported in Errors
// with an empty list instead of failing the page.
func (s *HomepageService) Build(ctx context.Context, q HomepageQuery) (*HomepageResponse, error) {
	sections, err := selectSections(q.Sections)
	if err != nil {
		return nil, err
	}

	cacheable := q.Anonymous && strings.TrimSpace(q.Sections) == "" && q.Limit == 0
	key := cache.HomepageKey("all", 0)
	if cacheable {
		var cached HomepageResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("Homepage cache read failed", zap.Error(err))
		}
		prometheus.RecordCacheLookup("homepage", hit)
		if hit {
			return &cached, nil
		}
	}

	start := s.now()
	results := make([]interface{}, len(sections))
	failures := make([]error, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, section := range sections {
		i, section := i, section
		limit := section.defaultLimit
		if q.Limit > 0 {
			limit = q.Limit
		}
		g.Go(func() error {
			data, err := section.fetch(gctx, s.catalog, start, limit)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = data
			return nil
		})
	}
	_ = g.Wait()

	resp := &HomepageResponse{
		Data: make(map[string]interface{}, len(sections)),
		Metadata: HomepageMetadata{
			Timestamp:         start,
			RequestedSections: make([]string, 0, len(sections)),
		},
	}
	for i, section := range sections {
		resp.Metadata.RequestedSections = append(resp.Metadata.RequestedSections, section.key)
		if failures[i] != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[section.key] = failures[i].Error()
			resp.Data[section.key] = []interface{}{}
			resp.Metadata.FailedSections++
			prometheus.RecordSectionError("homepage", section.key)
			s.log.Warn("Homepage section failed",
				zap.String("section", section.key),
				zap.Error(failures[i]))
			continue
		}
		resp.Data[section.key] = results[i]
		resp.Metadata.SuccessfulSections++
	}

	prometheus.ObservePageBuild("homepage", s.now().Sub(start))

	if cacheable && resp.Metadata.FailedSections == 0 {
		if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
			s.log.Warn("Homepage cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}
