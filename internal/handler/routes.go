package handler

import (
	"github.com/Mukulraj109/rez-backend-sub002/internal/middleware"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/jwtutil"
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Auth           *AuthHandler
	Stores         *StoreHandler
	Products       *ProductHandler
	Gallery        *GalleryHandler
	ProductGallery *GalleryHandler
	Videos         *VideoHandler
	Bulk           *BulkHandler
	Orders         *OrderHandler
	Homepage       *HomepageHandler
	Offers         *OffersHandler
	CoinDrops      *CoinDropHandler
	Admin          *AdminHandler
}

// Register mounts every route on e. auth validates bearer tokens.
func Register(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	e.GET("/health", HealthCheck)

	api := e.Group("/api")

	// Public routes
	api.GET("/homepage", h.Homepage.Get)

	publicGallery := api.Group("/stores/:storeId/gallery")
	publicGallery.GET("", h.Gallery.PublicList)
	publicGallery.GET("/categories", h.Gallery.PublicCategories)
	publicGallery.GET("/:itemId", h.Gallery.PublicGet)

	offers := api.Group("/offers")
	offers.GET("/page", h.Offers.Page)
	for path, key := range OffersSectionRoutes {
		offers.GET(path, h.Offers.Section(key))
	}

	authRoutes := api.Group("/merchant/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.GET("/me", h.Auth.Me, auth)

	// Merchant routes
	merchant := api.Group("/merchant", auth)

	stores := merchant.Group("/stores")
	stores.GET("", h.Stores.List)
	stores.POST("", h.Stores.Create)
	stores.GET("/:storeId", h.Stores.Get)
	stores.PUT("/:storeId", h.Stores.Update)
	stores.DELETE("/:storeId", h.Stores.Delete)
	stores.PUT("/:storeId/activate", h.Stores.Activate)
	stores.PUT("/:storeId/deactivate", h.Stores.Deactivate)

	gallery := stores.Group("/:storeId/gallery")
	gallery.POST("", h.Gallery.Upload)
	gallery.POST("/bulk", h.Gallery.BulkUpload)
	gallery.GET("", h.Gallery.List)
	gallery.GET("/categories", h.Gallery.Categories)
	gallery.PUT("/reorder", h.Gallery.Reorder)
	gallery.DELETE("/bulk", h.Gallery.BulkDelete)
	gallery.GET("/:itemId", h.Gallery.Get)
	gallery.PUT("/:itemId", h.Gallery.Update)
	gallery.PUT("/:itemId/set-cover", h.Gallery.SetCover)
	gallery.DELETE("/:itemId", h.Gallery.Delete)

	coinDrops := stores.Group("/:storeId/coin-drops")
	coinDrops.GET("", h.CoinDrops.List)
	coinDrops.POST("", h.CoinDrops.Create)
	coinDrops.GET("/stats", h.CoinDrops.Stats)
	coinDrops.PUT("/:dropId", h.CoinDrops.Update)
	coinDrops.DELETE("/:dropId", h.CoinDrops.Delete)

	products := merchant.Group("/products")
	products.GET("", h.Products.List)
	products.POST("", h.Products.Create)
	products.GET("/:productId", h.Products.Get)
	products.PUT("/:productId", h.Products.Update)
	products.DELETE("/:productId", h.Products.Delete)

	productGallery := products.Group("/:productId/gallery")
	productGallery.POST("", h.ProductGallery.Upload)
	productGallery.POST("/bulk", h.ProductGallery.BulkUpload)
	productGallery.GET("", h.ProductGallery.List)
	productGallery.GET("/categories", h.ProductGallery.Categories)
	productGallery.PUT("/reorder", h.ProductGallery.Reorder)
	productGallery.DELETE("/bulk", h.ProductGallery.BulkDelete)
	productGallery.GET("/:itemId", h.ProductGallery.Get)
	productGallery.PUT("/:itemId", h.ProductGallery.Update)
	productGallery.PUT("/:itemId/set-cover", h.ProductGallery.SetCover)
	productGallery.DELETE("/:itemId", h.ProductGallery.Delete)

	videos := merchant.Group("/videos")
	videos.POST("", h.Videos.Create)
	videos.GET("/store/:storeId", h.Videos.ListByStore)
	videos.GET("/analytics/:storeId", h.Videos.Analytics)
	videos.GET("/:videoId", h.Videos.Get)
	videos.PUT("/:videoId", h.Videos.Update)
	videos.DELETE("/:videoId", h.Videos.Delete)

	bulk := merchant.Group("/bulk/products")
	bulk.GET("/template", h.Bulk.Template)
	bulk.POST("/validate", h.Bulk.Validate)
	bulk.POST("/import", h.Bulk.Import)
	bulk.GET("/export", h.Bulk.Export)

	orders := merchant.Group("/orders")
	orders.GET("", h.Orders.List)
	orders.GET("/analytics", h.Orders.Analytics)
	orders.GET("/:id", h.Orders.Get)
	orders.PUT("/:id/status", h.Orders.UpdateStatus)

	// Admin routes
	admin := api.Group("/admin", auth, middleware.RequireRole(jwtutil.RoleAdmin))
	admin.GET("/merchants", h.Admin.ListMerchants)
	admin.PUT("/merchants/:id/:action", h.Admin.ReviewMerchant)

	admin.GET("/stores", h.Admin.ListStores)
	admin.PUT("/stores/:id/approve", h.Admin.ApproveStore)
	admin.PUT("/stores/:id/reject", h.Admin.RejectStore)
	admin.PUT("/stores/:id/suspend", h.Admin.SuspendStore)
	admin.PUT("/stores/:id/unsuspend", h.Admin.UnsuspendStore)

	admin.GET("/orders", h.Orders.List)
	admin.GET("/orders/:id", h.Orders.Get)
	admin.PUT("/orders/:id/status", h.Orders.UpdateStatus)

	admin.GET("/offers", h.Admin.ListOffers)
	admin.POST("/offers", h.Admin.CreateOffer)
	admin.PUT("/offers/:id", h.Admin.UpdateOffer)
	admin.DELETE("/offers/:id", h.Admin.DeleteOffer)
	admin.PATCH("/offers/:id/toggle", h.Admin.ToggleOffer)
	admin.PUT("/offers/:id/approve", h.Admin.ApproveOffer)
	admin.PUT("/offers/:id/reject", h.Admin.RejectOffer)

	admin.PUT("/videos/:id/moderation", h.Videos.Moderate)

	admin.GET("/offers-sections", h.Offers.SectionConfigs)
	admin.PUT("/offers-sections/:key", h.Offers.UpdateSectionConfig)

	admin.GET("/audit", h.Admin.ListAudit)
}
