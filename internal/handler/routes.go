package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/helpora/helpora-api/internal/middleware"
	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth     *AuthHandler
	Provider *ProviderHandler
	Listing  *ListingHandler
	Booking  *BookingHandler
	Review   *ReviewHandler
	Admin    *AdminHandler
	Metrics  *MetricsHandler
}

// RegisterRoutes attaches all API routes under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authSvc *service.AuthService) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	authn := middleware.JWT(authSvc)
	providerOnly := middleware.RequireRoles(models.RoleProvider)
	customerOnly := middleware.RequireRoles(models.RoleCustomer)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", authn, h.Auth.Logout)
		auth.POST("/change-password", authn, h.Auth.ChangePassword)
	}

	profile := api.Group("/profile")
	{
		profile.GET("/categories", h.Provider.Categories)
		profile.POST("/setup", authn, providerOnly, h.Provider.SaveProfile)
		profile.GET("/me", authn, providerOnly, h.Provider.Profile)
	}

	listings := api.Group("/listings")
	{
		listings.GET("", middleware.OptionalJWT(authSvc), h.Listing.Search)
		listings.GET("/my-listings", authn, providerOnly, h.Listing.Mine)
		listings.POST("/create", authn, providerOnly, h.Listing.Create)
		listings.GET("/:id", h.Listing.Get)
		listings.PUT("/:id", authn, providerOnly, h.Listing.Update)
		listings.DELETE("/:id", authn, providerOnly, h.Listing.Delete)
	}

	bookings := api.Group("/bookings")
	{
		bookings.GET("/slots/:providerId", h.Booking.Slots)
		bookings.POST("/availability", authn, providerOnly, h.Booking.SetAvailability)
		bookings.GET("/availability", authn, providerOnly, h.Booking.Availability)
		bookings.POST("/create", authn, customerOnly, h.Booking.Create)
		bookings.GET("/my-bookings", authn, middleware.RequireRoles(models.RoleCustomer, models.RoleProvider), h.Booking.Mine)
		bookings.GET("/export", authn, providerOnly, h.Booking.Export)
		bookings.PUT("/:bookingId/status", authn, providerOnly, h.Booking.UpdateStatus)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", authn, customerOnly, h.Review.Create)
		reviews.GET("/listing/:listingId", h.Review.ForListing)
	}

	admin := api.Group("/admin", authn, middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/analytics", h.Admin.Analytics)
		admin.GET("/users", h.Admin.Users)
		admin.PUT("/users/:userId/status", h.Admin.SetUserStatus)
		admin.GET("/providers", h.Admin.Providers)
		admin.PUT("/providers/:providerId/status", h.Admin.SetProviderStatus)
		admin.GET("/metrics", h.Admin.SystemMetrics)
	}
}
