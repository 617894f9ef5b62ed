package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"avtorent/config"
	"avtorent/handlers"
	"avtorent/middleware"
)

// HandlerBundle aggregates the HTTP handlers wired in main.
type HandlerBundle struct {
	Catalog *handlers.CatalogHandler
	Booking *handlers.BookingHandler
}

// RegisterCatalogRoutes registers the public read-only endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/categories", hb.Catalog.GetCategories)
		api.GET("/cars", hb.Catalog.GetCars)
		api.GET("/cars/:id", hb.Catalog.GetCarByID)
	}
}

// RegisterBookingRoutes registers the reservation endpoint.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/bookings", hb.Booking.CreateBooking)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterStaticRoutes serves locally stored car photos.
func RegisterStaticRoutes(r *gin.Engine) {
	r.Static("/static/uploads/cars", config.AppConfig.UploadDir)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOriginList(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Total-Count"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterStaticRoutes(r)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
