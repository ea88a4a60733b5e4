package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/inovasi-informatika/spp-admin/internal/config"
	"github.com/inovasi-informatika/spp-admin/internal/handler"
	"github.com/inovasi-informatika/spp-admin/internal/middleware"
	"github.com/inovasi-informatika/spp-admin/internal/response"
	"github.com/inovasi-informatika/spp-admin/internal/view"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Page    *handler.PageHandler
	Student *handler.StudentHandler
	Payment *handler.PaymentHandler
	System  *handler.SystemHandler
}

// SetupRouter configures the HTML pages and the JSON API. The limiter guards
// every route that writes to the records API.
func SetupRouter(
	handlers *Handlers,
	pages render.HTMLRender,
	limiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.HTMLRender = pages

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Stylesheet, cached for a day.
	static := router.Group("/static")
	static.Use(middleware.CacheControl(86400))
	{
		static.StaticFS("/", view.Static())
	}

	// Health check.
	router.GET("/health", handlers.System.Health)

	writeLimit := limiter.Middleware()

	// ─── 1. HTML Pages ─────────────────────────────────────────────────
	pagesGroup := router.Group("/")
	pagesGroup.Use(middleware.NoStore())
	{
		pagesGroup.GET("/", handlers.Page.SPPList)
		pagesGroup.GET("/list-spp", handlers.Page.SPPList)
		pagesGroup.GET("/add-spp", handlers.Page.SPPForm)
		pagesGroup.POST("/add-spp", writeLimit, handlers.Page.SPPCreate)

		pagesGroup.GET("/list-mahasiswa", handlers.Page.StudentList)
		pagesGroup.GET("/add-mahasiswa", handlers.Page.StudentForm)
		pagesGroup.POST("/add-mahasiswa", writeLimit, handlers.Page.StudentCreate)
		pagesGroup.POST("/mahasiswa/:nim/deactivate", writeLimit, handlers.Page.StudentDeactivate)
	}

	// ─── 2. JSON API ───────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/mahasiswa", handlers.Student.ListStudents)
		api.GET("/mahasiswa/:nim", handlers.Student.GetStudent)
		api.POST("/mahasiswa", writeLimit, handlers.Student.CreateStudent)
		api.PATCH("/mahasiswa/:nim/deactivate", writeLimit, handlers.Student.DeactivateStudent)

		api.GET("/spp", handlers.Payment.ListPayments)
		api.GET("/spp/quote", handlers.Payment.QuotePayment)
		api.GET("/spp/:id", handlers.Payment.GetPayment)
		api.POST("/spp", writeLimit, handlers.Payment.CreatePayment)
	}

	return router
}
