package handler

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taprate/backend/internal/config"
	"github.com/taprate/backend/internal/database"
)

// NewRouter wires up the HTTP surface: the drawing trigger at the root,
// coupon administration under /api/v1, plus health and metrics
// endpoints.
func NewRouter(cfg *config.Config, db *database.DB, drawingHandler *DrawingHandler, couponHandler *CouponHandler) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// The drawing endpoint and the coupon reads are called cross-origin
	// from the admin dashboard, so CORS stays permissive. Preflights
	// answer 204.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Anything other than POST/OPTIONS on a known route is a 405.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// Drawing trigger. The explicit OPTIONS route answers non-preflight
	// probes; real preflights are short-circuited by the CORS middleware.
	router.POST("/", drawingHandler.RunDrawings)
	router.OPTIONS("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		hostname, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"service":  "taprate-backend",
			"hostname": hostname,
		})
	})
	router.GET("/health/db", func(c *gin.Context) {
		if err := db.Postgres.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "postgres unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "postgres": "connected"})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Coupon administration
	v1 := router.Group("/api/v1")
	{
		companies := v1.Group("/companies")
		{
			companies.GET("/:id/coupons", couponHandler.GetCompanyCoupons)
			companies.POST("/:id/coupons", couponHandler.GenerateCoupons)
			companies.POST("/:id/coupons/issue", couponHandler.IssueCoupon)
		}
	}

	return router
}
