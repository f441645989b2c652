package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"sharetools/internal/infra/config"
	"sharetools/internal/infra/obs"
)

type Handlers struct {
	Items        ItemHandler
	Rentals      RentalHandler
	Availability AvailabilityHandler
	Cart         CartHandler
	Reviews      ReviewHandler
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-User-ID", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	router.Use(IdentityMiddleware())

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")

	api.GET("/items", h.Items.Catalog)
	api.GET("/items/:id", h.Items.Get)
	api.GET("/items/:id/availability", h.Availability.ForItem)
	api.GET("/items/:id/reviews", h.Reviews.ListForItem)

	myItems := api.Group("/my/items")
	myItems.GET("", h.Items.Mine)
	myItems.POST("", h.Items.Create)
	myItems.POST("/:id/publish", h.Items.Publish)
	myItems.POST("/:id/unpublish", h.Items.Unpublish)

	api.POST("/rentals", h.Rentals.Create)
	api.GET("/rentals", h.Rentals.List)
	api.GET("/rentals/summary", h.Rentals.Summary)
	api.GET("/rentals/:id", h.Rentals.Get)
	api.POST("/rentals/:id/cancel", h.Rentals.Cancel)

	api.GET("/cart", h.Cart.Get)
	api.POST("/cart/items", h.Cart.Add)
	api.DELETE("/cart/items/:itemID", h.Cart.Remove)

	api.POST("/reviews", h.Reviews.Submit)

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
