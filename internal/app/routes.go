package app

import (
	"net/http"

	"Tasklist/internal/cache"
	"Tasklist/internal/config"
	"Tasklist/internal/dto"
	"Tasklist/internal/handlers"
	"Tasklist/internal/repo"
	"Tasklist/internal/service"
	"Tasklist/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Setup registers all routes on the given engine. rdb may be nil, which
// disables the list cache.
func Setup(r *gin.Engine, cfg config.Config, items repo.ItemRepo, rdb *redis.Client) error {
	renderer, err := view.NewRenderer(cfg.App.Locale)
	if err != nil {
		return err
	}

	var itemCache *cache.ItemCache
	if rdb != nil {
		itemCache = cache.NewItemCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	itemSvc := service.NewItemService(items, itemCache)
	itemHandler := handlers.NewItemHandler(itemSvc, renderer)
	registerItemRoutes(r, itemHandler)

	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	return nil
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{OK: true, Env: cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.VersionResponse{Version: cfg.App.Version})
	}
}

func registerItemRoutes(r gin.IRoutes, h *handlers.ItemHandler) {
	r.GET("/", h.Index)
	r.POST("/add", h.Add)
	r.POST("/toggle/:id", h.Toggle)
	r.POST("/delete/:id", h.Delete)
}
