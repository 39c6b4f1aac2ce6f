// Package api wires the fsstd HTTP surface: symbol-table training, import,
// export, and encode/decode over tables held by an internal/tablestore.Store.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gofsst/fsst/internal/config"
	"github.com/gofsst/fsst/internal/tablestore"
)

// SetupRoutes registers all fsstd routes on router against store, enforcing
// the sample/input size limits from cfg.
func SetupRoutes(router *gin.Engine, store *tablestore.Store, cfg *config.Config) {
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	h := &Handlers{store: store, cfg: cfg}

	router.GET("/health", h.HandleHealth)
	router.GET("/info", h.HandleInfo)
	router.GET("/", h.HandleInfo)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/tables", h.HandleTrain)
		v1.POST("/tables/import", h.HandleImport)
		v1.GET("/tables/:handle", h.HandleTableInfo)
		v1.GET("/tables/:handle/export", h.HandleExport)
		v1.DELETE("/tables/:handle", h.HandleDelete)
		v1.POST("/tables/:handle/encode", h.HandleEncode)
		v1.POST("/tables/:handle/decode", h.HandleDecode)
	}
}
