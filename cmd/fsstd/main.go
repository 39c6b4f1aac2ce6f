// Command fsstd runs the fsst HTTP service: train, import, export, encode,
// and decode against symbol tables held in memory.
package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/gofsst/fsst/internal/api"
	"github.com/gofsst/fsst/internal/config"
	"github.com/gofsst/fsst/internal/tablestore"
)

func main() {
	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxSampleBytes

	store := tablestore.New()
	api.SetupRoutes(router, store, cfg)

	log.Printf("fsstd listening on %s (env=%s)", cfg.Addr, cfg.Environment)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("fsstd: %v", err)
	}
}
