// Package router builds the gin engine for the operator API.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sujal-debug/Policy-IQ/internal/claims/handler"
	"github.com/sujal-debug/Policy-IQ/internal/config"
)

func New(cfg *config.Config, pool *pgxpool.Pool, batchHandler *handler.Handler) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	engine.GET("/api/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	batchHandler.RegisterRoutes(v1.Group("/batch"))

	return engine
}
