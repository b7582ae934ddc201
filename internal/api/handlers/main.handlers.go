package routes

import (
	"net/http"
	"time"

	"avgspeed/internal/service/catalog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupMainHandlers registers health, debug and metrics endpoints
func SetupMainHandlers(router *gin.RouterGroup, seed *catalog.Catalog) {
	router.GET("/ping", Ping)

	router.GET("/debug/seed", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"cameras":  seed.ListCameras(),
			"segments": seed.ListSegments(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Ping answers liveness checks with the current UTC time
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
