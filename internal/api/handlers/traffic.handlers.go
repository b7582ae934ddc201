package routes

import (
	"net/http"
	"strconv"

	"avgspeed/internal/api/middleware"
	"avgspeed/internal/model"
	"avgspeed/internal/service/catalog"
	"avgspeed/internal/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SetupTrafficHandlers registers the seed catalog endpoints
func SetupTrafficHandlers(router *gin.RouterGroup, seed *catalog.Catalog) {
	// Catalog reads answer a rejected token with an empty list, not an error
	router.GET("/cameras", middleware.BearerAuth([]model.Camera{}), func(c *gin.Context) {
		c.JSON(http.StatusOK, seed.ListCameras())
	})

	router.GET("/segments", middleware.BearerAuth([]model.Segment{}), func(c *gin.Context) {
		c.JSON(http.StatusOK, seed.ListSegments())
	})

	router.GET("/geofence", middleware.BearerAuth([]model.GeofenceHit{}), func(c *gin.Context) {
		GetGeofenceHits(c, seed)
	})

	router.GET("/seed.geojson", func(c *gin.Context) {
		data, err := seed.GeoJSON()
		if err != nil {
			log.Errorf("Failed to render seed GeoJSON: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}
		c.Data(http.StatusOK, "application/geo+json", data)
	})
}

// GetGeofenceHits returns the segment ends whose geofence contains ?lat=&lng=
func GetGeofenceHits(c *gin.Context, seed *catalog.Catalog) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil || !util.ValidLatLng(lat, lng) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "invalid",
			"error":  "lat and lng must be valid WGS84 coordinates",
		})
		return
	}

	c.JSON(http.StatusOK, seed.SegmentsAt(lat, lng))
}
