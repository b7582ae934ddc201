package api

import (
	routes "avgspeed/internal/api/handlers"
	"avgspeed/internal/api/middleware"
	"avgspeed/internal/service/catalog"
	"avgspeed/internal/service/report"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services and settings the HTTP surface is built from
type Dependencies struct {
	Catalog        *catalog.Catalog
	Reports        *report.ReportService
	AllowedOrigins []string
	DefaultLimit   int
}

// NewRouter creates a gin engine with recovery and every route registered
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	SetupRouter(r, deps)
	return r
}

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, deps Dependencies) {
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.NoCache(),
		middleware.CORS(deps.AllowedOrigins),
	)

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), deps.Catalog)

	// Traffic API group
	traffic := r.Group("/v1/traffic")
	routes.SetupTrafficHandlers(traffic, deps.Catalog)
	routes.SetupReportHandlers(traffic, deps.Reports, deps.DefaultLimit)
}
