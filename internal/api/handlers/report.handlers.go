package routes

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"avgspeed/internal/api/middleware"
	"avgspeed/internal/metrics"
	"avgspeed/internal/model"
	"avgspeed/internal/service/report"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const exportFilename = "avg_speed_reports.csv"

// avgSpeedReportRequest is the POST body. Pointers let binding tell a missing number from zero.
type avgSpeedReportRequest struct {
	SegmentName         string   `json:"segmentName" binding:"required"`
	StartCameraID       string   `json:"startCameraId" binding:"required"`
	EndCameraID         string   `json:"endCameraId" binding:"required"`
	StartedAt           string   `json:"startedAt" binding:"required"`
	EndedAt             string   `json:"endedAt" binding:"required"`
	RouteDistanceMeters *float64 `json:"routeDistanceMeters" binding:"required"`
	AvgSpeedKmH         *float64 `json:"avgSpeedKmH" binding:"required"`
	AppVersion          string   `json:"appVersion" binding:"required"`
	DeviceID            *string  `json:"deviceId"`
}

func (r avgSpeedReportRequest) toModel() model.Report {
	return model.Report{
		SegmentName:         r.SegmentName,
		StartCameraID:       r.StartCameraID,
		EndCameraID:         r.EndCameraID,
		StartedAt:           r.StartedAt,
		EndedAt:             r.EndedAt,
		RouteDistanceMeters: *r.RouteDistanceMeters,
		AvgSpeedKmH:         *r.AvgSpeedKmH,
		AppVersion:          r.AppVersion,
		DeviceID:            r.DeviceID,
	}
}

// ReportHandlers serves report ingestion and the admin endpoints
type ReportHandlers struct {
	reports      *report.ReportService
	defaultLimit int
}

// SetupReportHandlers registers the report endpoints on the traffic group
func SetupReportHandlers(router *gin.RouterGroup, reports *report.ReportService, defaultLimit int) {
	h := &ReportHandlers{reports: reports, defaultLimit: defaultLimit}

	router.POST("/avg-speed-report", middleware.BearerAuth(gin.H{"status": "unauthorized"}), h.PostAvgSpeedReport)

	// Admin API (list/stats/export/clear)
	router.GET("/reports", h.ListReports)
	router.GET("/reports/stats", h.ReportStats)
	router.GET("/reports/export.csv", h.ExportReportsCSV)
	router.DELETE("/reports", h.ClearReports)
}

// PostAvgSpeedReport stores one avg-speed report
func (h *ReportHandlers) PostAvgSpeedReport(c *gin.Context) {
	var req avgSpeedReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordSubmission("invalid")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "invalid", "error": err.Error()})
		return
	}

	err := h.reports.Submit(c.Request.Context(), req.toModel())

	var validationErr *report.ValidationError
	switch {
	case err == nil:
		metrics.RecordSubmission("ok")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.As(err, &validationErr):
		metrics.RecordSubmission("invalid")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "invalid", "error": validationErr.Error()})
	default:
		metrics.RecordSubmission("error")
		log.WithField("request_id", middleware.GetRequestID(c)).Errorf("Failed to store avg-speed report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
	}
}

// ListReports returns stored reports, oldest first, filtered by ?since= and ?segment=,
// capped to the newest ?limit= entries (0 means no cap)
func (h *ReportHandlers) ListReports(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "invalid", "error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	views, err := h.reports.Query(c.Request.Context(), report.Filter{
		Limit:   limit,
		Since:   c.Query("since"),
		Segment: c.Query("segment"),
	})
	if err != nil {
		h.internalError(c, "list reports", err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// ReportStats returns the total and per-segment report counts
func (h *ReportHandlers) ReportStats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		h.internalError(c, "compute report stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportReportsCSV streams every stored report as a CSV attachment
func (h *ReportHandlers) ExportReportsCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reports.ExportCSV(c.Request.Context(), &buf); err != nil {
		h.internalError(c, "export reports", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+exportFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ClearReports deletes every stored report when ?confirm= carries the token
func (h *ReportHandlers) ClearReports(c *gin.Context) {
	err := h.reports.Clear(c.Request.Context(), c.DefaultQuery("confirm", "NO"))

	var preconditionErr *report.PreconditionError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cleared": true})
	case errors.As(err, &preconditionErr):
		c.JSON(http.StatusOK, gin.H{"status": "confirm required", "hint": preconditionErr.Hint})
	default:
		h.internalError(c, "clear reports", err)
	}
}

func (h *ReportHandlers) internalError(c *gin.Context, action string, err error) {
	log.WithField("request_id", middleware.GetRequestID(c)).Errorf("Failed to %s: %v", action, err)
	c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
}
