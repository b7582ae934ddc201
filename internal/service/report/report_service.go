package report

import (
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"avgspeed/internal/model"
	"avgspeed/internal/service/storage"

	log "github.com/sirupsen/logrus"
)

// DefaultLimit is how many reports Query returns when the caller doesn't say
const DefaultLimit = 200

// CSVColumns is the fixed column order of the CSV export
var CSVColumns = []string{
	"segmentName", "startCameraId", "endCameraId",
	"startedAt", "endedAt", "routeDistanceMeters",
	"avgSpeedKmH", "appVersion", "deviceId",
}

// Filter narrows Query results. Zero values disable the corresponding filter;
// Limit <= 0 returns every matching report.
type Filter struct {
	Limit   int
	Since   string
	Segment string
}

// ReportService validates submissions and answers list/stats/export/clear queries
// on top of a ReportStore. It never mutates stored records.
type ReportService struct {
	store        storage.ReportStore
	confirmToken string
}

// NewReportService creates a service; confirmToken is the exact value Clear demands
func NewReportService(store storage.ReportStore, confirmToken string) *ReportService {
	return &ReportService{
		store:        store,
		confirmToken: confirmToken,
	}
}

// ConfirmHint tells a client how to confirm Clear
func (s *ReportService) ConfirmHint() string {
	return fmt.Sprintf("call with ?confirm=%s", s.confirmToken)
}

// Submit validates a report, normalizes its timestamps to UTC and appends it
func (s *ReportService) Submit(ctx context.Context, r model.Report) error {
	normalized, err := validate(r)
	if err != nil {
		return err
	}

	if err := s.store.Append(ctx, normalized); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"segment":  normalized.SegmentName,
		"speedKmH": normalized.AvgSpeedKmH,
		"app":      normalized.AppVersion,
	}).Info("New avg-speed report")
	return nil
}

func validate(r model.Report) (model.Report, error) {
	required := []struct {
		field string
		value string
	}{
		{"segmentName", r.SegmentName},
		{"startCameraId", r.StartCameraID},
		{"endCameraId", r.EndCameraID},
		{"appVersion", r.AppVersion},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return r, &ValidationError{Field: f.field, Reason: "must not be empty"}
		}
	}

	started, ok := model.ParseTimestamp(r.StartedAt)
	if !ok {
		return r, &ValidationError{Field: "startedAt", Reason: "must be an ISO-8601 timestamp"}
	}
	ended, ok := model.ParseTimestamp(r.EndedAt)
	if !ok {
		return r, &ValidationError{Field: "endedAt", Reason: "must be an ISO-8601 timestamp"}
	}
	if ended.Before(started) {
		return r, &ValidationError{Field: "endedAt", Reason: "must not be before startedAt"}
	}

	if !finiteNonNegative(r.RouteDistanceMeters) {
		return r, &ValidationError{Field: "routeDistanceMeters", Reason: "must be a non-negative number"}
	}
	if !finiteNonNegative(r.AvgSpeedKmH) {
		return r, &ValidationError{Field: "avgSpeedKmH", Reason: "must be a non-negative number"}
	}

	r.StartedAt = model.FormatTimestamp(started)
	r.EndedAt = model.FormatTimestamp(ended)
	return r, nil
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// sortKey orders reports by parsed endedAt; unparsable ones go first, by raw string
type sortKey struct {
	view   model.ReportView
	ended  time.Time
	parsed bool
}

func compareKeys(a, b sortKey) int {
	switch {
	case a.parsed && b.parsed:
		return a.ended.Compare(b.ended)
	case !a.parsed && !b.parsed:
		return cmp.Compare(a.view.EndedAt, b.view.EndedAt)
	case !a.parsed:
		return -1
	default:
		return 1
	}
}

// Query filters, annotates, sorts and truncates the stored reports.
// The result is ordered oldest first and holds at most the newest f.Limit reports.
func (s *ReportService) Query(ctx context.Context, f Filter) ([]model.ReportView, error) {
	reports, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	var since time.Time
	sinceSet := false
	if f.Since != "" {
		if since, sinceSet = model.ParseTimestamp(f.Since); !sinceSet {
			log.Debugf("Ignoring unparsable since=%q", f.Since)
		}
	}

	keys := make([]sortKey, 0, len(reports))
	for _, r := range reports {
		ended, parsed := model.ParseTimestamp(r.EndedAt)

		if sinceSet && (!parsed || ended.Before(since)) {
			continue
		}
		if f.Segment != "" && r.SegmentName != f.Segment {
			continue
		}

		keys = append(keys, sortKey{
			view:   model.ReportView{Report: r, DurationSec: r.Duration()},
			ended:  ended,
			parsed: parsed,
		})
	}

	slices.SortStableFunc(keys, compareKeys)

	if f.Limit > 0 && len(keys) > f.Limit {
		keys = keys[len(keys)-f.Limit:]
	}

	views := make([]model.ReportView, len(keys))
	for i, k := range keys {
		views[i] = k.view
	}
	return views, nil
}

// Stats counts every stored report, overall and per segment name
func (s *ReportService) Stats(ctx context.Context) (model.ReportStats, error) {
	reports, err := s.store.LoadAll(ctx)
	if err != nil {
		return model.ReportStats{}, err
	}

	stats := model.ReportStats{
		Count:     len(reports),
		BySegment: make(map[string]int),
	}
	for _, r := range reports {
		stats.BySegment[r.SegmentName]++
	}
	return stats, nil
}

// ExportCSV writes every stored report, unfiltered and in insertion order, as CSV
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer) error {
	reports, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	for _, r := range reports {
		record := []string{
			r.SegmentName,
			r.StartCameraID,
			r.EndCameraID,
			r.StartedAt,
			r.EndedAt,
			formatFloat(r.RouteDistanceMeters),
			formatFloat(r.AvgSpeedKmH),
			r.AppVersion,
			r.DeviceIDOrEmpty(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Clear deletes every stored report, but only when confirm equals the configured token
func (s *ReportService) Clear(ctx context.Context, confirm string) error {
	if confirm != s.confirmToken {
		return &PreconditionError{Hint: s.ConfirmHint()}
	}

	if err := s.store.Clear(ctx); err != nil {
		return err
	}

	log.Warn("All avg-speed reports cleared")
	return nil
}

// Count returns how many reports are stored
func (s *ReportService) Count(ctx context.Context) (int, error) {
	reports, err := s.store.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(reports), nil
}
