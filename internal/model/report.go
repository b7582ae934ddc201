package model

import (
	"strings"
	"time"
)

// Report is a client-submitted average speed measurement between two cameras.
// Timestamps are kept as strings so a hand-edited or legacy store never fails to load.
type Report struct {
	SegmentName         string  `json:"segmentName"`
	StartCameraID       string  `json:"startCameraId"`
	EndCameraID         string  `json:"endCameraId"`
	StartedAt           string  `json:"startedAt"`
	EndedAt             string  `json:"endedAt"`
	RouteDistanceMeters float64 `json:"routeDistanceMeters"`
	AvgSpeedKmH         float64 `json:"avgSpeedKmH"`
	AppVersion          string  `json:"appVersion"`
	DeviceID            *string `json:"deviceId"`
}

// ReportView is a stored report enriched with fields computed at query time
type ReportView struct {
	Report
	DurationSec *float64 `json:"durationSec"`
}

// ReportStats summarizes the report store
type ReportStats struct {
	Count     int            `json:"count"`
	BySegment map[string]int `json:"bySegment"`
}

// Fallback layouts after RFC 3339. Zoneless forms parse as UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp as sent by the app or an admin query.
// A trailing "Z", an explicit offset and a missing zone (treated as UTC) are accepted,
// as are minute precision and a bare date (midnight UTC).
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatTimestamp renders t the way reports are stored: UTC, second precision unless
// sub-second digits are present, "Z" suffix
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Duration returns endedAt - startedAt in seconds, or nil when either timestamp is unparsable
func (r Report) Duration() *float64 {
	started, ok := ParseTimestamp(r.StartedAt)
	if !ok {
		return nil
	}
	ended, ok := ParseTimestamp(r.EndedAt)
	if !ok {
		return nil
	}

	seconds := ended.Sub(started).Seconds()
	return &seconds
}

// DeviceIDOrEmpty returns the device id or "" when the app didn't send one
func (r Report) DeviceIDOrEmpty() string {
	if r.DeviceID == nil {
		return ""
	}
	return *r.DeviceID
}
