package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"avgspeed/internal/model"
	"avgspeed/internal/util"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Compass points accepted in the OSM direction tag
var cardinalHeadings = map[string]float64{
	"N": 0, "NNE": 22.5, "NE": 45, "ENE": 67.5,
	"E": 90, "ESE": 112.5, "SE": 135, "SSE": 157.5,
	"S": 180, "SSW": 202.5, "SW": 225, "WSW": 247.5,
	"W": 270, "WNW": 292.5, "NW": 315, "NNW": 337.5,
}

// catalogFile mirrors the layout catalog.Load reads
type catalogFile struct {
	Cameras  []model.Camera  `yaml:"cameras"`
	Segments []model.Segment `yaml:"segments"`
}

type cameraExtractor struct {
	cameras []model.Camera
	seen    map[string]bool
}

func newCameraExtractor() *cameraExtractor {
	return &cameraExtractor{seen: make(map[string]bool)}
}

// isSpeedCamera checks the tags OSM uses for fixed and average speed enforcement
func isSpeedCamera(tags map[string]string) bool {
	if tags["highway"] == "speed_camera" {
		return true
	}
	switch tags["enforcement"] {
	case "maxspeed", "average_speed":
		return true
	default:
		return false
	}
}

// parseDirection turns "90", "270.5" or "NE" into a heading in [0,360).
// Ranges like "45-90" and "forward"/"backward" have no single heading.
func parseDirection(raw string) (*float64, bool) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return nil, false
	}

	if heading, ok := cardinalHeadings[raw]; ok {
		return model.Float64(heading), true
	}

	deg, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(deg) || math.IsInf(deg, 0) {
		return nil, false
	}
	return model.Float64(util.NormalizeHeading(deg)), true
}

// Add records a camera node, skipping non-camera nodes and duplicate ids
func (e *cameraExtractor) Add(osmID int64, lat, lng float64, tags map[string]string) (model.Camera, bool) {
	if !isSpeedCamera(tags) || !util.ValidLatLng(lat, lng) {
		return model.Camera{}, false
	}

	id := strings.TrimSpace(tags["ref"])
	if id == "" || e.seen[id] {
		id = fmt.Sprintf("OSM-%d", osmID)
	}
	if e.seen[id] {
		return model.Camera{}, false
	}

	camera := model.Camera{ID: id, Lat: lat, Lng: lng}
	if raw, ok := tags["direction"]; ok {
		if heading, ok := parseDirection(raw); ok {
			camera.Direction = heading
		} else {
			log.Warnf("Camera %s: ignoring unparsable direction %q", id, raw)
		}
	}

	e.seen[id] = true
	e.cameras = append(e.cameras, camera)
	return camera, true
}

// WriteCatalog encodes the cameras with an empty segment list
func (e *cameraExtractor) WriteCatalog(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()

	return enc.Encode(catalogFile{
		Cameras:  e.cameras,
		Segments: []model.Segment{},
	})
}
