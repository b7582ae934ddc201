package catalog

import (
	"fmt"
	"math"
	"sort"

	"avgspeed/internal/model"
	"avgspeed/internal/util"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Segment ends reported in geofence hits
const (
	EndStart = "start"
	EndEnd   = "end"
)

// cameraSpatial wraps a camera for R-tree indexing
type cameraSpatial struct {
	camera model.Camera
}

// Bounds implements the rtreego.Spatial interface.
// Cameras are points, indexed as tiny boxes in lng/lat order.
func (c *cameraSpatial) Bounds() rtreego.Rect {
	return rtreego.Point{c.camera.Lng, c.camera.Lat}.ToRect(1e-9)
}

// segmentEnd is one end of a segment attached to a camera
type segmentEnd struct {
	segment model.Segment
	end     string
}

// Catalog is the immutable seed catalog of cameras and segments. Build it once at start-up
// and hand it to whoever needs it; every accessor returns copies.
type Catalog struct {
	cameras  []model.Camera
	segments []model.Segment
	byID     map[string]model.Camera
	ends     map[string][]segmentEnd // camera ID -> segment ends located at that camera

	spatialIndex *rtreego.Rtree
	maxRadius    float64
}

// New validates and indexes the given tables. Segments without a geofence radius get
// defaultRadius. Segments pointing at unknown cameras are kept but logged.
func New(cameras []model.Camera, segments []model.Segment, defaultRadius float64) (*Catalog, error) {
	c := &Catalog{
		cameras:      make([]model.Camera, 0, len(cameras)),
		segments:     make([]model.Segment, 0, len(segments)),
		byID:         make(map[string]model.Camera, len(cameras)),
		ends:         make(map[string][]segmentEnd),
		spatialIndex: rtreego.NewTree(2, 25, 50), // 2D index with min 25, max 50 entries per node
	}

	for _, camera := range cameras {
		if camera.ID == "" {
			return nil, fmt.Errorf("camera at (%v, %v) has no id", camera.Lat, camera.Lng)
		}
		if _, exists := c.byID[camera.ID]; exists {
			return nil, fmt.Errorf("duplicate camera id %q", camera.ID)
		}
		if !util.ValidLatLng(camera.Lat, camera.Lng) {
			return nil, fmt.Errorf("camera %q has invalid coordinates (%v, %v)", camera.ID, camera.Lat, camera.Lng)
		}
		if camera.Direction != nil {
			if *camera.Direction < 0 || *camera.Direction >= 360 {
				return nil, fmt.Errorf("camera %q direction %v outside [0,360)", camera.ID, *camera.Direction)
			}
			camera.Direction = model.Float64(*camera.Direction)
		}

		c.cameras = append(c.cameras, camera)
		c.byID[camera.ID] = camera
		c.spatialIndex.Insert(&cameraSpatial{camera: camera})
	}

	for _, segment := range segments {
		if segment.Name == "" {
			return nil, fmt.Errorf("segment %s→%s has no name", segment.StartCameraID, segment.EndCameraID)
		}
		if segment.GeofenceRadius <= 0 {
			segment.GeofenceRadius = defaultRadius
		}

		for _, id := range []string{segment.StartCameraID, segment.EndCameraID} {
			if _, ok := c.byID[id]; !ok {
				log.Warnf("Segment %q references unknown camera %q", segment.Name, id)
			}
		}

		c.segments = append(c.segments, segment)
		c.ends[segment.StartCameraID] = append(c.ends[segment.StartCameraID], segmentEnd{segment: segment, end: EndStart})
		c.ends[segment.EndCameraID] = append(c.ends[segment.EndCameraID], segmentEnd{segment: segment, end: EndEnd})
		c.maxRadius = math.Max(c.maxRadius, segment.GeofenceRadius)
	}

	return c, nil
}

// Default returns the built-in seed catalog
func Default(defaultRadius float64) (*Catalog, error) {
	return New(seedCameras(), seedSegments(), defaultRadius)
}

// Load reads a YAML or JSON catalog file with "cameras" and "segments" lists.
// An empty path yields the built-in seed.
func Load(path string, defaultRadius float64) (*Catalog, error) {
	if path == "" {
		log.Println("No CATALOG_FILE configured, using built-in seed catalog")
		return Default(defaultRadius)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var cameras []model.Camera
	if err := v.UnmarshalKey("cameras", &cameras); err != nil {
		return nil, fmt.Errorf("failed to decode cameras in %s: %w", path, err)
	}
	var segments []model.Segment
	if err := v.UnmarshalKey("segments", &segments); err != nil {
		return nil, fmt.Errorf("failed to decode segments in %s: %w", path, err)
	}

	log.Printf("Loaded catalog file %s: %d cameras, %d segments", path, len(cameras), len(segments))
	return New(cameras, segments, defaultRadius)
}

// ListCameras returns a copy of every camera in seed order
func (c *Catalog) ListCameras() []model.Camera {
	result := make([]model.Camera, len(c.cameras))
	for i, camera := range c.cameras {
		if camera.Direction != nil {
			camera.Direction = model.Float64(*camera.Direction)
		}
		result[i] = camera
	}
	return result
}

// ListSegments returns a copy of every segment in seed order
func (c *Catalog) ListSegments() []model.Segment {
	result := make([]model.Segment, len(c.segments))
	copy(result, c.segments)
	return result
}

// Camera looks a camera up by id
func (c *Catalog) Camera(id string) (model.Camera, bool) {
	camera, ok := c.byID[id]
	if ok && camera.Direction != nil {
		camera.Direction = model.Float64(*camera.Direction)
	}
	return camera, ok
}

// SegmentLength returns the straight-line distance in meters between a segment's cameras
func (c *Catalog) SegmentLength(name string) (float64, bool) {
	for _, segment := range c.segments {
		if segment.Name != name {
			continue
		}
		start, okStart := c.byID[segment.StartCameraID]
		end, okEnd := c.byID[segment.EndCameraID]
		if !okStart || !okEnd {
			return 0, false
		}
		return util.HaversineDistance(start.Lat, start.Lng, end.Lat, end.Lng), true
	}
	return 0, false
}

// SegmentsAt returns every segment end whose geofence contains (lat, lng), nearest first
func (c *Catalog) SegmentsAt(lat, lng float64) []model.GeofenceHit {
	hits := []model.GeofenceHit{}
	if c.maxRadius <= 0 {
		return hits
	}

	searchRect, err := toRect(util.BoundAround(lat, lng, c.maxRadius))
	if err != nil {
		log.Warnf("Failed to build geofence search rect around (%v, %v): %v", lat, lng, err)
		return hits
	}

	for _, item := range c.spatialIndex.SearchIntersect(searchRect) {
		camera := item.(*cameraSpatial).camera
		distance := util.HaversineDistance(lat, lng, camera.Lat, camera.Lng)

		for _, se := range c.ends[camera.ID] {
			if distance > se.segment.GeofenceRadius {
				continue
			}
			hits = append(hits, model.GeofenceHit{
				SegmentName:    se.segment.Name,
				End:            se.end,
				CameraID:       camera.ID,
				DistanceMeters: distance,
				GeofenceRadius: se.segment.GeofenceRadius,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].DistanceMeters != hits[j].DistanceMeters {
			return hits[i].DistanceMeters < hits[j].DistanceMeters
		}
		return hits[i].SegmentName < hits[j].SegmentName
	})
	return hits
}

func toRect(b orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRectFromPoints(
		rtreego.Point{b.Min[0], b.Min[1]},
		rtreego.Point{b.Max[0], b.Max[1]},
	)
}

// LogSummary logs every segment with its straight-line length
func (c *Catalog) LogSummary() {
	log.Printf("Seed catalog: %d cameras, %d segments", len(c.cameras), len(c.segments))
	for _, segment := range c.segments {
		if length, ok := c.SegmentLength(segment.Name); ok {
			log.Printf("  %s: %s -> %s, %.0f m, geofence %.0f m",
				segment.Name, segment.StartCameraID, segment.EndCameraID, length, segment.GeofenceRadius)
		}
	}
}
