package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"avgspeed/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default(300)
	require.NoError(t, err)

	cameras := c.ListCameras()
	segments := c.ListSegments()
	require.Len(t, cameras, 8)
	require.Len(t, segments, 8)

	assert.Equal(t, "SOF-A1", cameras[0].ID)
	require.NotNil(t, cameras[0].Direction)
	assert.Equal(t, 270.0, *cameras[0].Direction)

	assert.Equal(t, model.Segment{Name: "A→C", StartCameraID: "SOF-A1", EndCameraID: "SOF-C1", GeofenceRadius: 50}, segments[0])
	assert.Equal(t, 20.0, segments[2].GeofenceRadius)
}

func TestListsAreIdempotentCopies(t *testing.T) {
	c, err := Default(300)
	require.NoError(t, err)

	first := c.ListCameras()
	*first[0].Direction = 1
	first[1].ID = "mutated"

	segments := c.ListSegments()
	segments[0].Name = "mutated"

	assert.Equal(t, c.ListCameras(), c.ListCameras())
	assert.Equal(t, 270.0, *c.ListCameras()[0].Direction)
	assert.Equal(t, "SOF-B1", c.ListCameras()[1].ID)
	assert.Equal(t, "A→C", c.ListSegments()[0].Name)
}

func TestNewAppliesDefaultRadius(t *testing.T) {
	c, err := New(
		[]model.Camera{{ID: "X", Lat: 1, Lng: 1}, {ID: "Y", Lat: 1.01, Lng: 1}},
		[]model.Segment{{Name: "X→Y", StartCameraID: "X", EndCameraID: "Y"}},
		120,
	)
	require.NoError(t, err)
	assert.Equal(t, 120.0, c.ListSegments()[0].GeofenceRadius)
	assert.Nil(t, c.ListCameras()[0].Direction)
}

func TestNewRejectsBadCameras(t *testing.T) {
	tests := []struct {
		name    string
		cameras []model.Camera
	}{
		{"missing id", []model.Camera{{Lat: 1, Lng: 1}}},
		{"duplicate id", []model.Camera{{ID: "X", Lat: 1, Lng: 1}, {ID: "X", Lat: 2, Lng: 2}}},
		{"bad latitude", []model.Camera{{ID: "X", Lat: 95, Lng: 1}}},
		{"bad direction", []model.Camera{{ID: "X", Lat: 1, Lng: 1, Direction: model.Float64(360)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cameras, nil, 300)
			assert.Error(t, err)
		})
	}
}

func TestNewKeepsDanglingSegments(t *testing.T) {
	c, err := New(
		[]model.Camera{{ID: "X", Lat: 1, Lng: 1}},
		[]model.Segment{{Name: "X→?", StartCameraID: "X", EndCameraID: "missing", GeofenceRadius: 50}},
		300,
	)
	require.NoError(t, err)
	assert.Len(t, c.ListSegments(), 1)

	_, ok := c.SegmentLength("X→?")
	assert.False(t, ok)
}

func TestSegmentLength(t *testing.T) {
	c, err := Default(300)
	require.NoError(t, err)

	length, ok := c.SegmentLength("A→C")
	require.True(t, ok)
	assert.InDelta(t, 790, length, 20)

	_, ok = c.SegmentLength("nope")
	assert.False(t, ok)
}

func TestSegmentsAt(t *testing.T) {
	c, err := Default(300)
	require.NoError(t, err)

	// Right on SOF-A1: start of A→C and end of H→A
	hits := c.SegmentsAt(42.6281474, 23.3711704)
	require.Len(t, hits, 2)
	assert.Equal(t, "A→C", hits[0].SegmentName)
	assert.Equal(t, EndStart, hits[0].End)
	assert.Equal(t, "H→A", hits[1].SegmentName)
	assert.Equal(t, EndEnd, hits[1].End)
	assert.Equal(t, "SOF-A1", hits[0].CameraID)
	assert.InDelta(t, 0, hits[0].DistanceMeters, 0.01)

	// ~30 m north of SOF-D1: inside C→D's 50 m fence, outside D→F's 20 m fence
	hits = c.SegmentsAt(42.6241474+0.00027, 23.3841704)
	require.Len(t, hits, 1)
	assert.Equal(t, "C→D", hits[0].SegmentName)
	assert.Equal(t, EndEnd, hits[0].End)
	assert.InDelta(t, 30, hits[0].DistanceMeters, 1)

	// Far away
	assert.Empty(t, c.SegmentsAt(0, 0))
}

func TestSegmentsAtEmptyCatalog(t *testing.T) {
	c, err := New(nil, nil, 300)
	require.NoError(t, err)
	assert.NotNil(t, c.SegmentsAt(1, 1))
	assert.Empty(t, c.SegmentsAt(1, 1))
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `cameras:
  - id: NIS-1
    lat: 43.3209
    lng: 21.8958
    direction: 90
  - id: NIS-2
    lat: 43.3250
    lng: 21.9000
segments:
  - name: "1→2"
    startCameraId: NIS-1
    endCameraId: NIS-2
  - name: "2→1"
    startCameraId: NIS-2
    endCameraId: NIS-1
    geofenceRadius: 75
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path, 150)
	require.NoError(t, err)

	cameras := c.ListCameras()
	require.Len(t, cameras, 2)
	assert.Equal(t, "NIS-1", cameras[0].ID)
	require.NotNil(t, cameras[0].Direction)
	assert.Equal(t, 90.0, *cameras[0].Direction)
	assert.Nil(t, cameras[1].Direction)

	segments := c.ListSegments()
	require.Len(t, segments, 2)
	assert.Equal(t, "NIS-1", segments[0].StartCameraID)
	assert.Equal(t, 150.0, segments[0].GeofenceRadius)
	assert.Equal(t, 75.0, segments[1].GeofenceRadius)
}

func TestLoadEmptyPathUsesSeed(t *testing.T) {
	c, err := Load("", 300)
	require.NoError(t, err)
	assert.Len(t, c.ListCameras(), 8)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), 300)
	assert.Error(t, err)
}

func TestGeoJSON(t *testing.T) {
	c, err := Default(300)
	require.NoError(t, err)

	data, err := c.GeoJSON()
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 16)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.Equal(t, "SOF-A1", doc.Features[0].Properties["id"])
	assert.JSONEq(t, `[23.3711704,42.6281474]`, string(doc.Features[0].Geometry.Coordinates))
	assert.Equal(t, "LineString", doc.Features[8].Geometry.Type)
	assert.Equal(t, "A→C", doc.Features[8].Properties["name"])
}
