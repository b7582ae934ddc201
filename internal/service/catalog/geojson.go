package catalog

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON renders the catalog as a FeatureCollection: a Point per camera and a
// LineString per segment whose two cameras exist
func (c *Catalog) GeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, camera := range c.cameras {
		f := geojson.NewFeature(orb.Point{camera.Lng, camera.Lat})
		f.ID = camera.ID
		f.Properties["kind"] = "camera"
		f.Properties["id"] = camera.ID
		if camera.Direction != nil {
			f.Properties["direction"] = *camera.Direction
		}
		fc.Append(f)
	}

	for _, segment := range c.segments {
		start, okStart := c.byID[segment.StartCameraID]
		end, okEnd := c.byID[segment.EndCameraID]
		if !okStart || !okEnd {
			continue
		}

		f := geojson.NewFeature(orb.LineString{
			{start.Lng, start.Lat},
			{end.Lng, end.Lat},
		})
		f.ID = segment.Name
		f.Properties["kind"] = "segment"
		f.Properties["name"] = segment.Name
		f.Properties["startCameraId"] = segment.StartCameraID
		f.Properties["endCameraId"] = segment.EndCameraID
		f.Properties["geofenceRadius"] = segment.GeofenceRadius
		fc.Append(f)
	}

	return fc.MarshalJSON()
}
