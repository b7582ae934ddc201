package catalog

import "avgspeed/internal/model"

// Built-in seed around Sofia. A and B are the two surveyed points; the others are nearby
// offsets so every camera gets at least one geofence.
func seedCameras() []model.Camera {
	return []model.Camera{
		{ID: "SOF-A1", Lat: 42.6281474, Lng: 23.3711704, Direction: model.Float64(270)},
		{ID: "SOF-B1", Lat: 42.6199365, Lng: 23.3664081, Direction: model.Float64(270)},
		{ID: "SOF-C1", Lat: 42.6321474, Lng: 23.3791704, Direction: model.Float64(180)},
		{ID: "SOF-D1", Lat: 42.6241474, Lng: 23.3841704, Direction: model.Float64(90)},
		{ID: "SOF-E1", Lat: 42.6161474, Lng: 23.3721704, Direction: model.Float64(45)},
		{ID: "SOF-F1", Lat: 42.6211474, Lng: 23.3811704, Direction: model.Float64(315)},
		{ID: "SOF-G1", Lat: 42.6291474, Lng: 23.3601704, Direction: model.Float64(225)},
		{ID: "SOF-H1", Lat: 42.6139474, Lng: 23.3526704, Direction: model.Float64(135)},
	}
}

func seedSegments() []model.Segment {
	return []model.Segment{
		{Name: "A→C", StartCameraID: "SOF-A1", EndCameraID: "SOF-C1", GeofenceRadius: 50},
		{Name: "C→D", StartCameraID: "SOF-C1", EndCameraID: "SOF-D1", GeofenceRadius: 50},
		{Name: "D→F", StartCameraID: "SOF-D1", EndCameraID: "SOF-F1", GeofenceRadius: 20},
		{Name: "F→B", StartCameraID: "SOF-F1", EndCameraID: "SOF-B1", GeofenceRadius: 20},
		{Name: "B→E", StartCameraID: "SOF-B1", EndCameraID: "SOF-E1", GeofenceRadius: 50},
		{Name: "E→G", StartCameraID: "SOF-E1", EndCameraID: "SOF-G1", GeofenceRadius: 50},
		{Name: "G→H", StartCameraID: "SOF-G1", EndCameraID: "SOF-H1", GeofenceRadius: 50},
		{Name: "H→A", StartCameraID: "SOF-H1", EndCameraID: "SOF-A1", GeofenceRadius: 50},
	}
}
