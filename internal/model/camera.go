package model

// Camera is a seeded speed-check location
type Camera struct {
	ID        string   `json:"id" mapstructure:"id" yaml:"id"`
	Lat       float64  `json:"lat" mapstructure:"lat" yaml:"lat"`
	Lng       float64  `json:"lng" mapstructure:"lng" yaml:"lng"`
	Direction *float64 `json:"direction" mapstructure:"direction" yaml:"direction,omitempty"` // degrees [0,360), optional
}

// Segment is a named route between two cameras
type Segment struct {
	Name           string  `json:"name" mapstructure:"name" yaml:"name"`
	StartCameraID  string  `json:"startCameraId" mapstructure:"startCameraId" yaml:"startCameraId"`
	EndCameraID    string  `json:"endCameraId" mapstructure:"endCameraId" yaml:"endCameraId"`
	GeofenceRadius float64 `json:"geofenceRadius" mapstructure:"geofenceRadius" yaml:"geofenceRadius,omitempty"` // meters
}

// GeofenceHit tells which end of a segment a point falls into
type GeofenceHit struct {
	SegmentName    string  `json:"segmentName"`
	End            string  `json:"end"` // "start" or "end"
	CameraID       string  `json:"cameraId"`
	DistanceMeters float64 `json:"distanceMeters"`
	GeofenceRadius float64 `json:"geofenceRadius"`
}

// Float64 returns a pointer to v, handy for optional fields like Camera.Direction
func Float64(v float64) *float64 {
	return &v
}
