package postgres

import (
	"context"
	"time"

	"avgspeed/internal/model"
	"avgspeed/internal/service/storage"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const backendPostgres = "postgres"

// ReportPG is the GORM model for a stored report. The serial ID keeps insertion order.
type ReportPG struct {
	ID                  uint64  `gorm:"primaryKey;autoIncrement"`
	SegmentName         string  `gorm:"size:255;not null;index"`
	StartCameraID       string  `gorm:"size:64;not null"`
	EndCameraID         string  `gorm:"size:64;not null"`
	StartedAt           string  `gorm:"size:64;not null"`
	EndedAt             string  `gorm:"size:64;not null"`
	RouteDistanceMeters float64 `gorm:"not null"`
	AvgSpeedKmH         float64 `gorm:"column:avg_speed_kmh;not null"`
	AppVersion          string  `gorm:"size:64;not null"`
	DeviceID            *string `gorm:"size:255"`

	CreatedAt time.Time
}

// TableName overrides the table name
func (ReportPG) TableName() string {
	return "avg_speed_reports"
}

// ReportFromPG converts a row into the domain model
func ReportFromPG(pg *ReportPG) model.Report {
	return model.Report{
		SegmentName:         pg.SegmentName,
		StartCameraID:       pg.StartCameraID,
		EndCameraID:         pg.EndCameraID,
		StartedAt:           pg.StartedAt,
		EndedAt:             pg.EndedAt,
		RouteDistanceMeters: pg.RouteDistanceMeters,
		AvgSpeedKmH:         pg.AvgSpeedKmH,
		AppVersion:          pg.AppVersion,
		DeviceID:            pg.DeviceID,
	}
}

// ReportToPG converts a domain report into a row
func ReportToPG(r model.Report) *ReportPG {
	return &ReportPG{
		SegmentName:         r.SegmentName,
		StartCameraID:       r.StartCameraID,
		EndCameraID:         r.EndCameraID,
		StartedAt:           r.StartedAt,
		EndedAt:             r.EndedAt,
		RouteDistanceMeters: r.RouteDistanceMeters,
		AvgSpeedKmH:         r.AvgSpeedKmH,
		AppVersion:          r.AppVersion,
		DeviceID:            r.DeviceID,
	}
}

// ReportStore keeps reports in the avg_speed_reports table
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) Append(ctx context.Context, report model.Report) error {
	if err := s.db.WithContext(ctx).Create(ReportToPG(report)).Error; err != nil {
		return &storage.StorageError{Op: "append", Backend: backendPostgres, Err: err}
	}
	return nil
}

// LoadAll returns every row ordered by ID. Query failures are logged and read as empty.
func (s *ReportStore) LoadAll(ctx context.Context) ([]model.Report, error) {
	var rows []*ReportPG
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		log.Warnf("Failed to load reports from PostgreSQL, treating as empty: %v", err)
		return []model.Report{}, nil
	}

	reports := make([]model.Report, len(rows))
	for i, row := range rows {
		reports[i] = ReportFromPG(row)
	}
	return reports, nil
}

func (s *ReportStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&ReportPG{}).Error; err != nil {
		return &storage.StorageError{Op: "clear", Backend: backendPostgres, Err: err}
	}
	return nil
}

func (s *ReportStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	log.Println("Closing PostgreSQL connection...")
	return sqlDB.Close()
}
