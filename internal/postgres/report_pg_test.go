package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"avgspeed/internal/model"
	"avgspeed/internal/service/storage"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*ReportStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return NewReportStore(db), mock
}

var reportColumns = []string{
	"id", "segment_name", "start_camera_id", "end_camera_id", "started_at", "ended_at",
	"route_distance_meters", "avg_speed_kmh", "app_version", "device_id", "created_at",
}

func TestAppendInsertsRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "avg_speed_reports"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := store.Append(context.Background(), model.Report{
		SegmentName:         "A→C",
		StartCameraID:       "SOF-A1",
		EndCameraID:         "SOF-C1",
		StartedAt:           "2025-01-01T10:00:00Z",
		EndedAt:             "2025-01-01T10:01:00Z",
		RouteDistanceMeters: 500,
		AvgSpeedKmH:         30,
		AppVersion:          "1.0",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendFailureIsStorageError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "avg_speed_reports"`)).
		WillReturnError(errors.New("connection reset"))

	err := store.Append(context.Background(), model.Report{SegmentName: "A→C"})

	var storageErr *storage.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "postgres", storageErr.Backend)
	assert.Equal(t, "append", storageErr.Op)
}

func TestLoadAllOrdersByID(t *testing.T) {
	store, mock := newMockStore(t)

	device := "pixel-7"
	created := time.Date(2025, 1, 1, 10, 1, 5, 0, time.UTC)
	rows := sqlmock.NewRows(reportColumns).
		AddRow(1, "A→C", "SOF-A1", "SOF-C1", "2025-01-01T10:00:00Z", "2025-01-01T10:01:00Z", 500.0, 30.0, "1.0", nil, created).
		AddRow(2, "C→D", "SOF-C1", "SOF-D1", "2025-01-01T11:00:00Z", "2025-01-01T11:02:00Z", 800.0, 24.0, "1.1", device, created)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "avg_speed_reports" ORDER BY id`)).WillReturnRows(rows)

	reports, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "A→C", reports[0].SegmentName)
	assert.Nil(t, reports[0].DeviceID)
	assert.Equal(t, "C→D", reports[1].SegmentName)
	require.NotNil(t, reports[1].DeviceID)
	assert.Equal(t, "pixel-7", *reports[1].DeviceID)
	assert.Equal(t, 24.0, reports[1].AvgSpeedKmH)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAllQueryFailureIsEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "avg_speed_reports"`)).
		WillReturnError(errors.New("relation does not exist"))

	reports, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestClearDeletesEveryRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "avg_speed_reports" WHERE 1 = 1`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportConversionRoundTrip(t *testing.T) {
	device := "ios-15"
	r := model.Report{
		SegmentName:         "H→A",
		StartCameraID:       "SOF-H1",
		EndCameraID:         "SOF-A1",
		StartedAt:           "2025-01-01T10:00:00Z",
		EndedAt:             "2025-01-01T10:03:00Z",
		RouteDistanceMeters: 1750.5,
		AvgSpeedKmH:         35,
		AppVersion:          "2.0",
		DeviceID:            &device,
	}

	assert.Equal(t, r, ReportFromPG(ReportToPG(r)))
}
