package soilanalyses

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"agri-backend/internal/soil"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateStoresScoreColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	a := Analysis{
		ID:             "a-1",
		UserID:         "google:1",
		Location:       Location{Coordinates: []float64{73.85, 18.52}},
		SoilParameters: soil.ParameterSet{"ph": soil.Number(6.5)},
		Result:         soil.Result{OverallScore: 20, SoilHealth: soil.HealthPoor},
		TestMethod:     TestMethodLaboratory,
		Status:         StatusCompleted,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}

	mock.ExpectExec("INSERT INTO soil_analyses").
		WithArgs(
			a.ID,
			a.UserID,
			nil, // farm_id
			`{"coordinates":[73.85,18.52]}`,
			`{"ph":{"value":6.5}}`,
			sqlmock.AnyArg(), // result
			20,
			"poor",
			TestMethodLaboratory,
			nil, // sensor_data
			"[]",
			false,
			"[]",
			StatusCompleted,
			now,
			now,
			int64(1),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func analysisColumns() []string {
	return []string{"id", "user_id", "farm_id", "location", "soil_parameters", "result", "test_method",
		"sensor_data", "images", "is_shared", "shared_with", "status", "created_at", "updated_at", "version"}
}

func TestPGRepoGetByIDDecodesDocuments(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(analysisColumns()).AddRow(
		"a-1", "google:1", "farm-1",
		[]byte(`{"coordinates":[73.85,18.52],"plotNumber":"P-7"}`),
		[]byte(`{"ph":{"value":6.5,"status":"optimal"}}`),
		[]byte(`{"overallScore":20,"soilHealth":"poor","recommendations":[],"suitableCrops":[]}`),
		"manual",
		nil,
		[]byte(`[]`),
		true,
		[]byte(`[{"userId":"google:2","role":"view","sharedAt":"2026-06-01T00:00:00Z"}]`),
		"completed", now, now, int64(3),
	)
	mock.ExpectQuery("FROM soil_analyses").WithArgs("a-1").WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.FarmID != "farm-1" || a.Location.PlotNumber != "P-7" || !a.IsShared || a.Version != 3 {
		t.Fatalf("unexpected analysis: %+v", a)
	}
	if r := a.SoilParameters["ph"]; r.Status != soil.StatusOptimal || *r.Value != 6.5 {
		t.Fatalf("unexpected ph reading: %+v", r)
	}
	if a.SensorData != nil || len(a.SharedWith) != 1 || a.SharedWith[0].UserID != "google:2" {
		t.Fatalf("unexpected nested documents: %+v", a)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM soil_analyses").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteIsSoft(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE soil_analyses SET deleted_at = now\\(\\)").
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE soil_analyses SET deleted_at = now\\(\\)").
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "a-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "a-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListAndCount(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(analysisColumns()).AddRow(
		"a-2", "google:1", nil,
		[]byte(`{"coordinates":[0,0]}`), []byte(`{}`), []byte(`{"overallScore":0,"soilHealth":"poor"}`),
		"sensor", []byte(`{"sensorId":"sensor-1"}`), []byte(`[]`), false, []byte(`[]`),
		"pending", now, now, int64(1),
	)
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs("google:1", 10, 20).WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").WithArgs("google:1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	items, err := repo.ListByUser(context.Background(), "google:1", 10, 20)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 1 || items[0].SensorData == nil || items[0].SensorData.SensorID != "sensor-1" {
		t.Fatalf("unexpected items: %+v", items)
	}
	n, err := repo.CountByUser(context.Background(), "google:1")
	if err != nil || n != 21 {
		t.Fatalf("CountByUser = %d, %v", n, err)
	}
}

func TestPGRepoUpdateChecksVersion(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	a := Analysis{
		ID:             "a-1",
		UserID:         "google:1",
		SoilParameters: soil.ParameterSet{},
		TestMethod:     TestMethodManual,
		Status:         StatusCompleted,
		UpdatedAt:      now,
		Version:        4,
	}

	tests := []struct {
		name    string
		live    bool
		wantErr error
	}{
		{name: "stale version on live row", live: true, wantErr: ErrConflict},
		{name: "deleted row", live: false, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec("version = version \\+ 1\\s+WHERE id = \\$1 AND deleted_at IS NULL AND version = \\$15").
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("a-1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.live))

			if err := repo.Update(context.Background(), a); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update: expected %v, got %v", tt.wantErr, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("ExpectationsWereMet: %v", err)
			}
		})
	}
}

func TestPGRepoUpdatePassesExpectedVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	a := Analysis{ID: "a-1", UserID: "google:1", TestMethod: TestMethodManual, Status: StatusCompleted, UpdatedAt: now, Version: 2}

	mock.ExpectExec("UPDATE soil_analyses SET").
		WithArgs(
			"a-1", nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 0, "",
			TestMethodManual, nil, "[]", false, "[]", StatusCompleted, now,
			int64(2),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
