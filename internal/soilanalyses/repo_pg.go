package soilanalyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Nested documents are stored as jsonb.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, farm_id, location, soil_parameters, result, test_method,
       sensor_data, images, is_shared, shared_with, status, created_at, updated_at, version`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	const query = `
INSERT INTO soil_analyses (
	id, user_id, farm_id, location, soil_parameters, result, overall_score, soil_health,
	test_method, sensor_data, images, is_shared, shared_with, status, created_at, updated_at, version
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	doc, err := encodeDocuments(a)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		nullableString(a.FarmID),
		doc.location,
		doc.params,
		doc.result,
		a.Result.OverallScore,
		string(a.Result.SoilHealth),
		a.TestMethod,
		doc.sensor,
		doc.images,
		a.IsShared,
		doc.shares,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
		a.Version,
	)
	return err
}

// GetByID returns a live analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `
SELECT ` + selectColumns + `
FROM soil_analyses
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

// Update replaces every mutable column of a live analysis still at a.Version
// and bumps the version. A live row at another version yields ErrConflict.
func (r *PGRepo) Update(ctx context.Context, a Analysis) error {
	const query = `
UPDATE soil_analyses SET
	farm_id = $2,
	location = $3,
	soil_parameters = $4,
	result = $5,
	overall_score = $6,
	soil_health = $7,
	test_method = $8,
	sensor_data = $9,
	images = $10,
	is_shared = $11,
	shared_with = $12,
	status = $13,
	updated_at = $14,
	version = version + 1
WHERE id = $1 AND deleted_at IS NULL AND version = $15`
	doc, err := encodeDocuments(a)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		a.ID,
		nullableString(a.FarmID),
		doc.location,
		doc.params,
		doc.result,
		a.Result.OverallScore,
		string(a.Result.SoilHealth),
		a.TestMethod,
		doc.sensor,
		doc.images,
		a.IsShared,
		doc.shares,
		a.Status,
		a.UpdatedAt,
		a.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	const liveQuery = `SELECT EXISTS (SELECT 1 FROM soil_analyses WHERE id = $1 AND deleted_at IS NULL)`
	var live bool
	if err := r.DB.QueryRowContext(ctx, liveQuery, a.ID).Scan(&live); err != nil {
		return err
	}
	if live {
		return ErrConflict
	}
	return ErrNotFound
}

// Delete soft-deletes the analysis.
func (r *PGRepo) Delete(ctx context.Context, analysisID string) error {
	const query = `
UPDATE soil_analyses SET deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, analysisID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// ListByUser returns the user's live analyses, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	query := `
SELECT ` + selectColumns + `
FROM soil_analyses
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByUser counts the user's live analyses.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM soil_analyses WHERE user_id = $1 AND deleted_at IS NULL`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var farmID sql.NullString
	var location, params, result, sensor, images, shares []byte
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&farmID,
		&location,
		&params,
		&result,
		&a.TestMethod,
		&sensor,
		&images,
		&a.IsShared,
		&shares,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Version,
	)
	if err != nil {
		return Analysis{}, err
	}
	a.FarmID = farmID.String

	targets := []struct {
		name string
		raw  []byte
		dest any
	}{
		{"location", location, &a.Location},
		{"soil_parameters", params, &a.SoilParameters},
		{"result", result, &a.Result},
		{"sensor_data", sensor, &a.SensorData},
		{"images", images, &a.Images},
		{"shared_with", shares, &a.SharedWith},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(t.raw, t.dest); err != nil {
			return Analysis{}, fmt.Errorf("decode %s: %w", t.name, err)
		}
	}
	if a.Images == nil {
		a.Images = []Image{}
	}
	if a.SharedWith == nil {
		a.SharedWith = []Share{}
	}
	return a, nil
}

type encodedDocuments struct {
	location, params, result, sensor, images, shares any
}

func encodeDocuments(a Analysis) (encodedDocuments, error) {
	var doc encodedDocuments
	var err error
	if doc.location, err = marshalJSONB(a.Location); err != nil {
		return doc, err
	}
	if doc.params, err = marshalJSONB(a.SoilParameters); err != nil {
		return doc, err
	}
	if doc.result, err = marshalJSONB(a.Result); err != nil {
		return doc, err
	}
	if a.SensorData != nil {
		if doc.sensor, err = marshalJSONB(a.SensorData); err != nil {
			return doc, err
		}
	}
	if doc.images, err = marshalJSONB(nonNil(a.Images)); err != nil {
		return doc, err
	}
	if doc.shares, err = marshalJSONB(nonNil(a.SharedWith)); err != nil {
		return doc, err
	}
	return doc, nil
}

func marshalJSONB(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
