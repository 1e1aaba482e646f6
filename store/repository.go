// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists region signatures in DuckDB.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikemoraned/geo/regions"
	"github.com/mikemoraned/geo/spatial"
	"github.com/uber/h3-go/v4"
)

// CellResolution is the H3 resolution stored for every centroid.
const CellResolution = 7

// Record is a persisted signature together with the H3 cell of its centroid.
type Record struct {
	Signature *regions.RegionSignature
	Cell      h3.Cell
	BuiltAt   time.Time
}

// SignatureRepository handles the persistence of region signatures.
type SignatureRepository interface {
	// CreateSchema creates the signatures table.
	CreateSchema() error
	// ReplaceAll swaps the stored signatures for the given set.
	ReplaceAll(signatures []*regions.RegionSignature, builtAt time.Time) error
	List() ([]Record, error)
	Get(id string) (*Record, error)
	Count() (int, error)
	// FindByCell returns the ids of regions whose centroid lies in the same
	// H3 cell as point.
	FindByCell(point spatial.Point) ([]string, error)
}

type sqlSignatureRepository struct {
	db *sql.DB
}

// NewSignatureRepository creates a new signature repository.
func NewSignatureRepository(db *sql.DB) SignatureRepository {
	return &sqlSignatureRepository{db: db}
}

func (r *sqlSignatureRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS signatures (
			id VARCHAR PRIMARY KEY,
			group_name VARCHAR NOT NULL,
			centroid POINT_2D NOT NULL,
			h3_res7 UBIGINT NOT NULL,
			bucket_width DOUBLE NOT NULL,
			dominant_degree SMALLINT NOT NULL,
			dominant_length DOUBLE NOT NULL,
			lengths DOUBLE[] NOT NULL,
			built_at TIMESTAMP NOT NULL
		);
	`)

	return err
}

func centroidCell(p spatial.Point) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), CellResolution)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", CellResolution, err)
	}

	return cell, nil
}

func (r *sqlSignatureRepository) ReplaceAll(signatures []*regions.RegionSignature, builtAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("failed to rollback transaction replacing signatures: %v", err)
		}
	}()

	if _, err := tx.Exec("DELETE FROM signatures"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO signatures (id, group_name, centroid, h3_res7, bucket_width,
			dominant_degree, dominant_length, lengths, built_at)
		VALUES (?, ?, ST_Point(?, ?), ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range signatures {
		cell, err := centroidCell(s.Centroid)
		if err != nil {
			return fmt.Errorf("signature %s: %w", s.ID, err)
		}

		dominant := s.Dominant()

		_, err = stmt.Exec(
			s.ID,
			s.GroupName,
			s.Centroid.Lng,
			s.Centroid.Lat,
			uint64(cell),
			s.BucketWidth,
			dominant.Degree,
			dominant.Length,
			s.Lengths[:],
			builtAt,
		)
		if err != nil {
			return fmt.Errorf("inserting signature %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

const selectRecord = `
	SELECT id, group_name, centroid, h3_res7, lengths, built_at
	FROM signatures
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		id, group string
		centroid  spatial.Point
		cell      uint64
		raw       any
		builtAt   time.Time
	)

	if err := row.Scan(&id, &group, &centroid, &cell, &raw, &builtAt); err != nil {
		return nil, err
	}

	values, ok := AnyToFloat64Slice(raw)
	if !ok || len(values) != regions.Buckets {
		return nil, fmt.Errorf("signature %s: expected %d lengths, got %T", id, regions.Buckets, raw)
	}

	var lengths [regions.Buckets]float64
	copy(lengths[:], values)

	return &Record{
		Signature: regions.NewRegionSignature(id, group, centroid, lengths),
		Cell:      h3.Cell(cell),
		BuiltAt:   builtAt,
	}, nil
}

func (r *sqlSignatureRepository) List() ([]Record, error) {
	rows, err := r.db.Query(selectRecord + " ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, *rec)
	}

	return records, rows.Err()
}

func (r *sqlSignatureRepository) Get(id string) (*Record, error) {
	rec, err := scanRecord(r.db.QueryRow(selectRecord+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &regions.RegionError{Type: regions.ErrorTypeUnknownRegionID, ID: id, Err: err}
	}

	return rec, err
}

func (r *sqlSignatureRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM signatures").Scan(&count)

	return count, err
}

func (r *sqlSignatureRepository) FindByCell(point spatial.Point) ([]string, error) {
	cell, err := centroidCell(point)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query("SELECT id FROM signatures WHERE h3_res7 = ? ORDER BY id", uint64(cell))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
