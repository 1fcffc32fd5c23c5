package geo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mptourism/paryatan/internal/apperror"
)

// GeoRepository defines the data access contract for geography records.
type GeoRepository interface {
	CreateDistrict(ctx context.Context, d *District) error
	FindDistrict(ctx context.Context, id string) (*District, error)
	ListDistricts(ctx context.Context) ([]District, error)

	CreatePanchayat(ctx context.Context, p *GramPanchayat) error
	FindPanchayat(ctx context.Context, id string) (*GramPanchayat, error)
	ListPanchayatsByDistrict(ctx context.Context, districtID string) ([]GramPanchayat, error)
}

// geoRepository implements GeoRepository with MariaDB queries.
type geoRepository struct {
	db *sql.DB
}

// NewGeoRepository creates a new geography repository.
func NewGeoRepository(db *sql.DB) GeoRepository {
	return &geoRepository{db: db}
}

// CreateDistrict inserts a new district record.
func (r *geoRepository) CreateDistrict(ctx context.Context, d *District) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO districts (id, name, slug, description, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Slug, d.Description, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting district: %w", err)
	}
	return nil
}

// FindDistrict retrieves a district by id.
func (r *geoRepository) FindDistrict(ctx context.Context, id string) (*District, error) {
	d := &District{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug, description, created_at FROM districts WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("district not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying district: %w", err)
	}
	return d, nil
}

// ListDistricts returns all districts ordered by name.
func (r *geoRepository) ListDistricts(ctx context.Context) ([]District, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, description, created_at FROM districts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing districts: %w", err)
	}
	defer rows.Close()

	var districts []District
	for rows.Next() {
		var d District
		if err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning district row: %w", err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}

// CreatePanchayat inserts a new gram panchayat record.
func (r *geoRepository) CreatePanchayat(ctx context.Context, p *GramPanchayat) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO panchayats (id, district_id, name, slug, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.DistrictID, p.Name, p.Slug, p.Description, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting panchayat: %w", err)
	}
	return nil
}

// FindPanchayat retrieves a gram panchayat by id.
func (r *geoRepository) FindPanchayat(ctx context.Context, id string) (*GramPanchayat, error) {
	p := &GramPanchayat{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, district_id, name, slug, description, created_at
		 FROM panchayats WHERE id = ?`, id,
	).Scan(&p.ID, &p.DistrictID, &p.Name, &p.Slug, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("gram panchayat not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying panchayat: %w", err)
	}
	return p, nil
}

// ListPanchayatsByDistrict returns a district's panchayats ordered by name.
func (r *geoRepository) ListPanchayatsByDistrict(ctx context.Context, districtID string) ([]GramPanchayat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, district_id, name, slug, description, created_at
		 FROM panchayats WHERE district_id = ? ORDER BY name`, districtID)
	if err != nil {
		return nil, fmt.Errorf("listing panchayats: %w", err)
	}
	defer rows.Close()

	var panchayats []GramPanchayat
	for rows.Next() {
		var p GramPanchayat
		if err := rows.Scan(&p.ID, &p.DistrictID, &p.Name, &p.Slug, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning panchayat row: %w", err)
		}
		panchayats = append(panchayats, p)
	}
	return panchayats, rows.Err()
}
