package media

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mptourism/paryatan/internal/apperror"
)

// MediaRepository defines data access for media records.
type MediaRepository interface {
	Create(ctx context.Context, m *Media) error
	FindByID(ctx context.Context, id string) (*Media, error)

	// UpdateStatus moves the moderation status from one value to another.
	// Returns a conflict error when the stored status no longer matches
	// from, so racing moderators cannot overwrite a terminal state.
	UpdateStatus(ctx context.Context, id, from, to string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Media, error)
	ListByPanchayatGallery(ctx context.Context, panchayatID string) ([]Media, error)
}

// mariaDBMediaRepository is the MariaDB implementation of MediaRepository.
type mariaDBMediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a MariaDB-backed media repository.
func NewMediaRepository(db *sql.DB) MediaRepository {
	return &mariaDBMediaRepository{db: db}
}

const mediaColumns = `id, title, description, file_url, thumbnail_url, storage_key,
	file_type, category, tags, district_id, panchayat_id, status,
	photographer, capture_date, uploaded_by, created_at, updated_at`

// Create inserts a new media record.
func (r *mariaDBMediaRepository) Create(ctx context.Context, m *Media) error {
	tags, err := json.Marshal(m.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO media (id, title, description, file_url, thumbnail_url,
			storage_key, file_type, category, tags, district_id, panchayat_id,
			status, photographer, capture_date, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Description, m.FileURL, m.ThumbnailURL,
		m.StorageKey, m.FileType, m.Category, string(tags),
		nullable(m.DistrictID), nullable(m.PanchayatID),
		m.Status, m.Photographer, m.CaptureDate, m.UploadedBy)
	if err != nil {
		return fmt.Errorf("inserting media: %w", err)
	}
	return nil
}

// FindByID returns the media record or a not-found error.
func (r *mariaDBMediaRepository) FindByID(ctx context.Context, id string) (*Media, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)

	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("media not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding media %s: %w", id, err)
	}
	return m, nil
}

// UpdateStatus sets the moderation status. The WHERE clause on the old
// status makes the update the compare-and-swap: when two moderators race
// on the same item, the second one matches zero rows and gets a conflict
// instead of silently reviving a terminal state.
func (r *mariaDBMediaRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE media SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return fmt.Errorf("updating media status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperror.NewConflict("the media was moderated by someone else; reload and retry")
	}
	return nil
}

// Delete removes the media record. Gallery rows cascade.
func (r *mariaDBMediaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperror.NewNotFound("media not found")
	}
	return nil
}

// List returns media matching the filter, newest first.
func (r *mariaDBMediaRepository) List(ctx context.Context, filter ListFilter) ([]Media, error) {
	var conditions []string
	var args []any

	if filter.DistrictID != "" {
		conditions = append(conditions, "district_id = ?")
		args = append(args, filter.DistrictID)
	}
	if len(filter.DistrictIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.DistrictIDs)), ", ")
		conditions = append(conditions, "district_id IN ("+placeholders+")")
		for _, id := range filter.DistrictIDs {
			args = append(args, id)
		}
	}
	if filter.PanchayatID != "" {
		conditions = append(conditions, "panchayat_id = ?")
		args = append(args, filter.PanchayatID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}

	query := `SELECT ` + mediaColumns + ` FROM media`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, max(filter.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	defer rows.Close()

	return collectMedia(rows)
}

// ListByPanchayatGallery returns the media in a panchayat's gallery,
// newest gallery entries first.
func (r *mariaDBMediaRepository) ListByPanchayatGallery(ctx context.Context, panchayatID string) ([]Media, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+prefixColumns(mediaColumns, "m.")+`
		FROM media m
		JOIN panchayat_gallery g ON g.media_id = m.id
		WHERE g.panchayat_id = ?
		ORDER BY g.created_at DESC`, panchayatID)
	if err != nil {
		return nil, fmt.Errorf("listing gallery media for panchayat %s: %w", panchayatID, err)
	}
	defer rows.Close()

	return collectMedia(rows)
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedia(row rowScanner) (*Media, error) {
	var m Media
	var tags string
	var districtID, panchayatID sql.NullString
	var captureDate sql.NullTime

	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.FileURL, &m.ThumbnailURL,
		&m.StorageKey, &m.FileType, &m.Category, &tags,
		&districtID, &panchayatID, &m.Status,
		&m.Photographer, &captureDate, &m.UploadedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags for media %s: %w", m.ID, err)
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	m.DistrictID = districtID.String
	m.PanchayatID = panchayatID.String
	if captureDate.Valid {
		m.CaptureDate = &captureDate.Time
	}
	return &m, nil
}

func collectMedia(rows *sql.Rows) ([]Media, error) {
	media := []Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning media row: %w", err)
		}
		media = append(media, *m)
	}
	return media, rows.Err()
}

// nullable maps empty strings to SQL NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias for use in joins.
func prefixColumns(columns, prefix string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
