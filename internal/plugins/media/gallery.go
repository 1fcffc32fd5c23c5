package media

import (
	"context"
	"database/sql"
	"fmt"
)

// GalleryManager keeps panchayat gallery membership consistent with
// moderation status: a panchayat's gallery holds exactly its non-rejected
// media. Link and Unlink are idempotent so the ingest pipeline can call
// them without read-modify-write cycles.
type GalleryManager interface {
	Link(ctx context.Context, panchayatID, mediaID string) error
	Unlink(ctx context.Context, panchayatID, mediaID string) error
	ListMediaIDs(ctx context.Context, panchayatID string) ([]string, error)
}

// galleryManager is the MariaDB implementation, backed by the
// panchayat_gallery join table.
type galleryManager struct {
	db *sql.DB
}

// NewGalleryManager creates a gallery manager on the given database.
func NewGalleryManager(db *sql.DB) GalleryManager {
	return &galleryManager{db: db}
}

// Link adds the media to the panchayat's gallery. The composite primary
// key plus INSERT IGNORE makes this an atomic, idempotent set-add; two
// concurrent links of the same pair converge on a single row.
func (g *galleryManager) Link(ctx context.Context, panchayatID, mediaID string) error {
	_, err := g.db.ExecContext(ctx,
		`INSERT IGNORE INTO panchayat_gallery (panchayat_id, media_id) VALUES (?, ?)`,
		panchayatID, mediaID)
	if err != nil {
		return fmt.Errorf("linking media %s to panchayat %s: %w", mediaID, panchayatID, err)
	}
	return nil
}

// Unlink removes the media from the panchayat's gallery. Removing an
// absent pair is a no-op.
func (g *galleryManager) Unlink(ctx context.Context, panchayatID, mediaID string) error {
	_, err := g.db.ExecContext(ctx,
		`DELETE FROM panchayat_gallery WHERE panchayat_id = ? AND media_id = ?`,
		panchayatID, mediaID)
	if err != nil {
		return fmt.Errorf("unlinking media %s from panchayat %s: %w", mediaID, panchayatID, err)
	}
	return nil
}

// ListMediaIDs returns the media ids in a panchayat's gallery, newest
// first.
func (g *galleryManager) ListMediaIDs(ctx context.Context, panchayatID string) ([]string, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT media_id FROM panchayat_gallery WHERE panchayat_id = ? ORDER BY created_at DESC`,
		panchayatID)
	if err != nil {
		return nil, fmt.Errorf("listing gallery for panchayat %s: %w", panchayatID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning gallery row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
