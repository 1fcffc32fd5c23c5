package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// AuditRepository defines data access for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
}

// mariaDBAuditRepository is the MariaDB implementation of AuditRepository.
type mariaDBAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a MariaDB-backed audit repository.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &mariaDBAuditRepository{db: db}
}

// Insert appends one entry to the trail.
func (r *mariaDBAuditRepository) Insert(ctx context.Context, e *Entry) error {
	detail := "{}"
	if len(e.Detail) > 0 {
		encoded, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("encoding audit detail: %w", err)
		}
		detail = string(encoded)
	}

	var mediaID any
	if e.MediaID != "" {
		mediaID = e.MediaID
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (actor_id, action, media_id, detail) VALUES (?, ?, ?, ?)`,
		e.ActorID, e.Action, mediaID, detail)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// List returns trail entries matching the filter, newest first.
func (r *mariaDBAuditRepository) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	var conditions []string
	var args []any

	if filter.ActorID != "" {
		conditions = append(conditions, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.MediaID != "" {
		conditions = append(conditions, "media_id = ?")
		args = append(args, filter.MediaID)
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}

	query := `SELECT id, actor_id, action, media_id, detail, created_at FROM audit_log`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ? OFFSET ?"

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	args = append(args, limit, max(filter.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var mediaID sql.NullString
		var detail string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &mediaID, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		e.MediaID = mediaID.String
		if err := json.Unmarshal([]byte(detail), &e.Detail); err != nil {
			return nil, fmt.Errorf("decoding audit detail for entry %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
