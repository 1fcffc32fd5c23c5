package news

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mptourism/paryatan/internal/apperror"
)

// NewsRepository defines data access for news articles.
type NewsRepository interface {
	Create(ctx context.Context, a *Article) error
	FindByID(ctx context.Context, id string) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	Update(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, publishedOnly bool, districtID string) ([]Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// mariaDBNewsRepository is the MariaDB implementation of NewsRepository.
type mariaDBNewsRepository struct {
	db *sql.DB
}

// NewNewsRepository creates a MariaDB-backed news repository.
func NewNewsRepository(db *sql.DB) NewsRepository {
	return &mariaDBNewsRepository{db: db}
}

const articleColumns = `id, title, slug, body_html, district_id, is_published,
	published_at, created_by, created_at, updated_at`

// Create inserts a new article.
func (r *mariaDBNewsRepository) Create(ctx context.Context, a *Article) error {
	var districtID any
	if a.DistrictID != "" {
		districtID = a.DistrictID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO news (id, title, slug, body_html, district_id, is_published, published_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Slug, a.BodyHTML, districtID, a.IsPublished, a.PublishedAt, a.CreatedBy)
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}
	return nil
}

// FindByID returns the article or a not-found error.
func (r *mariaDBNewsRepository) FindByID(ctx context.Context, id string) (*Article, error) {
	return r.findBy(ctx, "id", id)
}

// FindBySlug returns the article or a not-found error.
func (r *mariaDBNewsRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	return r.findBy(ctx, "slug", slug)
}

func (r *mariaDBNewsRepository) findBy(ctx context.Context, column, value string) (*Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM news WHERE `+column+` = ?`, value)

	var a Article
	var districtID sql.NullString
	var publishedAt sql.NullTime
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.BodyHTML, &districtID,
		&a.IsPublished, &publishedAt, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("article not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding article by %s: %w", column, err)
	}

	a.DistrictID = districtID.String
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return &a, nil
}

// Update persists the article's editable and publication fields.
func (r *mariaDBNewsRepository) Update(ctx context.Context, a *Article) error {
	var districtID any
	if a.DistrictID != "" {
		districtID = a.DistrictID
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE news SET title = ?, body_html = ?, district_id = ?, is_published = ?, published_at = ?
		WHERE id = ?`,
		a.Title, a.BodyHTML, districtID, a.IsPublished, a.PublishedAt, a.ID)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperror.NewNotFound("article not found")
	}
	return nil
}

// Delete removes the article.
func (r *mariaDBNewsRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperror.NewNotFound("article not found")
	}
	return nil
}

// List returns articles, optionally only published ones and optionally
// scoped to a district. Published articles order by publication date,
// drafts by creation date.
func (r *mariaDBNewsRepository) List(ctx context.Context, publishedOnly bool, districtID string) ([]Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news`
	var conditions []string
	var args []any

	if publishedOnly {
		conditions = append(conditions, "is_published = TRUE")
	}
	if districtID != "" {
		conditions = append(conditions, "district_id = ?")
		args = append(args, districtID)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	if publishedOnly {
		query += " ORDER BY published_at DESC"
	} else {
		query += " ORDER BY created_at DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		var a Article
		var dID sql.NullString
		var publishedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.BodyHTML, &dID,
			&a.IsPublished, &publishedAt, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		a.DistrictID = dID.String
		if publishedAt.Valid {
			a.PublishedAt = &publishedAt.Time
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// SlugExists reports whether a slug is already taken.
func (r *mariaDBNewsRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM news WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return exists, nil
}
