// Package news manages announcements and event write-ups published on the
// tourism portal. Articles are drafted by panel users, optionally tied to
// a district, and only visible publicly once published.
package news

import "time"

// Article is a news post.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	BodyHTML    string     `json:"body_html"`
	DistrictID  string     `json:"district_id,omitempty"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateArticleInput holds the fields for drafting an article.
type CreateArticleInput struct {
	Title      string `json:"title"`
	BodyHTML   string `json:"body_html"`
	DistrictID string `json:"district_id"`
}

// UpdateArticleInput holds the editable fields of a draft.
type UpdateArticleInput struct {
	Title      string `json:"title"`
	BodyHTML   string `json:"body_html"`
	DistrictID string `json:"district_id"`
}
