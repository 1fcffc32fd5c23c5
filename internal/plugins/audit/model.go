// Package audit keeps an append-only trail of content actions: who
// uploaded, approved, rejected, or deleted what, and when. Entries are
// written fire-and-forget so a broken trail never blocks the pipeline,
// and read back through an admin-only endpoint.
package audit

import "time"

// Entry is one recorded action.
type Entry struct {
	ID        int64          `json:"id"`
	ActorID   string         `json:"actor_id"`
	Action    string         `json:"action"`
	MediaID   string         `json:"media_id,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListFilter narrows trail listings. Zero values mean "no filter".
type ListFilter struct {
	ActorID string
	MediaID string
	Action  string
	Limit   int
	Offset  int
}
