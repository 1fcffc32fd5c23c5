// Package media implements the upload and moderation pipeline for tourism
// photos and videos. Media enters via admin-panel uploads (file or external
// URL), is placed in the district/panchayat geography, moderated through a
// pending/approved/rejected lifecycle, and surfaces on public endpoints
// once approved.
package media

import (
	"path"
	"strings"
	"time"

	"github.com/mptourism/paryatan/internal/plugins/geo"
)

// File type constants. The type is always derived server-side from the
// upload, never accepted from the client.
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
)

// Category constants for the fixed tourism taxonomy.
const (
	CategoryHeritage = "heritage"
	CategoryNatural  = "natural"
	CategoryCultural = "cultural"
	CategoryEvent    = "event"
	CategoryFestival = "festival"
)

// validCategories is the closed category set uploads are checked against.
var validCategories = map[string]bool{
	CategoryHeritage: true,
	CategoryNatural:  true,
	CategoryCultural: true,
	CategoryEvent:    true,
	CategoryFestival: true,
}

// Moderation status constants. The only legal transitions are
// pending -> approved and pending -> rejected; both are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Upload method constants.
const (
	UploadMethodFile = "file"
	UploadMethodURL  = "url"
)

// Media is a photo or video in the tourism library.
type Media struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	FileURL      string     `json:"file_url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	FileType     string     `json:"file_type"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	DistrictID   string     `json:"district_id,omitempty"`
	PanchayatID  string     `json:"panchayat_id,omitempty"`
	Status       string     `json:"status"`
	Photographer string     `json:"photographer,omitempty"`
	CaptureDate  *time.Time `json:"capture_date,omitempty"`
	UploadedBy   string     `json:"uploaded_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// StorageKey is the object key in the blob store. Empty for external
	// links. Never exposed to clients.
	StorageKey string `json:"-"`
}

// Response is a media record with its geography resolved to compact
// summaries for API clients.
type Response struct {
	Media
	District  *geo.Summary `json:"district,omitempty"`
	Panchayat *geo.Summary `json:"panchayat,omitempty"`
}

// Actor is the authenticated identity performing a media operation,
// projected from the session.
type Actor struct {
	ID                  string
	Role                string
	AssignedDistrictIDs []string
}

// UploadRequest carries the raw, untrusted fields of an upload submission
// as parsed from the multipart form. Validation turns it into something
// the pipeline trusts.
type UploadRequest struct {
	Title        string
	Description  string
	Category     string
	Tags         string
	DistrictID   string
	PanchayatID  string
	Photographer string
	CaptureDate  string
	UploadMethod string

	// File upload fields (upload_method=file).
	FileName  string
	MimeType  string
	FileBytes []byte

	// External link field (upload_method=url).
	FileURL string
}

// ListFilter narrows media listings. Zero values mean "no filter".
type ListFilter struct {
	DistrictID  string
	PanchayatID string
	Status      string
	Category    string
	Limit       int
	Offset      int

	// DistrictIDs restricts results to a district set. Set internally for
	// RTC scoping; never bound from client input.
	DistrictIDs []string
}

// ParseTags splits a comma-separated tag string into a normalized slice:
// trimmed, lowercased, empties dropped, duplicates removed, order kept.
func ParseTags(raw string) []string {
	tags := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// videoExtensions are the URL extensions treated as video when classifying
// link-only media. Anything else defaults to image.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mpeg": true,
	".mpg":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
}

// fileTypeFromMime classifies a sniffed MIME type as image or video.
func fileTypeFromMime(mimeType string) string {
	if strings.HasPrefix(mimeType, "video/") {
		return FileTypeVideo
	}
	return FileTypeImage
}

// fileTypeFromURL classifies an external URL by its path extension. URLs
// without a recognizable video extension are treated as images; the
// moderation queue is the backstop for misclassified links.
func fileTypeFromURL(rawURL string) string {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := strings.ToLower(path.Ext(trimmed))
	if videoExtensions[ext] {
		return FileTypeVideo
	}
	return FileTypeImage
}
