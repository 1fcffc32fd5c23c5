// Package geo maintains the administrative geography the tourism content
// hangs off: districts and the gram panchayats inside them. Other plugins
// treat it as a read-mostly registry; district and panchayat records change
// rarely and only through admin endpoints.
package geo

import "time"

// District is a top-level administrative region.
type District struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// GramPanchayat is a village-level body belonging to exactly one district.
// The owning district never changes after creation.
type GramPanchayat struct {
	ID          string    `json:"id"`
	DistrictID  string    `json:"district_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is the compact form other plugins embed in their responses.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Summary returns the district's compact form.
func (d *District) Summary() *Summary {
	return &Summary{ID: d.ID, Name: d.Name, Slug: d.Slug}
}

// Summary returns the panchayat's compact form.
func (p *GramPanchayat) Summary() *Summary {
	return &Summary{ID: p.ID, Name: p.Name, Slug: p.Slug}
}

// Placement is the resolved geography of a piece of content. When only a
// panchayat was supplied, EffectiveDistrictID carries the district inferred
// from it; geographic scoping always uses the effective district, so
// omitting the district field never widens access.
type Placement struct {
	District  *District
	Panchayat *GramPanchayat

	// EffectiveDistrictID is the explicit or inferred district id, empty
	// when the content is tied to no geography at all.
	EffectiveDistrictID string
}

// CreateDistrictInput holds the fields for registering a district.
type CreateDistrictInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePanchayatInput holds the fields for registering a gram panchayat.
type CreatePanchayatInput struct {
	DistrictID  string `json:"district_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
