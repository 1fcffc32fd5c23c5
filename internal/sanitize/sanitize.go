// Package sanitize provides HTML sanitization for editor-supplied content.
// Uses bluemonday to strip dangerous HTML (script tags, event handlers,
// javascript: URLs) while preserving the formatting the news editor emits.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for sanitizing editor HTML.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Allow class attributes for text alignment and pull-quote styling
		// produced by the news editor.
		policy.AllowAttrs("class").Globally()

		// Allow table elements for itinerary/schedule tables in news posts.
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "td", "th", "caption")
		policy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	})
	return policy
}

// HTML sanitizes editor-supplied HTML content by stripping dangerous elements
// (script, iframe, event handlers, javascript: URLs) while preserving safe
// formatting tags.
//
// This MUST be called on all admin-provided HTML before storing it in the
// database. RTC accounts are district staff, not trusted publishers.
func HTML(input string) string {
	return getPolicy().Sanitize(input)
}

// Text strips all HTML tags, returning plain text. Used for media
// descriptions and photographer credits, which are plain-text fields.
func Text(input string) string {
	return bluemonday.StrictPolicy().Sanitize(input)
}
