package media

import "github.com/mptourism/paryatan/internal/plugins/auth"

// InitialStatus returns the moderation status a fresh upload starts in.
// Admin uploads are trusted and go live immediately; RTC uploads enter the
// moderation queue.
func InitialStatus(role string) string {
	if role == auth.RoleAdmin {
		return StatusApproved
	}
	return StatusPending
}

// CanTransition reports whether a moderation status change is legal.
// Only pending media can move, and only to approved or rejected. Approved
// and rejected are terminal: a rejected item is resubmitted as a new
// upload, never flipped back.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}
