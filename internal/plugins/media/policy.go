package media

import (
	"github.com/mptourism/paryatan/internal/plugins/auth"
)

// Machine-readable deny reasons, surfaced as the error type of the
// resulting 403 so clients can tell scoping denials from role denials.
const (
	DenyDistrictNotAssigned = "district_not_assigned"
	DenyRoleNotPermitted    = "role_not_permitted"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool

	// Reason is the deny reason; empty when Allowed.
	Reason string
}

// allow is the affirmative decision.
var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// AuthorizeUpload decides whether an actor may upload media placed in the
// given effective district. The rules are pure; callers resolve geography
// first and pass the effective (explicit or inferred) district.
//
// Global admins may upload anywhere. RTCs may upload unplaced media (it
// still enters the moderation queue), but placing media in a district
// requires that district to be assigned to their account. The caller
// derives the effective district from the panchayat when only a panchayat
// was supplied, so omitting the district field never widens access.
func AuthorizeUpload(actor Actor, effectiveDistrictID string) Decision {
	switch actor.Role {
	case auth.RoleAdmin:
		return allow
	case auth.RoleRTC:
		if effectiveDistrictID == "" {
			return allow
		}
		for _, id := range actor.AssignedDistrictIDs {
			if id == effectiveDistrictID {
				return allow
			}
		}
		return deny(DenyDistrictNotAssigned)
	default:
		return deny(DenyRoleNotPermitted)
	}
}

// AuthorizeModeration decides whether an actor may approve, reject, or
// delete media. Moderation is a global-admin power; RTC submissions always
// pass through someone else's review.
func AuthorizeModeration(actor Actor) Decision {
	if actor.Role == auth.RoleAdmin {
		return allow
	}
	return deny(DenyRoleNotPermitted)
}
