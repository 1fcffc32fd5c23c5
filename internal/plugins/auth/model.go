// Package auth manages admin accounts, login, and session handling for the
// Paryatan backend. Two roles exist: global administrators ("admin") and
// regional tourism coordinators ("rtc"), who are scoped to a fixed set of
// assigned districts. Sessions are opaque tokens stored in Redis.
package auth

import "time"

// Role constants for admin accounts.
const (
	// RoleAdmin is a global administrator: full access to every district,
	// account provisioning, and content moderation.
	RoleAdmin = "admin"

	// RoleRTC is a regional tourism coordinator: content creation scoped
	// to the districts assigned to the account.
	RoleRTC = "rtc"
)

// Admin represents an admin-panel account.
type Admin struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsDisabled   bool       `json:"is_disabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// AssignedDistrictIDs is the set of districts an RTC may publish to.
	// Always empty for global admins. Loaded from the admin_districts table.
	AssignedDistrictIDs []string `json:"assigned_district_ids"`
}

// Session is the authenticated identity stored in Redis and injected into
// the request context by RequireAuth. Downstream plugins read the role and
// district assignments from here; they never re-query the admins table.
type Session struct {
	AdminID             string    `json:"admin_id"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	AssignedDistrictIDs []string  `json:"assigned_district_ids"`
	CreatedAt           time.Time `json:"created_at"`
}

// LoginInput holds the credentials for a login attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccountInput holds the fields for provisioning a new account.
// Only global admins may provision accounts.
type CreateAccountInput struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Password            string   `json:"password"`
	Role                string   `json:"role"`
	AssignedDistrictIDs []string `json:"assigned_district_ids"`
}
