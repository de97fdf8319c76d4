// Package model contains domain models passed between layers.
package model

// Role distinguishes attendees from sponsors (exhibitors).
type Role string

// Known roles.
const (
	RoleAttendee Role = "attendee"
	RoleSponsor  Role = "sponsor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAttendee || r == RoleSponsor
}

// User is the signed-in identity supplied by the auth boundary.
// Points is mutated only by the engagement engine; Tier is derived from it.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      Role     `json:"role"`
	Points    int      `json:"points"`
	Tier      string   `json:"tier"`
	Interests []string `json:"interests,omitempty"`
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	if u.Interests != nil {
		u.Interests = append([]string(nil), u.Interests...)
	}
	return u
}
