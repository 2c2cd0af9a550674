package domain

// Team is owned by the external team service; only the fields the
// reservation flow needs are mirrored here.
type Team struct {
	ID            int64
	Name          string
	CaptainUserID int64
	RosterSize    int
}

// Role of the authenticated caller
type Role string

const (
	RoleCaptain Role = "captain"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role value
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCaptain, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}
