// Package domain contains core domain types for the prepdesk client.
package domain

// Role is the account role of a signed-in identity.
type Role string

// Roles accepted by the platform. Candidates are called "aspirant" on the wire.
const (
	RoleCandidate Role = "aspirant"
	RoleMentor    Role = "mentor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleMentor
}

// Label returns a human readable name for the role.
func (r Role) Label() string {
	switch r {
	case RoleCandidate:
		return "Candidate"
	case RoleMentor:
		return "Mentor"
	default:
		return string(r)
	}
}

// Identity is the signed-in user as known to the client.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// TokenPair is the result of a successful sign-in.
type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	User         Identity `json:"user"`
}

// Registration is the payload for creating an account.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
