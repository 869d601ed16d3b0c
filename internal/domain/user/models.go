package user

import "strings"

// Principal is the authenticated user identity resolved from a session
// token. It is created and owned by the identity vendor; read-only here.
type Principal struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// DisplayName returns "First Last" trimmed, or "N/A" when both are empty.
func (p *Principal) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return "N/A"
	}
	return name
}

// SignUpParams are the attributes collected at registration and forwarded
// to the identity vendor.
type SignUpParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Session is an identity-vendor session: the opaque secret is what travels
// in the cookie, never the user's credentials.
type Session struct {
	ID     string
	UserID string
	Secret string
}
