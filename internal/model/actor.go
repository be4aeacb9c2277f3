package model

// Actor is the authenticated caller as described by the token claims.
// A zero Actor is an anonymous caller.
type Actor struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsAnonymous() bool {
	return a.UserID == ""
}
