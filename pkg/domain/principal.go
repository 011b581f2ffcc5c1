package domain

// Principal is the authenticated caller for one request. It is reconstructed
// per request from a bearer token or from gateway trust headers and is never
// persisted.
type Principal struct {
	ID    string
	Email string
	Roles []Role
}

// HasRole reports whether the principal carries the role.
func (p Principal) HasRole(r Role) bool {
	return HasRole(p.Roles, r)
}

// HasAnyRole reports whether the principal carries at least one of the roles.
func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// IsZero reports whether no principal was established for the request.
func (p Principal) IsZero() bool {
	return p.ID == "" && p.Email == ""
}
