package model

// Principal is the acting user, extracted from the access token and
// threaded explicitly through every service call.
type Principal struct {
	UserID uint
	Name   string
	Role   string
}

func (p Principal) IsCS() bool {
	return p.Role == RoleCS
}

func (p Principal) IsTSO() bool {
	return p.Role == RoleTSO
}

func (p Principal) IsNOC() bool {
	return p.Role == RoleNOC
}
