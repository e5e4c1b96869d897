package model

type Permission string

const PermissionManager Permission = "Manager"

// Profile is a delegated identity resolved by the external identity service.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Group    int    `json:"group"`
}

// Group is a permission group from the external identity service.
type Group struct {
	ID          int          `json:"id"`
	Permissions []Permission `json:"permissions"`
}

func (g *Group) Has(permission Permission) bool {
	for _, p := range g.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
