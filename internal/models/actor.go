package models

// Role is the platform role of the acting user, supplied by the identity provider.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// Actor is the authenticated identity on whose behalf an operation runs.
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanSell reports whether the actor may list products.
func (a Actor) CanSell() bool { return a.Role == RoleSeller || a.Role == RoleAdmin }
