package models

import "github.com/google/uuid"

// Principal is the authenticated caller of a request.
type Principal struct {
	ID   uuid.UUID
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
func (p Principal) IsRider() bool { return p.Role == RoleRider }
func (p Principal) IsUser() bool  { return p.Role == RoleUser }
