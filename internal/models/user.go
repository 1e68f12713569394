package models

// Roles carried in access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleRider = "rider"
)

// User represents a customer or an administrator.
type User struct {
	BaseModel
	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex" json:"email"`
	PasswordHash string  `json:"-"`
	Role         string  `gorm:"index;default:user" json:"role"`
	Orders       []Order `json:"orders,omitempty"`
}
