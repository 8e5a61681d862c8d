package model

import "time"

// Role classifies a user for access control. It is advisory for now:
// nothing in the query layer enforces it yet.
type Role string

const (
	// RoleAdmin marks administrative users.
	RoleAdmin Role = "admin"
	// RoleUser is the default role for regular users.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the defined role codes.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Display returns the human-readable label for the role code.
func (r Role) Display() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	default:
		return string(r)
	}
}

// User represents an account holder in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"size:255"`
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"size:10;default:'user'"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	DateJoined   time.Time `json:"date_joined" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName keeps the table name short and plural.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// String renders the user as "username (Label)".
func (u *User) String() string {
	return u.Username + " (" + u.Role.Display() + ")"
}
