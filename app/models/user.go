package models

import "time"

// Role is the role code carried by the edusphere platform.
type Role string

const (
	RoleAdmin    Role = "1100"
	RoleLecturer Role = "1200"
	RoleStudent  Role = "1300"
)

// User is a record in the local user directory. Unlike the wider platform,
// the extension service only needs a single role code per user.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
