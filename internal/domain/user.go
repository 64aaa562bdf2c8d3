package domain

import "time"

// Role enumerates dispatch-side roles.
type Role string

const (
	RoleDispatcher Role = "dispatcher"
	RoleMaster     Role = "master"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleDispatcher || r == RoleMaster
}

// User models a dispatcher or field technician account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the identity+role pair every engine call runs as.
type Actor struct {
	ID   int64
	Role Role
}

// Actor derives the acting identity of a user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
