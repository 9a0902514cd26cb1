package user

import "time"

// Roles known to the system. Route protection only checks for a valid
// token; roles are carried in the token for clients.
const (
	RoleAdministrator = "Administrator"
	RoleCustomer      = "Customer"
)

// User is an identity that can log in. The email doubles as the username.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
