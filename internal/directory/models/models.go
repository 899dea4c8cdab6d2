// Package models defines the directory aggregates: routing recipients and
// user accounts.
package models

import "time"

// Role determines what a user can do. Admins configure recipients, forms,
// links and users but never send or receive; secretaries send and receive
// across all divisions; users only within their own division.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
	RoleUser      Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleUser:
		return true
	}
	return false
}

// The built-in "User" recipient represents any internal person as a routing
// target. It is asserted by the seed step and can never be deleted; the form
// linked to it governs all person-to-person traffic.
const (
	UserRecipientID   = "default-user-recipient"
	UserRecipientName = "User"
)

// Recipient is a named routing target: a division, or the built-in "User"
// entry. Names are not required to be unique; ids are.
type Recipient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsProtected reports whether this recipient is the built-in "User" entry.
func (r Recipient) IsProtected() bool {
	return r.ID == UserRecipientID
}

// RecipientPatch carries partial updates; nil fields are left unchanged.
type RecipientPatch struct {
	Name *string `json:"name"`
}

// User is an account that can sign in. A non-admin user always belongs to a
// division.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	Division  string    `json:"division"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserPatch carries partial updates; nil fields are left unchanged.
// An empty password is treated as "keep the current password".
type UserPatch struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	Division *string `json:"division"`
	Name     *string `json:"name"`
}
