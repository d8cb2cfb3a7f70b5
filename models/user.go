package models

import "time"

// Roles recognized by the auth layer.
const (
	RoleAdmin     = "admin"
	RoleAttendant = "attendant"
)

// User represents a staff account: an admin or a wash attendant.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PhoneNumber  string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	// TokenHash holds the SHA-256 of the currently issued session token.
	// Cleared on logout; mirrored in the Redis auth cache.
	TokenHash string    `bson:"tokenHash,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidRole reports whether role is a known account role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAttendant
}
