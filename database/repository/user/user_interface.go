package userRepo

import (
	"washlane/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for account data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID. Returns nil if not found.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address. Returns nil if not found.
	GetByEmail(email string) (*models.User, error)
	// GetAllByRole retrieves all users holding the given role.
	GetAllByRole(role string) ([]models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// UpdateSetDocument patches the given fields on a user record.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// Delete removes a user record by its ID.
	Delete(id string) error
}
