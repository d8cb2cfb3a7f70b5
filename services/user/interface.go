package user

import (
	userRepo "washlane/database/repository/user"
	"washlane/models"
)

// RegisterRequest carries a validated account registration.
type RegisterRequest struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
}

// UserService defines account management operations.
type UserService interface {
	Register(req RegisterRequest) (*models.User, string, error)
	Authenticate(email, password string) (*models.User, string, error)
	GetUserByID(id string) (*models.User, error)
	ListAttendants() ([]models.User, error)
	RevokeAuthToken(userID string) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
