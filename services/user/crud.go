package user

import (
	"fmt"

	"washlane/models"
)

// GetUserByID retrieves an account by id.
func (s *DefaultUserService) GetUserByID(id string) (*models.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, NewValidationError("user %s not found", id)
	}
	return u, nil
}

// ListAttendants retrieves every attendant account.
func (s *DefaultUserService) ListAttendants() ([]models.User, error) {
	return s.Repo.GetAllByRole(models.RoleAttendant)
}
