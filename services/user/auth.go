package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"washlane/models"
	"washlane/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// tokenDuration is how long an issued session token stays valid.
const tokenDuration = 72 * time.Hour

// Register creates a new account and signs it in.
func (s *DefaultUserService) Register(req RegisterRequest) (*models.User, string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, "", NewValidationError("name and email are required")
	}
	if !models.ValidRole(req.Role) {
		return nil, "", NewValidationError("unknown role %q", req.Role)
	}
	if len(req.Password) < 8 {
		return nil, "", NewValidationError("password must be at least 8 characters")
	}

	existing, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", NewValidationError("email %s is already registered", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate verifies credentials and issues a fresh session token,
// invalidating any previously issued one.
func (s *DefaultUserService) Authenticate(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// issueToken signs a JWT for the account, persists its hash for revocation
// checks, and warms the auth cache.
func (s *DefaultUserService) issueToken(u *models.User) (string, error) {
	token, err := utils.GenerateToken(u.ID, u.Role, tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	hash := utils.HashToken(token)
	u.TokenHash = hash
	if err := s.Repo.UpdateSetDocument(u.ID, map[string]any{"tokenHash": hash}); err != nil {
		return "", fmt.Errorf("failed to persist token hash: %w", err)
	}

	cacheKey := utils.AuthCachePrefix + u.ID
	if err := utils.GetAuthCacheClient().Set(context.Background(), cacheKey, hash, utils.AuthCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to warm auth cache", zap.String("userID", u.ID), zap.Error(err))
	}
	return token, nil
}

// RevokeAuthToken logs the account out everywhere: clears the stored token
// hash and the auth cache entry.
func (s *DefaultUserService) RevokeAuthToken(userID string) error {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return NewValidationError("user %s not found", userID)
	}

	if err := s.Repo.UpdateSetDocument(userID, map[string]any{"tokenHash": ""}); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	cacheKey := utils.AuthCachePrefix + userID
	if err := utils.GetAuthCacheClient().Del(context.Background(), cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("failed to clear auth cache on logout", zap.String("userID", userID), zap.Error(err))
	}
	return nil
}
