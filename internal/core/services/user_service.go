package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
	"github.com/skolarity/fee_ledger_app/internal/utils"
)

// refreshTokenLifetime is how long a stored refresh token stays valid.
const refreshTokenLifetime = 30 * 24 * time.Hour

type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actorID string) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, apperrors.NewAppError(500, "failed to process password", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	// Self-registration has no prior actor.
	if actorID == "" {
		user.CreatedBy = user.UserID
		user.LastUpdatedBy = user.UserID
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		}
		return nil, err
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Lookup failures and bad
// passwords return the same error so callers cannot probe for usernames.
func (s *userService) Authenticate(ctx context.Context, username string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		s.LogError(ctx, err, "Failed to look up user for authentication")
		return nil, err
	}
	if user.DisabledAt != nil {
		return nil, fmt.Errorf("%w: account disabled", apperrors.ErrForbidden)
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	return user, nil
}

// StoreRefreshToken persists the hash of a freshly issued refresh token,
// replacing any previous one.
func (s *userService) StoreRefreshToken(ctx context.Context, userID string, token string) error {
	hash := utils.HashToken(token)
	expiry := time.Now().UTC().Add(refreshTokenLifetime)
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, &hash, &expiry); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

// ValidateRefreshToken checks a presented refresh token against the stored
// hash and expiry for the user.
func (s *userService) ValidateRefreshToken(ctx context.Context, userID string, token string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrForbidden)
		}
		return nil, err
	}
	if user.DisabledAt != nil {
		return nil, fmt.Errorf("%w: account disabled", apperrors.ErrForbidden)
	}
	if user.RefreshTokenHash == nil || user.RefreshTokenExpiry == nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrForbidden)
	}
	if time.Now().UTC().After(*user.RefreshTokenExpiry) {
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrForbidden)
	}
	if utils.HashToken(token) != *user.RefreshTokenHash {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrForbidden)
	}
	return user, nil
}

// ClearRefreshToken revokes the stored refresh token, logging the user out
// of the refresh flow.
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}
