package services

import (
	"context"
	"fmt"
	"time"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
	"github.com/skolarity/fee_ledger_app/internal/utils"
)

type tokenService struct {
	BaseService
	userSvc        portssvc.UserSvcFacade
	jwtSecret      string
	accessLifetime time.Duration
}

// NewTokenService creates a token service issuing JWT access tokens and
// rotating opaque refresh tokens.
func NewTokenService(userSvc portssvc.UserSvcFacade, jwtSecret string, accessLifetime time.Duration) portssvc.TokenSvcFacade {
	return &tokenService{
		userSvc:        userSvc,
		jwtSecret:      jwtSecret,
		accessLifetime: accessLifetime,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateTokenPair issues a fresh access/refresh pair for an
// authenticated user and stores the refresh token hash.
func (s *tokenService) GenerateTokenPair(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(s.jwtSecret, user.UserID, s.accessLifetime)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return nil, apperrors.NewAppError(500, "failed to issue access token", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate refresh token")
		return nil, apperrors.NewAppError(500, "failed to issue refresh token", err)
	}

	if err := s.userSvc.StoreRefreshToken(ctx, user.UserID, refreshToken); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessLifetime.Seconds()),
		User:         dto.ToUserResponse(user),
	}, nil
}

// Refresh validates a refresh token and rotates the pair. The presented
// token is single use; a new refresh token replaces it.
func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	userID, ok := utils.SplitRefreshToken(refreshToken)
	if !ok {
		return nil, fmt.Errorf("%w: malformed refresh token", apperrors.ErrForbidden)
	}

	user, err := s.userSvc.ValidateRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		return nil, err
	}

	return s.GenerateTokenPair(ctx, user)
}
