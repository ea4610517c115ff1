package services

import (
	"context"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

// UserSvcFacade manages staff users.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actorID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	// Authenticate verifies credentials and returns the user on success.
	Authenticate(ctx context.Context, username string, password string) (*domain.User, error)
	StoreRefreshToken(ctx context.Context, userID string, token string) error
	ValidateRefreshToken(ctx context.Context, userID string, token string) (*domain.User, error)
	ClearRefreshToken(ctx context.Context, userID string) error
}

// TokenSvcFacade issues and refreshes token pairs for the API layer.
type TokenSvcFacade interface {
	GenerateTokenPair(ctx context.Context, user *domain.User) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}
