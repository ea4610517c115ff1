package repositories

import (
	"context"
	"time"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// UserRepository persists staff users and their refresh token state.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiry *time.Time) error
}
