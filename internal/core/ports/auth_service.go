package ports

import (
	"context"

	"github.com/campusvote/election-system/internal/core/domain"
)

type AuthService interface {
	// Login verifies credentials for a voter holding role and returns a signed token.
	Login(ctx context.Context, email, password, role string) (string, *domain.Voter, error)
	Profile(ctx context.Context, voterID string) (*domain.Voter, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Voter, error)
}
