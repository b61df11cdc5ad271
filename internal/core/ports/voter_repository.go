package ports

import (
	"context"

	"github.com/campusvote/election-system/internal/core/domain"
)

// VoterUpdate carries profile changes; empty fields are left untouched.
type VoterUpdate struct {
	Name  string
	Email string
	Role  string
}

// VoterRepository is the Voter Record Store, the single source of truth for
// ballot and enrollment state.
type VoterRepository interface {
	Create(ctx context.Context, v *domain.Voter) (*domain.Voter, error)
	FindByID(ctx context.Context, id string) (*domain.Voter, error)
	FindByEmail(ctx context.Context, email string) (*domain.Voter, error)
	List(ctx context.Context) ([]*domain.Voter, error)
	UpdateProfile(ctx context.Context, id string, update VoterUpdate) (*domain.Voter, error)
	// Delete removes the voter and returns the record as it was.
	Delete(ctx context.Context, id string) (*domain.Voter, error)

	// ReplaceClubs sets selected clubs to next only if the stored list still
	// equals expected and next respects domain.MaxClubs. A mismatch yields
	// domain.ErrWriteConflict.
	ReplaceClubs(ctx context.Context, id string, expected, next []string) error
	// PullClub drops clubID from every voter holding it and reports how many
	// voters changed.
	PullClub(ctx context.Context, clubID string) (int64, error)

	// CountBallots groups voters with a recorded ballot by the candidate they chose.
	CountBallots(ctx context.Context) (map[string]int64, error)
	CountEligible(ctx context.Context) (int64, error)
	CountVoted(ctx context.Context) (int64, error)
}
