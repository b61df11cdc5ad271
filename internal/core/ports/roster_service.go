package ports

import (
	"context"

	"github.com/campusvote/election-system/internal/core/domain"
)

// CreateVoterInput carries a new roster entry. Role defaults to student.
type CreateVoterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// RosterService is the administrative surface over voters, candidates and clubs.
// Mutations that can desynchronise tallies are followed by a reconciliation pass.
type RosterService interface {
	CreateVoter(ctx context.Context, in CreateVoterInput) (*domain.Voter, error)
	ListVoters(ctx context.Context) ([]*domain.Voter, error)
	UpdateVoter(ctx context.Context, id string, update VoterUpdate) (*domain.Voter, error)
	DeleteVoter(ctx context.Context, id string) error

	CreateCandidate(ctx context.Context, name string) (*domain.Candidate, error)
	ListCandidates(ctx context.Context) ([]*domain.Candidate, error)
	RenameCandidate(ctx context.Context, id, name string) (*domain.Candidate, error)
	DeleteCandidate(ctx context.Context, id string) error

	CreateClub(ctx context.Context, name string) (*domain.Club, error)
	ListClubs(ctx context.Context) ([]*domain.Club, error)
	RenameClub(ctx context.Context, id, name string) (*domain.Club, error)
	DeleteClub(ctx context.Context, id string) error
}
