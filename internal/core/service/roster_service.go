package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// RosterService implements ports.RosterService.
type RosterService struct {
	voters     ports.VoterRepository
	candidates ports.CandidateRepository
	clubs      ports.ClubRepository
	ballots    ports.BallotRecorder
	results    ports.ResultsService
	receipts   ReceiptCache
	log        zerolog.Logger
}

func NewRosterService(
	voters ports.VoterRepository,
	candidates ports.CandidateRepository,
	clubs ports.ClubRepository,
	ballots ports.BallotRecorder,
	results ports.ResultsService,
	receipts ReceiptCache,
	log zerolog.Logger,
) *RosterService {
	return &RosterService{
		voters:     voters,
		candidates: candidates,
		clubs:      clubs,
		ballots:    ballots,
		results:    results,
		receipts:   receipts,
		log:        log,
	}
}

// --- Voters ---

func (s *RosterService) CreateVoter(ctx context.Context, in ports.CreateVoterInput) (*domain.Voter, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("create voter: %w", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("create voter: %w", domain.ErrInvalidInput)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	voter, err := s.voters.Create(ctx, &domain.Voter{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          role,
		SelectedClubs: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("create voter: %w", err)
	}

	s.log.Info().Str("voter_id", voter.ID).Str("role", voter.Role).Msg("voter registered")
	return voter, nil
}

func (s *RosterService) ListVoters(ctx context.Context) ([]*domain.Voter, error) {
	return s.voters.List(ctx)
}

func (s *RosterService) UpdateVoter(ctx context.Context, id string, update ports.VoterUpdate) (*domain.Voter, error) {
	update.Name = strings.TrimSpace(update.Name)
	update.Email = normalizeEmail(update.Email)
	if update.Role != "" && !domain.IsValidRole(update.Role) {
		return nil, fmt.Errorf("update voter: %w", domain.ErrInvalidInput)
	}

	voter, err := s.voters.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("update voter: %w", err)
	}
	return voter, nil
}

// DeleteVoter removes a voter. A removed ballot leaves its candidate's counter
// one too high, so a reconciliation pass follows.
func (s *RosterService) DeleteVoter(ctx context.Context, id string) error {
	deleted, err := s.voters.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete voter: %w", err)
	}

	if s.receipts != nil {
		if err := s.receipts.Forget(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("voter_id", id).Msg("failed to drop ballot receipt")
		}
	}

	s.log.Info().Str("voter_id", id).Bool("had_voted", deleted.HasVoted).Msg("voter deleted")

	if deleted.HasVoted {
		s.reconcileAfter(ctx, "voter_deleted")
	}
	return nil
}

// --- Candidates ---

func (s *RosterService) CreateCandidate(ctx context.Context, name string) (*domain.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create candidate: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	c, err := s.candidates.Create(ctx, &domain.Candidate{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}

	s.log.Info().Str("candidate_id", c.ID).Str("name", c.Name).Msg("candidate added")
	return c, nil
}

func (s *RosterService) ListCandidates(ctx context.Context) ([]*domain.Candidate, error) {
	return s.candidates.List(ctx)
}

func (s *RosterService) RenameCandidate(ctx context.Context, id, name string) (*domain.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("rename candidate: %w", domain.ErrInvalidInput)
	}
	c, err := s.candidates.Rename(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("rename candidate: %w", err)
	}
	return c, nil
}

// DeleteCandidate refuses to drop a candidate that holds ballots: voted is a
// terminal state, so those ballots could never be re-cast or counted again.
// The ballot check and the delete happen in one store step, so a ballot
// racing the delete either lands first and blocks it or fails on the
// missing candidate.
func (s *RosterService) DeleteCandidate(ctx context.Context, id string) error {
	if err := s.ballots.DeleteUnvotedCandidate(ctx, id); err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}

	s.log.Info().Str("candidate_id", id).Msg("candidate deleted")
	s.reconcileAfter(ctx, "candidate_deleted")
	return nil
}

// --- Clubs ---

func (s *RosterService) CreateClub(ctx context.Context, name string) (*domain.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create club: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	c, err := s.clubs.Create(ctx, &domain.Club{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}

	s.log.Info().Str("club_id", c.ID).Str("name", c.Name).Msg("club added")
	return c, nil
}

func (s *RosterService) ListClubs(ctx context.Context) ([]*domain.Club, error) {
	return s.clubs.List(ctx)
}

func (s *RosterService) RenameClub(ctx context.Context, id, name string) (*domain.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("rename club: %w", domain.ErrInvalidInput)
	}
	c, err := s.clubs.Rename(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("rename club: %w", err)
	}
	return c, nil
}

// DeleteClub removes the club and then every voter's reference to it.
func (s *RosterService) DeleteClub(ctx context.Context, id string) error {
	if err := s.clubs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete club: %w", err)
	}

	pulled, err := s.voters.PullClub(ctx, id)
	if err != nil {
		return fmt.Errorf("delete club: pull memberships: %w", err)
	}

	s.log.Info().Str("club_id", id).Int64("members_removed", pulled).Msg("club deleted")
	return nil
}

// reconcileAfter runs a compensating pass. The mutation itself has already
// committed; a failed pass is left to the background reconciler.
func (s *RosterService) reconcileAfter(ctx context.Context, reason string) {
	if _, err := s.results.Reconcile(ctx); err != nil {
		s.log.Error().Err(err).Str("reason", reason).Msg("post-mutation reconcile failed")
	}
}
