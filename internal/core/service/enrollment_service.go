package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// EnrollmentService implements ports.EnrollmentService.
type EnrollmentService struct {
	voters ports.VoterRepository
	clubs  ports.ClubRepository
	log    zerolog.Logger
}

func NewEnrollmentService(voters ports.VoterRepository, clubs ports.ClubRepository, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{voters: voters, clubs: clubs, log: log}
}

// JoinClubs adds the requested clubs to the voter's selection, all or nothing.
// Unknown club ids are dropped before the cap is checked; ids already held are
// ignored. The cap is re-validated by the store at write time.
func (s *EnrollmentService) JoinClubs(ctx context.Context, voterID string, clubIDs []string) (*ports.EnrollmentResult, error) {
	if voterID == "" {
		return nil, fmt.Errorf("join clubs: %w", domain.ErrInvalidInput)
	}

	known, err := s.clubs.FindByIDs(ctx, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("join clubs: resolve clubs: %w", err)
	}
	ids := make([]string, 0, len(known))
	names := make(map[string]string, len(known))
	for _, c := range known {
		ids = append(ids, c.ID)
		names[c.ID] = c.Name
	}

	for attempt := 1; ; attempt++ {
		voter, err := s.voters.FindByID(ctx, voterID)
		if err != nil {
			return nil, fmt.Errorf("join clubs: %w", err)
		}

		added := voter.NewClubs(ids)
		if len(added) == 0 {
			return &ports.EnrollmentResult{
				SelectedClubs: slices.Clone(voter.SelectedClubs),
				Joined:        []string{},
				NoNewClubs:    true,
			}, nil
		}

		if err := voter.CheckCapacity(len(added)); err != nil {
			s.log.Info().Str("voter_id", voterID).Strs("club_ids", added).Msg("enrollment rejected, limit exceeded")
			return nil, fmt.Errorf("join clubs: %w", err)
		}

		next := append(slices.Clone(voter.SelectedClubs), added...)
		err = s.voters.ReplaceClubs(ctx, voterID, voter.SelectedClubs, next)
		if errors.Is(err, domain.ErrWriteConflict) && attempt < maxWriteAttempts {
			s.log.Warn().Str("voter_id", voterID).Int("attempt", attempt).Msg("enrollment write conflict, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("join clubs: %w", err)
		}

		added, next, err = s.dropDeletedClubs(ctx, voterID, added, next)
		if err != nil {
			return nil, fmt.Errorf("join clubs: %w", err)
		}

		joined := make([]string, 0, len(added))
		for _, id := range added {
			joined = append(joined, names[id])
		}

		s.log.Info().Str("voter_id", voterID).Strs("club_ids", added).Msg("clubs joined")

		return &ports.EnrollmentResult{SelectedClubs: next, Joined: joined, NoNewClubs: len(added) == 0}, nil
	}
}

// dropDeletedClubs re-resolves the clubs just written. A club deleted after
// it was resolved but before the write committed escaped DeleteClub's pull,
// so it is pulled here instead of holding a membership slot forever.
func (s *EnrollmentService) dropDeletedClubs(ctx context.Context, voterID string, added, next []string) ([]string, []string, error) {
	still, err := s.clubs.FindByIDs(ctx, added)
	if err != nil {
		return nil, nil, fmt.Errorf("re-resolve clubs: %w", err)
	}
	if len(still) == len(added) {
		return added, next, nil
	}

	live := make(map[string]bool, len(still))
	for _, c := range still {
		live[c.ID] = true
	}
	for _, id := range added {
		if live[id] {
			continue
		}
		if _, err := s.voters.PullClub(ctx, id); err != nil {
			return nil, nil, fmt.Errorf("pull deleted club: %w", err)
		}
		s.log.Warn().Str("voter_id", voterID).Str("club_id", id).Msg("club deleted during enrollment, membership dropped")
	}

	keep := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if !slices.Contains(added, id) || live[id] {
				out = append(out, id)
			}
		}
		return out
	}
	return keep(added), keep(next), nil
}
