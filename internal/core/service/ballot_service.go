package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// maxWriteAttempts bounds how often a lost conditional write is re-evaluated
// against fresh state before the conflict is surfaced.
const maxWriteAttempts = 2

// ReceiptCache remembers voters whose ballot already committed (Redis). It is a
// shortcut only: a miss or an error always falls through to the store's
// conditional write, which stays the sole arbiter of exactly-once voting.
type ReceiptCache interface {
	Lookup(ctx context.Context, voterID string) (bool, error)
	Mark(ctx context.Context, voterID, candidateID string) error
	Forget(ctx context.Context, voterID string) error
}

// BallotService implements ports.BallotService.
type BallotService struct {
	voters   ports.VoterRepository
	ballots  ports.BallotRecorder
	receipts ReceiptCache
	log      zerolog.Logger
}

// NewBallotService wires the ballot use case. receipts may be nil.
func NewBallotService(
	voters ports.VoterRepository,
	ballots ports.BallotRecorder,
	receipts ReceiptCache,
	log zerolog.Logger,
) *BallotService {
	return &BallotService{voters: voters, ballots: ballots, receipts: receipts, log: log}
}

// CastVote records voterID's one and only ballot for candidateID.
func (s *BallotService) CastVote(ctx context.Context, voterID, candidateID string) (*ports.BallotReceipt, error) {
	if voterID == "" || candidateID == "" {
		return nil, fmt.Errorf("cast vote: %w", domain.ErrInvalidInput)
	}

	// 1. Receipt shortcut. Voted is terminal, so a hit is always safe to trust.
	if s.receipts != nil {
		seen, err := s.receipts.Lookup(ctx, voterID)
		if err != nil {
			s.log.Warn().Err(err).Str("voter_id", voterID).Msg("receipt lookup failed, using store")
		} else if seen {
			s.log.Debug().Str("voter_id", voterID).Msg("repeat ballot rejected from receipt")
			return nil, fmt.Errorf("cast vote: %w", domain.ErrAlreadyVoted)
		}
	}

	for attempt := 1; ; attempt++ {
		// 2. Re-read the voter on every attempt; a lost race may mean we already voted.
		voter, err := s.voters.FindByID(ctx, voterID)
		if err != nil {
			return nil, fmt.Errorf("cast vote: %w", err)
		}
		if err := voter.CanVote(); err != nil {
			return nil, fmt.Errorf("cast vote: %w", err)
		}

		// 3. Conditional transition plus tally increment, indivisibly.
		candidate, err := s.ballots.RecordBallot(ctx, voterID, candidateID)
		if errors.Is(err, domain.ErrWriteConflict) && attempt < maxWriteAttempts {
			s.log.Warn().Str("voter_id", voterID).Int("attempt", attempt).Msg("ballot write conflict, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cast vote: %w", err)
		}

		if s.receipts != nil {
			if err := s.receipts.Mark(ctx, voterID, candidate.ID); err != nil {
				s.log.Warn().Err(err).Str("voter_id", voterID).Msg("failed to store ballot receipt")
			}
		}

		s.log.Info().
			Str("voter_id", voterID).
			Str("candidate_id", candidate.ID).
			Int64("vote_count", candidate.VoteCount).
			Msg("ballot cast")

		return &ports.BallotReceipt{
			VoterID:       voterID,
			CandidateID:   candidate.ID,
			CandidateName: candidate.Name,
		}, nil
	}
}
