package ports

import (
	"context"

	"github.com/campusvote/election-system/internal/core/domain"
)

// CandidateRepository is the Candidate Tally Store.
type CandidateRepository interface {
	Create(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error)
	FindByID(ctx context.Context, id string) (*domain.Candidate, error)
	// List returns candidates ordered by vote count descending, then name.
	List(ctx context.Context) ([]*domain.Candidate, error)
	Rename(ctx context.Context, id, name string) (*domain.Candidate, error)
	// SetVoteCounts overwrites every candidate's counter with counts[id]
	// (zero when absent) and reports how many stored counters changed.
	SetVoteCounts(ctx context.Context, counts map[string]int64) (int64, error)
}

// BallotRecorder applies a ballot as one indivisible step: the voter moves from
// NotVoted to Voted and the chosen candidate's counter is incremented by one,
// or neither happens.
type BallotRecorder interface {
	// RecordBallot returns the candidate after the increment. It fails with
	// domain.ErrAlreadyVoted when the voter's conditional write does not match,
	// domain.ErrVoterNotFound / domain.ErrCandidateNotFound when a record is
	// missing, and domain.ErrWriteConflict when the store aborted the attempt
	// because of a concurrent writer.
	RecordBallot(ctx context.Context, voterID, candidateID string) (*domain.Candidate, error)
	// DeleteUnvotedCandidate removes a candidate only while no voter holds a
	// ballot for it. The check and the delete are atomic with respect to
	// RecordBallot: it fails with domain.ErrCandidateHasBallots, or
	// domain.ErrCandidateNotFound when the candidate is already gone.
	DeleteUnvotedCandidate(ctx context.Context, candidateID string) error
}
