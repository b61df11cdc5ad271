package ports

import "context"

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Candidates int
	// Ballots counts voters with a recorded ballot for an existing candidate.
	Ballots int64
	// Orphaned counts ballots whose candidate no longer exists.
	Orphaned int64
	// Adjusted counts candidates whose stored counter was corrected.
	Adjusted int64
}

// CandidateTally is one row of the results table.
type CandidateTally struct {
	CandidateID string
	Name        string
	VoteCount   int64
}

// ElectionResults is the aggregate view served to observers.
type ElectionResults struct {
	Candidates    []CandidateTally
	TotalEligible int64
	TotalVoted    int64
}

// ResultsService owns the only path allowed to overwrite candidate tallies.
type ResultsService interface {
	Reconcile(ctx context.Context) (*ReconcileReport, error)
	GetResults(ctx context.Context) (*ElectionResults, error)
}
