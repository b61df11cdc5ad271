package ports

import "context"

// BallotReceipt confirms a cast ballot.
type BallotReceipt struct {
	VoterID       string
	CandidateID   string
	CandidateName string
}

// BallotService casts presidential ballots exactly once per voter.
type BallotService interface {
	CastVote(ctx context.Context, voterID, candidateID string) (*BallotReceipt, error)
}
