package domain

import "time"

// Candidate is a presidential candidate. VoteCount is a cache of the number of
// voters whose VotedFor equals ID; Reconcile restores it when it drifts.
type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	VoteCount int64     `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
