package domain

import (
	"errors"
	"fmt"
)

var (
	ErrVoterNotFound     = errors.New("voter not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrClubNotFound      = errors.New("club not found")

	ErrAlreadyVoted  = errors.New("voter has already voted")
	ErrLimitExceeded = errors.New("club membership limit exceeded")

	// ErrWriteConflict reports a conditional write that lost a race against a
	// concurrent writer of the same record.
	ErrWriteConflict = errors.New("concurrent write conflict")

	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrVoterExists         = errors.New("voter email already exists")
	ErrCandidateExists     = errors.New("candidate name already exists")
	ErrClubExists          = errors.New("club name already exists")
	ErrCandidateHasBallots = errors.New("candidate has recorded ballots")
	ErrForbidden           = errors.New("access forbidden")
)

// LimitExceededError carries the counts behind a rejected enrollment.
type LimitExceededError struct {
	Current   int
	Requested int
	Max       int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: holds %d, requested %d more, max %d", ErrLimitExceeded, e.Current, e.Requested, e.Max)
}

func (e *LimitExceededError) Unwrap() error { return ErrLimitExceeded }
