package domain

import (
	"slices"
	"time"
)

// MaxClubs is the membership cap: no voter may hold more than this many clubs.
const MaxClubs = 2

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Voter is the authoritative per-voter record. Ballot state (HasVoted, VotedFor)
// moves once from NotVoted to Voted and is never reset. SelectedClubs only grows
// through enrollment; administrative club deletion may remove dangling ids.
type Voter struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	HasVoted      bool      `json:"has_voted"`
	VotedFor      string    `json:"voted_for,omitempty"`
	SelectedClubs []string  `json:"selected_clubs"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanVote reports ErrAlreadyVoted once the ballot has been cast.
func (v *Voter) CanVote() error {
	if v.HasVoted {
		return ErrAlreadyVoted
	}
	return nil
}

// NewClubs returns the requested ids the voter does not already hold, in request
// order and without repeats.
func (v *Voter) NewClubs(requested []string) []string {
	out := make([]string, 0, len(requested))
	for _, id := range requested {
		if id == "" || slices.Contains(v.SelectedClubs, id) || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// CheckCapacity rejects an enrollment of added clubs that would push the voter
// past MaxClubs.
func (v *Voter) CheckCapacity(added int) error {
	if len(v.SelectedClubs)+added > MaxClubs {
		return &LimitExceededError{Current: len(v.SelectedClubs), Requested: added, Max: MaxClubs}
	}
	return nil
}

// Consistent reports whether the record satisfies the ballot and membership invariants.
func (v *Voter) Consistent() bool {
	return v.HasVoted == (v.VotedFor != "") && len(v.SelectedClubs) <= MaxClubs
}

// IsValidRole reports whether role is one the system knows about.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStudent
}
