package handler

import "github.com/campusvote/election-system/internal/core/domain"

// --- Requests ---

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type voteRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
}

type joinClubsRequest struct {
	ClubIDs []string `json:"club_ids" validate:"required,min=1"`
}

type createVoterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=student admin"`
}

type updateVoterRequest struct {
	Name  string `json:"name" validate:"omitempty,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=student admin"`
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// --- Responses ---

type loginResponse struct {
	Token string        `json:"token"`
	Voter *domain.Voter `json:"voter"`
}

type voteResponse struct {
	Message       string `json:"message"`
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
}

type joinClubsResponse struct {
	Message       string   `json:"message"`
	Joined        []string `json:"joined"`
	SelectedClubs []string `json:"selected_clubs"`
	NoChange      bool     `json:"no_change"`
}

// candidateSummary is the student view of a candidate; running tallies are
// only exposed through the results endpoints.
type candidateSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tallyResponse struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   int64  `json:"vote_count"`
}

type resultsResponse struct {
	Candidates    []tallyResponse `json:"candidates"`
	TotalEligible int64           `json:"total_eligible"`
	TotalVoted    int64           `json:"total_voted"`
}

type reconcileResponse struct {
	Candidates int   `json:"candidates"`
	Ballots    int64 `json:"ballots"`
	Orphaned   int64 `json:"orphaned"`
	Adjusted   int64 `json:"adjusted"`
}
