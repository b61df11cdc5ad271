package handler

import (
	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

func toCandidateSummaries(cs []*domain.Candidate) []candidateSummary {
	out := make([]candidateSummary, 0, len(cs))
	for _, c := range cs {
		out = append(out, candidateSummary{ID: c.ID, Name: c.Name})
	}
	return out
}

func toResultsResponse(r *ports.ElectionResults) resultsResponse {
	rows := make([]tallyResponse, 0, len(r.Candidates))
	for _, t := range r.Candidates {
		rows = append(rows, tallyResponse{CandidateID: t.CandidateID, Name: t.Name, VoteCount: t.VoteCount})
	}
	return resultsResponse{
		Candidates:    rows,
		TotalEligible: r.TotalEligible,
		TotalVoted:    r.TotalVoted,
	}
}

func toReconcileResponse(r *ports.ReconcileReport) reconcileResponse {
	return reconcileResponse{
		Candidates: r.Candidates,
		Ballots:    r.Ballots,
		Orphaned:   r.Orphaned,
		Adjusted:   r.Adjusted,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
