package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/core/ports"
)

// ResultsService implements ports.ResultsService. Reconcile is the only code
// path that overwrites candidate counters.
type ResultsService struct {
	voters     ports.VoterRepository
	candidates ports.CandidateRepository
	log        zerolog.Logger
}

func NewResultsService(voters ports.VoterRepository, candidates ports.CandidateRepository, log zerolog.Logger) *ResultsService {
	return &ResultsService{voters: voters, candidates: candidates, log: log}
}

// Reconcile recomputes every candidate's vote count from the voter records and
// overwrites the stored counters. Voters are scanned before counters are
// written, so every ballot committed before the scan is counted; a ballot that
// commits afterwards is picked up by the next pass.
func (s *ResultsService) Reconcile(ctx context.Context) (*ports.ReconcileReport, error) {
	counts, err := s.voters.CountBallots(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: count ballots: %w", err)
	}

	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: list candidates: %w", err)
	}

	report := &ports.ReconcileReport{Candidates: len(candidates)}
	tally := make(map[string]int64, len(candidates))
	for _, c := range candidates {
		n := counts[c.ID]
		tally[c.ID] = n
		report.Ballots += n
	}
	for _, n := range counts {
		report.Orphaned += n
	}
	report.Orphaned -= report.Ballots

	adjusted, err := s.candidates.SetVoteCounts(ctx, tally)
	if err != nil {
		return nil, fmt.Errorf("reconcile: write counts: %w", err)
	}
	report.Adjusted = adjusted

	ev := s.log.Debug()
	if adjusted > 0 || report.Orphaned > 0 {
		ev = s.log.Info()
	}
	ev.Int("candidates", report.Candidates).
		Int64("ballots", report.Ballots).
		Int64("orphaned", report.Orphaned).
		Int64("adjusted", report.Adjusted).
		Msg("tallies reconciled")

	return report, nil
}

// GetResults reconciles, then reads the tallies sorted by vote count.
func (s *ResultsService) GetResults(ctx context.Context) (*ports.ElectionResults, error) {
	if _, err := s.Reconcile(ctx); err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}

	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get results: list candidates: %w", err)
	}
	eligible, err := s.voters.CountEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("get results: count eligible: %w", err)
	}
	voted, err := s.voters.CountVoted(ctx)
	if err != nil {
		return nil, fmt.Errorf("get results: count voted: %w", err)
	}

	rows := make([]ports.CandidateTally, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, ports.CandidateTally{CandidateID: c.ID, Name: c.Name, VoteCount: c.VoteCount})
	}
	slices.SortStableFunc(rows, func(a, b ports.CandidateTally) int {
		if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return &ports.ElectionResults{
		Candidates:    rows,
		TotalEligible: eligible,
		TotalVoted:    voted,
	}, nil
}
