package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store mirroring the conditional-write semantics of the Mongo repos.
// ---------------------------------------------------------------------------

type memDB struct {
	mu         sync.Mutex
	seq        int
	voters     map[string]*domain.Voter
	candidates map[string]*domain.Candidate
	clubs      map[string]*domain.Club

	// ballotConflicts / clubConflicts make the next N conditional writes lose
	// as if a concurrent writer had touched the record first.
	ballotConflicts int
	clubConflicts   int
	recordCalls     int
	replaceCalls    int
	countErr        error

	// inconsistent collects ids of voters left violating the record
	// invariants by a write.
	inconsistent []string
}

func newMemDB() *memDB {
	return &memDB{
		voters:     make(map[string]*domain.Voter),
		candidates: make(map[string]*domain.Candidate),
		clubs:      make(map[string]*domain.Club),
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s%d", prefix, db.seq)
}

// checkConsistent runs after every conditional write. Callers hold db.mu.
func (db *memDB) checkConsistent(v *domain.Voter) {
	if !v.Consistent() {
		db.inconsistent = append(db.inconsistent, v.ID)
	}
}

// assertConsistent fails t when any write left a voter record inconsistent.
func (db *memDB) assertConsistent(t *testing.T) {
	t.Helper()
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.inconsistent) > 0 {
		t.Errorf("voter records left inconsistent: %v", db.inconsistent)
	}
}

func cloneVoter(v *domain.Voter) *domain.Voter {
	c := *v
	c.SelectedClubs = slices.Clone(v.SelectedClubs)
	if c.SelectedClubs == nil {
		c.SelectedClubs = []string{}
	}
	return &c
}

func cloneCandidate(c *domain.Candidate) *domain.Candidate {
	out := *c
	return &out
}

// seedVoter inserts a student directly, bypassing the service layer.
func (db *memDB) seedVoter(name string, clubs ...string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.nextID("v")
	db.voters[id] = &domain.Voter{ID: id, Name: name, Email: name + "@campus.edu", Role: domain.RoleStudent, SelectedClubs: clubs}
	return id
}

func (db *memDB) seedCandidate(name string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.nextID("c")
	db.candidates[id] = &domain.Candidate{ID: id, Name: name}
	return id
}

func (db *memDB) seedClub(name string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.nextID("k")
	db.clubs[id] = &domain.Club{ID: id, Name: name}
	return id
}

func (db *memDB) voter(id string) *domain.Voter {
	db.mu.Lock()
	defer db.mu.Unlock()
	return cloneVoter(db.voters[id])
}

func (db *memDB) voteCount(id string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.candidates[id].VoteCount
}

func (db *memDB) setVoteCount(id string, n int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.candidates[id].VoteCount = n
}

// --- VoterRepository ---

type stubVoterRepo struct{ db *memDB }

func (r stubVoterRepo) Create(_ context.Context, v *domain.Voter) (*domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.voters {
		if existing.Email == v.Email {
			return nil, domain.ErrVoterExists
		}
	}
	c := cloneVoter(v)
	c.ID = r.db.nextID("v")
	r.db.voters[c.ID] = c
	return cloneVoter(c), nil
}

func (r stubVoterRepo) FindByID(_ context.Context, id string) (*domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.voters[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return cloneVoter(v), nil
}

func (r stubVoterRepo) FindByEmail(_ context.Context, email string) (*domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, v := range r.db.voters {
		if v.Email == email {
			return cloneVoter(v), nil
		}
	}
	return nil, domain.ErrVoterNotFound
}

func (r stubVoterRepo) List(_ context.Context) ([]*domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*domain.Voter, 0, len(r.db.voters))
	for _, v := range r.db.voters {
		out = append(out, cloneVoter(v))
	}
	slices.SortFunc(out, func(a, b *domain.Voter) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r stubVoterRepo) UpdateProfile(_ context.Context, id string, u ports.VoterUpdate) (*domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.voters[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	if u.Name != "" {
		v.Name = u.Name
	}
	if u.Email != "" {
		v.Email = u.Email
	}
	if u.Role != "" {
		v.Role = u.Role
	}
	return cloneVoter(v), nil
}

func (r stubVoterRepo) Delete(_ context.Context, id string) (*domain.Voter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.voters[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	delete(r.db.voters, id)
	return v, nil
}

func (r stubVoterRepo) ReplaceClubs(_ context.Context, id string, expected, next []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.replaceCalls++
	v, ok := r.db.voters[id]
	if !ok {
		return domain.ErrVoterNotFound
	}
	if r.db.clubConflicts > 0 {
		r.db.clubConflicts--
		return domain.ErrWriteConflict
	}
	if !slices.Equal(v.SelectedClubs, expected) || len(next) > domain.MaxClubs {
		return domain.ErrWriteConflict
	}
	v.SelectedClubs = slices.Clone(next)
	r.db.checkConsistent(v)
	return nil
}

func (r stubVoterRepo) PullClub(_ context.Context, clubID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, v := range r.db.voters {
		if i := slices.Index(v.SelectedClubs, clubID); i >= 0 {
			v.SelectedClubs = slices.Delete(v.SelectedClubs, i, i+1)
			n++
		}
	}
	return n, nil
}

func (r stubVoterRepo) CountBallots(_ context.Context) (map[string]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.countErr != nil {
		return nil, r.db.countErr
	}
	out := make(map[string]int64)
	for _, v := range r.db.voters {
		if v.HasVoted {
			out[v.VotedFor]++
		}
	}
	return out, nil
}

func (r stubVoterRepo) CountEligible(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, v := range r.db.voters {
		if v.Role == domain.RoleStudent {
			n++
		}
	}
	return n, nil
}

func (r stubVoterRepo) CountVoted(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, v := range r.db.voters {
		if v.HasVoted {
			n++
		}
	}
	return n, nil
}

// --- CandidateRepository ---

type stubCandidateRepo struct{ db *memDB }

func (r stubCandidateRepo) Create(_ context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.candidates {
		if existing.Name == c.Name {
			return nil, domain.ErrCandidateExists
		}
	}
	out := cloneCandidate(c)
	out.ID = r.db.nextID("c")
	r.db.candidates[out.ID] = out
	return cloneCandidate(out), nil
}

func (r stubCandidateRepo) FindByID(_ context.Context, id string) (*domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	return cloneCandidate(c), nil
}

func (r stubCandidateRepo) List(_ context.Context) ([]*domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*domain.Candidate, 0, len(r.db.candidates))
	for _, c := range r.db.candidates {
		out = append(out, cloneCandidate(c))
	}
	// Deliberately unsorted by votes; callers must not rely on store ordering.
	slices.SortFunc(out, func(a, b *domain.Candidate) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r stubCandidateRepo) Rename(_ context.Context, id, name string) (*domain.Candidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	c.Name = name
	return cloneCandidate(c), nil
}

func (r stubCandidateRepo) SetVoteCounts(_ context.Context, counts map[string]int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var changed int64
	for id, c := range r.db.candidates {
		if n := counts[id]; c.VoteCount != n {
			c.VoteCount = n
			changed++
		}
	}
	return changed, nil
}

// --- BallotRecorder ---

type stubBallots struct{ db *memDB }

func (b stubBallots) RecordBallot(_ context.Context, voterID, candidateID string) (*domain.Candidate, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	b.db.recordCalls++
	v, ok := b.db.voters[voterID]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	if b.db.ballotConflicts > 0 {
		b.db.ballotConflicts--
		return nil, domain.ErrWriteConflict
	}
	if v.HasVoted {
		return nil, domain.ErrAlreadyVoted
	}
	c, ok := b.db.candidates[candidateID]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	v.HasVoted = true
	v.VotedFor = candidateID
	c.VoteCount++
	b.db.checkConsistent(v)
	return cloneCandidate(c), nil
}

func (b stubBallots) DeleteUnvotedCandidate(_ context.Context, candidateID string) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	if _, ok := b.db.candidates[candidateID]; !ok {
		return domain.ErrCandidateNotFound
	}
	for _, v := range b.db.voters {
		if v.HasVoted && v.VotedFor == candidateID {
			return domain.ErrCandidateHasBallots
		}
	}
	delete(b.db.candidates, candidateID)
	return nil
}

// --- ClubRepository ---

type stubClubRepo struct{ db *memDB }

func (r stubClubRepo) Create(_ context.Context, c *domain.Club) (*domain.Club, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.clubs {
		if existing.Name == c.Name {
			return nil, domain.ErrClubExists
		}
	}
	out := *c
	out.ID = r.db.nextID("k")
	r.db.clubs[out.ID] = &out
	cp := out
	return &cp, nil
}

func (r stubClubRepo) List(_ context.Context) ([]*domain.Club, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*domain.Club, 0, len(r.db.clubs))
	for _, c := range r.db.clubs {
		cp := *c
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Club) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r stubClubRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Club, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*domain.Club, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.db.clubs[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r stubClubRepo) Rename(_ context.Context, id, name string) (*domain.Club, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.clubs[id]
	if !ok {
		return nil, domain.ErrClubNotFound
	}
	c.Name = name
	cp := *c
	return &cp, nil
}

func (r stubClubRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.clubs[id]; !ok {
		return domain.ErrClubNotFound
	}
	delete(r.db.clubs, id)
	return nil
}

// --- ReceiptCache ---

type stubReceipts struct {
	mu        sync.Mutex
	seen      map[string]string
	lookupErr error
	markErr   error
}

func newStubReceipts() *stubReceipts {
	return &stubReceipts{seen: make(map[string]string)}
}

func (r *stubReceipts) Lookup(_ context.Context, voterID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	_, ok := r.seen[voterID]
	return ok, nil
}

func (r *stubReceipts) Mark(_ context.Context, voterID, candidateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	r.seen[voterID] = candidateID
	return nil
}

func (r *stubReceipts) Forget(_ context.Context, voterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, voterID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixture struct {
	db         *memDB
	receipts   *stubReceipts
	ballots    *BallotService
	enrollment *EnrollmentService
	results    *ResultsService
	roster     *RosterService
}

func newFixture() *fixture {
	db := newMemDB()
	voters := stubVoterRepo{db}
	candidates := stubCandidateRepo{db}
	clubs := stubClubRepo{db}
	receipts := newStubReceipts()
	results := NewResultsService(voters, candidates, discardLogger)

	return &fixture{
		db:         db,
		receipts:   receipts,
		ballots:    NewBallotService(voters, stubBallots{db}, receipts, discardLogger),
		enrollment: NewEnrollmentService(voters, clubs, discardLogger),
		results:    results,
		roster:     NewRosterService(voters, candidates, clubs, stubBallots{db}, results, receipts, discardLogger),
	}
}
