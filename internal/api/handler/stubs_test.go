package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, email, password, role string) (string, *domain.Voter, error)
	profileFn func(ctx context.Context, voterID string) (*domain.Voter, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, role string) (string, *domain.Voter, error) {
	return s.loginFn(ctx, email, password, role)
}

func (s *stubAuthService) Profile(ctx context.Context, voterID string) (*domain.Voter, error) {
	return s.profileFn(ctx, voterID)
}

func (s *stubAuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Voter, error) {
	return nil, nil
}

type stubBallotService struct {
	castFn func(ctx context.Context, voterID, candidateID string) (*ports.BallotReceipt, error)
}

func (s *stubBallotService) CastVote(ctx context.Context, voterID, candidateID string) (*ports.BallotReceipt, error) {
	return s.castFn(ctx, voterID, candidateID)
}

type stubEnrollmentService struct {
	joinFn func(ctx context.Context, voterID string, clubIDs []string) (*ports.EnrollmentResult, error)
}

func (s *stubEnrollmentService) JoinClubs(ctx context.Context, voterID string, clubIDs []string) (*ports.EnrollmentResult, error) {
	return s.joinFn(ctx, voterID, clubIDs)
}

type stubResultsService struct {
	results *ports.ElectionResults
	err     error
}

func (s *stubResultsService) Reconcile(ctx context.Context) (*ports.ReconcileReport, error) {
	return &ports.ReconcileReport{}, s.err
}

func (s *stubResultsService) GetResults(ctx context.Context) (*ports.ElectionResults, error) {
	return s.results, s.err
}

type stubReconciler struct {
	report *ports.ReconcileReport
	err    error
	calls  int
}

func (s *stubReconciler) RunNow(ctx context.Context) (*ports.ReconcileReport, error) {
	s.calls++
	return s.report, s.err
}

// stubRosterService records the last call; unset fields return zero values.
type stubRosterService struct {
	lastID    string
	lastName  string
	lastInput ports.CreateVoterInput
	lastPatch ports.VoterUpdate
	err       error
	voters    []*domain.Voter
	cands     []*domain.Candidate
	clubs     []*domain.Club
}

func (s *stubRosterService) CreateVoter(ctx context.Context, in ports.CreateVoterInput) (*domain.Voter, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Voter{ID: "v1", Name: in.Name, Email: in.Email, Role: domain.RoleStudent, SelectedClubs: []string{}}, nil
}

func (s *stubRosterService) ListVoters(ctx context.Context) ([]*domain.Voter, error) {
	return s.voters, s.err
}

func (s *stubRosterService) UpdateVoter(ctx context.Context, id string, u ports.VoterUpdate) (*domain.Voter, error) {
	s.lastID, s.lastPatch = id, u
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Voter{ID: id, Name: u.Name}, nil
}

func (s *stubRosterService) DeleteVoter(ctx context.Context, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubRosterService) CreateCandidate(ctx context.Context, name string) (*domain.Candidate, error) {
	s.lastName = name
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Candidate{ID: "c1", Name: name}, nil
}

func (s *stubRosterService) ListCandidates(ctx context.Context) ([]*domain.Candidate, error) {
	return s.cands, s.err
}

func (s *stubRosterService) RenameCandidate(ctx context.Context, id, name string) (*domain.Candidate, error) {
	s.lastID, s.lastName = id, name
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Candidate{ID: id, Name: name}, nil
}

func (s *stubRosterService) DeleteCandidate(ctx context.Context, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubRosterService) CreateClub(ctx context.Context, name string) (*domain.Club, error) {
	s.lastName = name
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Club{ID: "k1", Name: name}, nil
}

func (s *stubRosterService) ListClubs(ctx context.Context) ([]*domain.Club, error) {
	return s.clubs, s.err
}

func (s *stubRosterService) RenameClub(ctx context.Context, id, name string) (*domain.Club, error) {
	s.lastID, s.lastName = id, name
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Club{ID: id, Name: name}, nil
}

func (s *stubRosterService) DeleteClub(ctx context.Context, id string) error {
	s.lastID = id
	return s.err
}

// newCtx builds an echo context for body, optionally carrying the identity
// the Auth middleware would have injected.
func newCtx(method, target, body, voterID, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if voterID != "" {
		c.Set("voter_id", voterID)
	}
	if role != "" {
		c.Set("role", role)
	}
	return c, rec
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

