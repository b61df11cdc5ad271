package ports

import "context"

// EnrollmentResult is the authoritative state after a JoinClubs call.
type EnrollmentResult struct {
	// SelectedClubs is the voter's full club list after the call.
	SelectedClubs []string
	// Joined holds the names of the clubs added by this call, in request order.
	Joined []string
	// NoNewClubs is true when every known requested club was already held.
	NoNewClubs bool
}

// EnrollmentService enforces the club membership cap.
type EnrollmentService interface {
	JoinClubs(ctx context.Context, voterID string, clubIDs []string) (*EnrollmentResult, error)
}
