package domain

import "time"

// Club membership is derived from Voter.SelectedClubs; clubs hold no member list.
type Club struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
