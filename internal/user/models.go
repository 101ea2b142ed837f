package user

import (
	"time"

	"backend-runclub/internal/auth"
	"backend-runclub/internal/collectible"
)

// Summary is a user as it appears in listings. Rating is the mean of the
// ratings a coach received and stays nil for athletes and unrated coaches.
type Summary struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         auth.Role `json:"type"`
	DateJoined   time.Time `json:"date_joined"`
	RunsFinished int       `json:"runs_finished"`
	Rating       *float64  `json:"rating"`
}

// Detail is the single-user view. Its concrete type depends on the role:
// *AthleteDetail or *CoachDetail.
type Detail interface {
	Base() Summary
	detail()
}

type AthleteDetail struct {
	Summary
	Coaches []string           `json:"coach"`
	Items   []collectible.Item `json:"items"`
}

func (d *AthleteDetail) Base() Summary { return d.Summary }
func (*AthleteDetail) detail()         {}

type CoachDetail struct {
	Summary
	Athletes []string `json:"athletes"`
}

func (d *CoachDetail) Base() Summary { return d.Summary }
func (*CoachDetail) detail()         {}
