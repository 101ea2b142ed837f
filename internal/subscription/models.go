package subscription

import "time"

const (
	minRating = 1
	maxRating = 5
)

// Subscription links an athlete to a coach. Rating is optional.
type Subscription struct {
	AthleteID string    `json:"athlete"`
	CoachID   string    `json:"coach"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type Input struct {
	Rating *int `json:"rating"`
}
