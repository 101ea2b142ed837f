package challenge

import "time"

const (
	NameTenRuns   = "Make 10 runs!"
	NameFiftyKm   = "Run 50 kilometers!"
	NameFastTwoKm = "2 kilometers in 10 minutes!"
)

type Challenge struct {
	ID        string    `json:"id"`
	AthleteID string    `json:"athlete"`
	RunID     string    `json:"run,omitempty"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// FinishedRun carries the totals of a run that has just been stopped.
type FinishedRun struct {
	RunID          string
	AthleteID      string
	Distance       float64
	RunTimeSeconds int
}

type SummaryAthlete struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

type SummaryEntry struct {
	Name     string           `json:"name_to_display"`
	Athletes []SummaryAthlete `json:"athletes"`
}
