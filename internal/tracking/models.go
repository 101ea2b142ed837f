package tracking

import (
	"time"

	"backend-runclub/internal/shared/geo"
)

type Status string

const (
	StatusInit       Status = "init"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusInit, StatusInProgress, StatusFinished:
		return Status(s), true
	}
	return "", false
}

// Run is one exercise session. Distance (km), RunTimeSeconds and Speed (m/s)
// are only meaningful once the run is finished.
type Run struct {
	ID             string    `json:"id"`
	AthleteID      string    `json:"athlete"`
	Comment        string    `json:"comment"`
	Status         Status    `json:"status"`
	Distance       float64   `json:"distance"`
	RunTimeSeconds int       `json:"run_time_seconds"`
	Speed          float64   `json:"speed"`
	CreatedAt      time.Time `json:"created_at"`
}

type RunInput struct {
	Comment string `json:"comment"`
}

type RunFilter struct {
	Status    string
	AthleteID string
}

// Position is a GPS sample. Distance is the leg from the previous position
// of the same run in km; Speed is the speed over that leg in m/s.
type Position struct {
	ID        int64      `json:"id"`
	RunID     string     `json:"run"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	DateTime  *time.Time `json:"date_time"`
	Distance  float64    `json:"distance"`
	Speed     float64    `json:"speed"`
	CreatedAt time.Time  `json:"created_at"`
}

func (p Position) Point() geo.Point {
	return geo.Point{Lat: p.Latitude, Lng: p.Longitude}
}

type PositionInput struct {
	RunID     string   `json:"run"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	DateTime  string   `json:"date_time"`
}

// Totals are the figures written to a run when it finishes.
type Totals struct {
	Distance       float64
	RunTimeSeconds int
	Speed          float64
}
