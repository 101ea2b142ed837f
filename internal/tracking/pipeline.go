package tracking

import (
	"strings"
	"time"

	"backend-runclub/internal/shared/apperr"
	"backend-runclub/internal/shared/geo"
)

const coordinatePlaces = 4

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseDateTime accepts RFC 3339 and zone-less ISO timestamps, the latter read
// as UTC. An empty string means the sample carries no timestamp.
func parseDateTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation("date_time", "unrecognised timestamp %q", s)
}

// newPosition validates input and returns the position to store, with
// coordinates rounded to the stored precision.
func newPosition(in PositionInput) (Position, error) {
	if in.RunID == "" {
		return Position{}, apperr.Validation("run", "is required")
	}
	if in.Latitude == nil {
		return Position{}, apperr.Validation("latitude", "is required")
	}
	if in.Longitude == nil {
		return Position{}, apperr.Validation("longitude", "is required")
	}
	if !geo.ValidLat(*in.Latitude) {
		return Position{}, apperr.Validation("latitude", "must be between -90 and 90")
	}
	if !geo.ValidLng(*in.Longitude) {
		return Position{}, apperr.Validation("longitude", "must be between -180 and 180")
	}
	ts, err := parseDateTime(in.DateTime)
	if err != nil {
		return Position{}, err
	}
	return Position{
		RunID:     in.RunID,
		Latitude:  geo.Round(*in.Latitude, coordinatePlaces),
		Longitude: geo.Round(*in.Longitude, coordinatePlaces),
		DateTime:  ts,
	}, nil
}

// step fills next's leg distance and speed relative to prev. A nil prev means
// next is the first sample of the run.
func step(prev *Position, next *Position) error {
	if prev == nil {
		next.Distance, next.Speed = 0, 0
		return nil
	}
	next.Distance = geo.DistanceKm(prev.Point(), next.Point())
	next.Speed = 0
	if prev.DateTime == nil || next.DateTime == nil {
		return nil
	}
	dt := geo.ElapsedSeconds(*next.DateTime, *prev.DateTime)
	if dt < 0 {
		return apperr.Validation("date_time", "must not be earlier than the previous position")
	}
	if dt > 0 {
		next.Speed = geo.Round(next.Distance*1000/float64(dt), 2)
	}
	return nil
}

// Summarize derives a run's totals from its positions.
func Summarize(positions []Position) Totals {
	var (
		t          Totals
		speedSum   float64
		first, end *time.Time
	)
	for i := range positions {
		p := positions[i]
		t.Distance += p.Distance
		speedSum += p.Speed
		if p.DateTime == nil {
			continue
		}
		if first == nil || p.DateTime.Before(*first) {
			first = p.DateTime
		}
		if end == nil || p.DateTime.After(*end) {
			end = p.DateTime
		}
	}
	t.Distance = geo.Round(t.Distance, 3)
	if len(positions) > 0 {
		t.Speed = geo.Round(speedSum/float64(len(positions)), 2)
	}
	if first != nil && end != nil && first != end {
		t.RunTimeSeconds = max(geo.ElapsedSeconds(*end, *first), 0)
	}
	return t
}
