package collectible

import (
	"context"
	"fmt"
	"math"

	"backend-runclub/internal/db"
	"backend-runclub/internal/shared/geo"
)

// CaptureRadiusM is how close, in metres, a position must be to grant an item.
const CaptureRadiusM = 100.0

const itemColumns = `id, name, uid, latitude, longitude, picture, value`

// Matcher grants collectible items to athletes whose positions pass within
// CaptureRadiusM of them.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Capture removes items with impossible coordinates, then adds athleteID to
// the captured-by set of every item within range of at. It is meant to run in
// the same transaction as the position insert. Only newly captured items are
// returned; re-capturing is a no-op.
func (m *Matcher) Capture(ctx context.Context, q db.Querier, athleteID string, at geo.Point) ([]Item, error) {
	if _, err := q.Exec(ctx, `
		DELETE FROM collectible_items
		WHERE latitude NOT BETWEEN -90 AND 90 OR longitude NOT BETWEEN -180 AND 180
	`); err != nil {
		return nil, fmt.Errorf("purge invalid items: %w", err)
	}

	candidates, err := m.candidates(ctx, q, at)
	if err != nil {
		return nil, err
	}

	var captured []Item
	for _, item := range candidates {
		if geo.DistanceM(item.Point(), at) >= CaptureRadiusM {
			continue
		}
		tag, err := q.Exec(ctx, `
			INSERT INTO collectible_item_athletes (item_id, athlete_id)
			VALUES ($1,$2)
			ON CONFLICT (item_id, athlete_id) DO NOTHING
		`, item.ID, athleteID)
		if err != nil {
			return nil, fmt.Errorf("capture item %s: %w", item.UID, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		captured = append(captured, item)
	}
	return captured, nil
}

func (m *Matcher) candidates(ctx context.Context, q db.Querier, at geo.Point) ([]Item, error) {
	var (
		items []Item
		err   error
	)
	if b, ok := searchBox(at, CaptureRadiusM); ok {
		items, err = queryItems(ctx, q, `
			SELECT `+itemColumns+`
			FROM collectible_items
			WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4
		`, b.minLat, b.maxLat, b.minLng, b.maxLng)
	} else {
		items, err = queryItems(ctx, q, `SELECT `+itemColumns+` FROM collectible_items`)
	}
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return items, nil
}

type box struct {
	minLat, maxLat, minLng, maxLng float64
}

// searchBox returns a lat/lng rectangle that contains every point within
// radiusM of at, with a 2x margin. It reports false near the poles and the
// antimeridian, where a rectangle does not work and a full scan is used.
func searchBox(at geo.Point, radiusM float64) (box, bool) {
	// a degree of latitude is never shorter than 110 km on WGS-84
	latDelta := 2 * radiusM / 110000
	if math.Abs(at.Lat)+latDelta >= 89 {
		return box{}, false
	}
	lngDelta := latDelta / math.Cos(at.Lat*math.Pi/180)
	if at.Lng-lngDelta < -180 || at.Lng+lngDelta > 180 {
		return box{}, false
	}
	return box{
		minLat: at.Lat - latDelta,
		maxLat: at.Lat + latDelta,
		minLng: at.Lng - lngDelta,
		maxLng: at.Lng + lngDelta,
	}, true
}

func queryItems(ctx context.Context, q db.Querier, sql string, args ...any) ([]Item, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.UID, &it.Latitude, &it.Longitude, &it.Picture, &it.Value); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
