package collectible

import "backend-runclub/internal/shared/geo"

// Item is a map artifact an athlete captures by passing close to it.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UID       string  `json:"uid"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Picture   string  `json:"picture"`
	Value     int     `json:"value"`
}

func (i Item) Point() geo.Point {
	return geo.Point{Lat: i.Latitude, Lng: i.Longitude}
}

// ImportResult reports a bulk import: how many rows were stored and the raw
// values of every rejected row.
type ImportResult struct {
	Created int        `json:"created"`
	Invalid [][]string `json:"invalid_rows"`
}
