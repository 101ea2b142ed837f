package collectible

import (
	"context"
	"fmt"
	"log"

	"backend-runclub/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return queryItems(ctx, s.db, `SELECT `+itemColumns+` FROM collectible_items ORDER BY name, uid`)
}

// CapturedBy lists the items an athlete has captured.
func (s *Service) CapturedBy(ctx context.Context, athleteID string) ([]Item, error) {
	return queryItems(ctx, s.db, `
		SELECT i.id, i.name, i.uid, i.latitude, i.longitude, i.picture, i.value
		FROM collectible_items i
		JOIN collectible_item_athletes a ON a.item_id = i.id
		WHERE a.athlete_id = $1
		ORDER BY i.name, i.uid
	`, athleteID)
}

// Import validates each row on its own. Valid rows are inserted; invalid rows,
// including uids already taken in the file or in the store, are returned as-is.
// Rows are committed one by one, so on a store error the result still reports
// what was created before it.
func (s *Service) Import(ctx context.Context, rows [][]string) (ImportResult, error) {
	result := ImportResult{Invalid: [][]string{}}
	seen := map[string]bool{}

	for _, row := range rows {
		item, err := ParseRow(row)
		if err != nil || seen[item.UID] {
			result.Invalid = append(result.Invalid, row)
			continue
		}
		seen[item.UID] = true

		item.ID = uuid.NewString()
		tag, err := s.db.Exec(ctx, `
			INSERT INTO collectible_items (id, name, uid, latitude, longitude, picture, value)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (uid) DO NOTHING
		`, item.ID, item.Name, item.UID, item.Latitude, item.Longitude, item.Picture, item.Value)
		if err != nil {
			return result, fmt.Errorf("insert item %s: %w", item.UID, err)
		}
		if tag.RowsAffected() == 0 {
			result.Invalid = append(result.Invalid, row)
			continue
		}
		result.Created++
	}

	log.Printf("collectible import: %d created, %d rejected", result.Created, len(result.Invalid))
	return result, nil
}
