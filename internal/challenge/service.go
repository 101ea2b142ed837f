package challenge

import (
	"context"

	"backend-runclub/internal/cache"
	"backend-runclub/internal/db"
)

type Service struct {
	db    db.Querier
	cache *cache.Cache
}

func NewService(db db.Querier, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// List returns challenges, optionally only those of one athlete.
func (s *Service) List(ctx context.Context, athleteID string) ([]Challenge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, athlete_id, COALESCE(run_id::text, ''), full_name, created_at
		FROM challenges
		WHERE ($1 = '' OR athlete_id::text = $1)
		ORDER BY created_at, id
	`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := []Challenge{}
	for rows.Next() {
		var ch Challenge
		if err := rows.Scan(&ch.ID, &ch.AthleteID, &ch.RunID, &ch.FullName, &ch.CreatedAt); err != nil {
			return nil, err
		}
		challenges = append(challenges, ch)
	}
	return challenges, rows.Err()
}

// Summary groups the challenges of non-coach athletes by name.
func (s *Service) Summary(ctx context.Context) ([]SummaryEntry, error) {
	var cached []SummaryEntry
	if s.cache.GetJSON(ctx, cache.KeyChallengeSummary, &cached) {
		return cached, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT c.full_name, u.id, u.first_name, u.last_name, u.username
		FROM challenges c
		JOIN users u ON u.id = c.athlete_id
		WHERE NOT u.is_coach
		ORDER BY c.full_name, u.username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []SummaryEntry{}
	for rows.Next() {
		var (
			name, first, last string
			a                 SummaryAthlete
		)
		if err := rows.Scan(&name, &a.ID, &first, &last, &a.Username); err != nil {
			return nil, err
		}
		a.FullName = fullName(first, last)

		if n := len(summary); n == 0 || summary[n-1].Name != name {
			summary = append(summary, SummaryEntry{Name: name})
		}
		entry := &summary[len(summary)-1]
		entry.Athletes = append(entry.Athletes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, cache.KeyChallengeSummary, summary)
	return summary, nil
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
