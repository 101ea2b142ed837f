package user

import (
	"context"
	"errors"
	"fmt"

	"backend-runclub/internal/auth"
	"backend-runclub/internal/cache"
	"backend-runclub/internal/collectible"
	"backend-runclub/internal/db"
	"backend-runclub/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ItemLister lists the collectible items an athlete has captured.
type ItemLister interface {
	CapturedBy(ctx context.Context, athleteID string) ([]collectible.Item, error)
}

type Service struct {
	db    db.Querier
	items ItemLister
	cache *cache.Cache
}

func NewService(db db.Querier, items ItemLister, c *cache.Cache) *Service {
	return &Service{db: db, items: items, cache: c}
}

// Finished-run counts and coach ratings come from grouped subqueries so a
// listing costs one round trip however many users it has.
const selectUsers = `
	SELECT u.id, u.username, u.first_name, u.last_name, u.is_coach, u.created_at,
	       COALESCE(r.finished, 0), COALESCE(s.rating, 0), COALESCE(s.rated, 0)
	FROM users u
	LEFT JOIN (
		SELECT athlete_id, COUNT(*) AS finished
		FROM runs WHERE status = 'finished'
		GROUP BY athlete_id
	) r ON r.athlete_id = u.id
	LEFT JOIN (
		SELECT coach_id, AVG(rating)::float8 AS rating, COUNT(rating) AS rated
		FROM subscriptions
		GROUP BY coach_id
	) s ON s.coach_id = u.id
	WHERE NOT u.is_superuser`

// List returns every non-superuser. filter may be "coach" or "athlete";
// anything else lists both.
func (s *Service) List(ctx context.Context, filter string) ([]Summary, error) {
	if _, ok := auth.ParseRole(filter); !ok {
		filter = ""
	}

	var cached []Summary
	if s.cache.GetJSON(ctx, cache.UsersKey(filter), &cached) {
		return cached, nil
	}

	rows, err := s.db.Query(ctx, selectUsers+`
		AND ($1 = '' OR u.is_coach = ($1 = 'coach'))
		ORDER BY u.created_at, u.id
	`, filter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []Summary{}
	for rows.Next() {
		u, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, cache.UsersKey(filter), users)
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("user")
	}
	base, err := scanSummary(s.db.QueryRow(ctx, selectUsers+` AND u.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}

	switch base.Role {
	case auth.RoleCoach:
		athletes, err := s.linked(ctx, `SELECT athlete_id FROM subscriptions WHERE coach_id = $1 ORDER BY created_at`, id)
		if err != nil {
			return nil, err
		}
		return &CoachDetail{Summary: base, Athletes: athletes}, nil
	default:
		coaches, err := s.linked(ctx, `SELECT coach_id FROM subscriptions WHERE athlete_id = $1 ORDER BY created_at`, id)
		if err != nil {
			return nil, err
		}
		items := []collectible.Item{}
		if s.items != nil {
			captured, err := s.items.CapturedBy(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("captured items: %w", err)
			}
			items = append(items, captured...)
		}
		return &AthleteDetail{Summary: base, Coaches: coaches, Items: items}, nil
	}
}

func (s *Service) linked(ctx context.Context, sql, id string) ([]string, error) {
	rows, err := s.db.Query(ctx, sql, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var linked string
		if err := rows.Scan(&linked); err != nil {
			return nil, err
		}
		ids = append(ids, linked)
	}
	return ids, rows.Err()
}

func scanSummary(row pgx.Row) (Summary, error) {
	var (
		u       Summary
		isCoach bool
		rating  float64
		rated   int
	)
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &isCoach, &u.DateJoined,
		&u.RunsFinished, &rating, &rated); err != nil {
		return Summary{}, err
	}
	u.Role = auth.RoleOf(isCoach)
	if u.Role == auth.RoleCoach && rated > 0 {
		u.Rating = &rating
	}
	return u, nil
}
