package subscription

import (
	"context"
	"errors"
	"fmt"

	"backend-runclub/internal/auth"
	"backend-runclub/internal/cache"
	"backend-runclub/internal/db"
	"backend-runclub/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db    db.Querier
	cache *cache.Cache
}

func NewService(db db.Querier, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// Subscribe links the calling athlete to coachID. Subscribing again keeps the
// link and replaces the rating when one is given.
func (s *Service) Subscribe(ctx context.Context, p auth.Principal, coachID string, in Input) (Subscription, error) {
	if p.Role != auth.RoleAthlete {
		return Subscription{}, fmt.Errorf("only athletes subscribe: %w", apperr.ErrForbidden)
	}
	if in.Rating != nil && (*in.Rating < minRating || *in.Rating > maxRating) {
		return Subscription{}, apperr.Validation("rating", "must be between %d and %d", minRating, maxRating)
	}
	if _, err := uuid.Parse(coachID); err != nil {
		return Subscription{}, apperr.NotFound("coach")
	}

	var isCoach bool
	err := s.db.QueryRow(ctx, `SELECT is_coach FROM users WHERE id=$1`, coachID).Scan(&isCoach)
	if errors.Is(err, pgx.ErrNoRows) {
		return Subscription{}, apperr.NotFound("coach")
	}
	if err != nil {
		return Subscription{}, err
	}
	if !isCoach {
		return Subscription{}, apperr.Validation("coach", "user is not a coach")
	}

	sub := Subscription{AthleteID: p.UserID, CoachID: coachID}
	var rating int
	if err := s.db.QueryRow(ctx, `
		INSERT INTO subscriptions (athlete_id, coach_id, rating)
		VALUES ($1,$2,$3)
		ON CONFLICT (athlete_id, coach_id)
		DO UPDATE SET rating = COALESCE(EXCLUDED.rating, subscriptions.rating)
		RETURNING COALESCE(rating, 0), created_at
	`, sub.AthleteID, sub.CoachID, in.Rating).Scan(&rating, &sub.CreatedAt); err != nil {
		return Subscription{}, fmt.Errorf("subscribe: %w", err)
	}
	if rating > 0 {
		sub.Rating = &rating
	}

	s.cache.InvalidateAggregates(ctx)
	return sub, nil
}
