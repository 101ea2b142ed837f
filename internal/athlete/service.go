package athlete

import (
	"context"
	"fmt"

	"backend-runclub/internal/auth"
	"backend-runclub/internal/db"
	"backend-runclub/internal/shared/apperr"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Get returns the info of a user, creating an empty record on first access.
func (s *Service) Get(ctx context.Context, userID string) (Info, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return Info{}, err
	}
	if _, err := s.db.Exec(ctx, `
		INSERT INTO athlete_infos (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return Info{}, fmt.Errorf("create athlete info: %w", err)
	}

	info := Info{UserID: userID}
	var weight int
	if err := s.db.QueryRow(ctx, `
		SELECT goals, COALESCE(weight, 0)
		FROM athlete_infos WHERE user_id=$1
	`, userID).Scan(&info.Goals, &weight); err != nil {
		return Info{}, err
	}
	if weight > 0 {
		info.Weight = &weight
	}
	return info, nil
}

// Update replaces the info of the calling user.
func (s *Service) Update(ctx context.Context, p auth.Principal, userID string, in UpdateInput) (Info, error) {
	if in.Weight != nil && (*in.Weight < minWeight || *in.Weight > maxWeight) {
		return Info{}, apperr.Validation("weight", "must be between %d and %d", minWeight, maxWeight)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return Info{}, err
	}
	if p.UserID != userID {
		return Info{}, fmt.Errorf("athlete info: %w", apperr.ErrForbidden)
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO athlete_infos (user_id, goals, weight)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET goals = EXCLUDED.goals, weight = EXCLUDED.weight
	`, userID, in.Goals, in.Weight); err != nil {
		return Info{}, fmt.Errorf("update athlete info: %w", err)
	}
	return Info{UserID: userID, Goals: in.Goals, Weight: in.Weight}, nil
}

func (s *Service) ensureUser(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return apperr.NotFound("user")
	}
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("user")
	}
	return nil
}
