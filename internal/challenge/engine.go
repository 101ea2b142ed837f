package challenge

import (
	"context"
	"errors"
	"fmt"

	"backend-runclub/internal/db"
	"backend-runclub/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	tenRunsCount     = 10
	fiftyKmTotal     = 50.0
	fastRunKm        = 2.0
	fastRunMaxSecond = 600
)

// Engine issues challenges when a run finishes.
type Engine struct {
	dedupAggregate bool
}

// NewEngine returns an engine. With dedupAggregate set, the rules computed
// from an athlete's totals are granted at most once per athlete; otherwise
// they are granted on every finish that satisfies them.
func NewEngine(dedupAggregate bool) *Engine {
	return &Engine{dedupAggregate: dedupAggregate}
}

// Evaluate must run in the same transaction that marked the run finished.
// It locks the athlete row so two finishes of the same athlete are judged
// one after the other.
func (e *Engine) Evaluate(ctx context.Context, q db.Querier, run FinishedRun) ([]Challenge, error) {
	var locked string
	if err := q.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, run.AthleteID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("athlete")
		}
		return nil, fmt.Errorf("lock athlete: %w", err)
	}

	var (
		finished int
		totalKm  float64
	)
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(distance), 0)
		FROM runs
		WHERE athlete_id = $1 AND status = 'finished'
	`, run.AthleteID).Scan(&finished, &totalKm); err != nil {
		return nil, fmt.Errorf("athlete totals: %w", err)
	}

	var created []Challenge
	grant := func(name string, once bool) error {
		ch, ok, err := e.insert(ctx, q, run, name, once)
		if err != nil {
			return err
		}
		if ok {
			created = append(created, ch)
		}
		return nil
	}

	if finished == tenRunsCount {
		if err := grant(NameTenRuns, e.dedupAggregate); err != nil {
			return nil, err
		}
	}
	if totalKm >= fiftyKmTotal {
		if err := grant(NameFiftyKm, e.dedupAggregate); err != nil {
			return nil, err
		}
	}
	// a run without timestamps has zero elapsed time and never qualifies
	if run.Distance >= fastRunKm && run.RunTimeSeconds > 0 && run.RunTimeSeconds <= fastRunMaxSecond {
		if err := grant(NameFastTwoKm, false); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (e *Engine) insert(ctx context.Context, q db.Querier, run FinishedRun, name string, once bool) (Challenge, bool, error) {
	ch := Challenge{
		ID:        uuid.NewString(),
		AthleteID: run.AthleteID,
		RunID:     run.RunID,
		FullName:  name,
	}

	var err error
	if once {
		err = q.QueryRow(ctx, `
			INSERT INTO challenges (id, athlete_id, run_id, full_name)
			SELECT $1::uuid, $2::uuid, $3::uuid, $4::text
			WHERE NOT EXISTS (
				SELECT 1 FROM challenges WHERE athlete_id = $2::uuid AND full_name = $4::text
			)
			RETURNING created_at
		`, ch.ID, ch.AthleteID, ch.RunID, ch.FullName).Scan(&ch.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return Challenge{}, false, nil
		}
	} else {
		err = q.QueryRow(ctx, `
			INSERT INTO challenges (id, athlete_id, run_id, full_name)
			VALUES ($1,$2,$3,$4)
			RETURNING created_at
		`, ch.ID, ch.AthleteID, ch.RunID, ch.FullName).Scan(&ch.CreatedAt)
	}
	if err != nil {
		return Challenge{}, false, fmt.Errorf("insert challenge %q: %w", name, err)
	}
	return ch, true, nil
}
