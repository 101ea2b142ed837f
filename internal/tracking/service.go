package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-runclub/internal/auth"
	"backend-runclub/internal/challenge"
	"backend-runclub/internal/collectible"
	"backend-runclub/internal/db"
	"backend-runclub/internal/shared/apperr"
	"backend-runclub/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Capturer grants collectible items near a new position.
type Capturer interface {
	Capture(ctx context.Context, q db.Querier, athleteID string, at geo.Point) ([]collectible.Item, error)
}

// Evaluator issues challenges for a run that has just finished.
type Evaluator interface {
	Evaluate(ctx context.Context, q db.Querier, run challenge.FinishedRun) ([]challenge.Challenge, error)
}

// Invalidator drops cached aggregates derived from finished runs.
type Invalidator interface {
	InvalidateAggregates(ctx context.Context)
}

type Service struct {
	db         db.Pool
	matcher    Capturer
	challenges Evaluator
	cache      Invalidator
}

func NewService(pool db.Pool, matcher Capturer, challenges Evaluator, cache Invalidator) *Service {
	return &Service{db: pool, matcher: matcher, challenges: challenges, cache: cache}
}

const runColumns = `id, athlete_id, comment, status, distance, run_time_seconds, speed, created_at`

const positionColumns = `id, run_id, latitude::float8, longitude::float8, date_time IS NOT NULL, COALESCE(date_time, created_at), distance, speed, created_at`

func (s *Service) CreateRun(ctx context.Context, p auth.Principal, in RunInput) (Run, error) {
	if p.Role != auth.RoleAthlete {
		return Run{}, fmt.Errorf("create run: %w", apperr.ErrForbidden)
	}
	run := Run{ID: uuid.NewString(), AthleteID: p.UserID, Comment: in.Comment}

	var status string
	row := s.db.QueryRow(ctx, `
		INSERT INTO runs (id, athlete_id, comment)
		VALUES ($1,$2,$3)
		RETURNING status, distance, run_time_seconds, speed, created_at
	`, run.ID, run.AthleteID, run.Comment)
	if err := row.Scan(&status, &run.Distance, &run.RunTimeSeconds, &run.Speed, &run.CreatedAt); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	run.Status = Status(status)
	return run, nil
}

func (s *Service) GetRun(ctx context.Context, id string) (Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, apperr.NotFound("run")
	}
	return scanRun(s.db.QueryRow(ctx, `SELECT `+runColumns+` FROM runs WHERE id=$1`, id))
}

func (s *Service) ListRuns(ctx context.Context, f RunFilter) ([]Run, error) {
	if f.Status != "" {
		if _, ok := ParseStatus(f.Status); !ok {
			return nil, apperr.Validation("status", "unknown status %q", f.Status)
		}
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR athlete_id::text = $2)
		ORDER BY created_at, id
	`, f.Status, f.AthleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// UpdateComment is the only edit allowed on a run; status and totals change
// through StartRun and StopRun.
func (s *Service) UpdateComment(ctx context.Context, p auth.Principal, id string, in RunInput) (Run, error) {
	run, err := s.ownedRun(ctx, s.db, p, id, false)
	if err != nil {
		return Run{}, err
	}
	if _, err := s.db.Exec(ctx, `UPDATE runs SET comment=$2 WHERE id=$1`, run.ID, in.Comment); err != nil {
		return Run{}, fmt.Errorf("update run: %w", err)
	}
	run.Comment = in.Comment
	return run, nil
}

func (s *Service) DeleteRun(ctx context.Context, p auth.Principal, id string) error {
	run, err := s.ownedRun(ctx, s.db, p, id, false)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM runs WHERE id=$1`, run.ID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if run.Status == StatusFinished {
		s.invalidate(ctx)
	}
	return nil
}

func (s *Service) StartRun(ctx context.Context, p auth.Principal, id string) (Run, error) {
	var run Run
	err := db.WithTx(ctx, s.db, func(q db.Querier) error {
		var err error
		if run, err = s.ownedRun(ctx, q, p, id, true); err != nil {
			return err
		}
		next, err := run.Status.Start()
		if err != nil {
			return err
		}
		tag, err := q.Exec(ctx, `UPDATE runs SET status=$2 WHERE id=$1 AND status=$3`,
			run.ID, string(next), string(run.Status))
		if err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return apperr.Transition(reasonAlreadyBegun)
		}
		run.Status = next
		return nil
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// StopRun finishes a run: totals are derived from its positions and the
// challenge rules are evaluated in the same transaction.
func (s *Service) StopRun(ctx context.Context, p auth.Principal, id string) (Run, error) {
	var run Run
	err := db.WithTx(ctx, s.db, func(q db.Querier) error {
		var err error
		if run, err = s.ownedRun(ctx, q, p, id, true); err != nil {
			return err
		}
		next, err := run.Status.Stop()
		if err != nil {
			return err
		}

		positions, err := listPositions(ctx, q, run.ID)
		if err != nil {
			return fmt.Errorf("load positions: %w", err)
		}
		totals := Summarize(positions)

		tag, err := q.Exec(ctx, `
			UPDATE runs
			SET status=$2, distance=$3, run_time_seconds=$4, speed=$5
			WHERE id=$1 AND status=$6
		`, run.ID, string(next), totals.Distance, totals.RunTimeSeconds, totals.Speed, string(run.Status))
		if err != nil {
			return fmt.Errorf("stop run: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return apperr.Transition(reasonAlreadyOver)
		}
		run.Status = next
		run.Distance = totals.Distance
		run.RunTimeSeconds = totals.RunTimeSeconds
		run.Speed = totals.Speed

		if s.challenges == nil {
			return nil
		}
		_, err = s.challenges.Evaluate(ctx, q, challenge.FinishedRun{
			RunID:          run.ID,
			AthleteID:      run.AthleteID,
			Distance:       run.Distance,
			RunTimeSeconds: run.RunTimeSeconds,
		})
		return err
	})
	if err != nil {
		return Run{}, err
	}
	s.invalidate(ctx)
	return run, nil
}

// AddPosition appends a sample to an in-progress run owned by p. The run row
// stays locked until commit so concurrent samples see each other in order.
func (s *Service) AddPosition(ctx context.Context, p auth.Principal, in PositionInput) (Position, error) {
	pos, err := newPosition(in)
	if err != nil {
		return Position{}, err
	}

	err = db.WithTx(ctx, s.db, func(q db.Querier) error {
		run, err := s.ownedRun(ctx, q, p, pos.RunID, true)
		if err != nil {
			return err
		}
		if run.Status != StatusInProgress {
			return apperr.Validation("run", "run must be in_progress")
		}

		prev, err := lastPosition(ctx, q, run.ID)
		if err != nil {
			return err
		}
		if err := step(prev, &pos); err != nil {
			return err
		}

		if err := q.QueryRow(ctx, `
			INSERT INTO positions (run_id, latitude, longitude, date_time, distance, speed)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id, created_at
		`, pos.RunID, pos.Latitude, pos.Longitude, pos.DateTime, pos.Distance, pos.Speed).Scan(&pos.ID, &pos.CreatedAt); err != nil {
			return fmt.Errorf("insert position: %w", err)
		}

		if s.matcher == nil {
			return nil
		}
		_, err = s.matcher.Capture(ctx, q, run.AthleteID, pos.Point())
		return err
	})
	if err != nil {
		return Position{}, err
	}
	return pos, nil
}

// ListPositions returns positions in insertion order, optionally of one run.
func (s *Service) ListPositions(ctx context.Context, runID string) ([]Position, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+positionColumns+`
		FROM positions
		WHERE ($1 = '' OR run_id::text = $1)
		ORDER BY run_id, id
	`, runID)
	if err != nil {
		return nil, err
	}
	return collectPositions(rows)
}

func (s *Service) DeletePosition(ctx context.Context, p auth.Principal, id int64) error {
	var athleteID string
	err := s.db.QueryRow(ctx, `
		SELECT r.athlete_id
		FROM positions p
		JOIN runs r ON r.id = p.run_id
		WHERE p.id = $1
	`, id).Scan(&athleteID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("position")
	}
	if err != nil {
		return err
	}
	if athleteID != p.UserID {
		return fmt.Errorf("delete position: %w", apperr.ErrForbidden)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM positions WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAggregates(ctx)
	}
}

// ownedRun loads a run and checks it belongs to p. With lock set the row is
// held FOR UPDATE, which requires q to be a transaction.
func (s *Service) ownedRun(ctx context.Context, q db.Querier, p auth.Principal, id string, lock bool) (Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, apperr.NotFound("run")
	}
	sql := `SELECT ` + runColumns + ` FROM runs WHERE id=$1`
	if lock {
		sql += ` FOR UPDATE`
	}
	run, err := scanRun(q.QueryRow(ctx, sql, id))
	if err != nil {
		return Run{}, err
	}
	if run.AthleteID != p.UserID {
		return Run{}, fmt.Errorf("run %s: %w", id, apperr.ErrForbidden)
	}
	return run, nil
}

func scanRun(row pgx.Row) (Run, error) {
	var (
		run    Run
		status string
	)
	err := row.Scan(&run.ID, &run.AthleteID, &run.Comment, &status, &run.Distance, &run.RunTimeSeconds, &run.Speed, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, apperr.NotFound("run")
	}
	if err != nil {
		return Run{}, err
	}
	run.Status = Status(status)
	return run, nil
}

func lastPosition(ctx context.Context, q db.Querier, runID string) (*Position, error) {
	rows, err := q.Query(ctx, `
		SELECT `+positionColumns+`
		FROM positions
		WHERE run_id = $1
		ORDER BY id DESC
		LIMIT 1
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("last position: %w", err)
	}
	positions, err := collectPositions(rows)
	if err != nil || len(positions) == 0 {
		return nil, err
	}
	return &positions[0], nil
}

func listPositions(ctx context.Context, q db.Querier, runID string) ([]Position, error) {
	rows, err := q.Query(ctx, `
		SELECT `+positionColumns+`
		FROM positions
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	return collectPositions(rows)
}

func collectPositions(rows pgx.Rows) ([]Position, error) {
	defer rows.Close()

	positions := []Position{}
	for rows.Next() {
		var (
			p     Position
			hasTS bool
			stamp time.Time
		)
		if err := rows.Scan(&p.ID, &p.RunID, &p.Latitude, &p.Longitude, &hasTS, &stamp, &p.Distance, &p.Speed, &p.CreatedAt); err != nil {
			return nil, err
		}
		if hasTS {
			ts := stamp
			p.DateTime = &ts
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
