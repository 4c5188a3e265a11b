package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/nutrifit/internal/gamification"
	"github.com/2beens/nutrifit/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	_ Store = (*PsqlStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// Store is the remote, per-user mirror of the gamification state.
type Store interface {
	// Fetch returns found == false for users without a row; that is not an error.
	Fetch(ctx context.Context, userID string) (_ gamification.State, found bool, _ error)
	// Upsert inserts or overwrites the user's row. Upserting an unchanged state is a no-op.
	Upsert(ctx context.Context, userID string, state gamification.State) error
}

type PsqlStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPsqlStore(db *pgxpool.Pool) *PsqlStore {
	return &PsqlStore{
		db:  db,
		now: time.Now,
	}
}

func (s *PsqlStore) Fetch(ctx context.Context, userID string) (_ gamification.State, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gamification.fetch")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	row, err := s.fetchRow(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		span.SetAttributes(attribute.Bool("found", false))
		return gamification.State{}, false, nil
	}
	if err != nil {
		return gamification.State{}, false, fmt.Errorf("fetch gamification state: %w", err)
	}

	span.SetAttributes(attribute.Bool("found", true))
	return row.State(), true, nil
}

func (s *PsqlStore) fetchRow(ctx context.Context, userID string) (*Row, error) {
	row := &Row{}
	err := s.db.
		QueryRow(ctx, `
			SELECT
				user_id, points, level, streak,
				last_activity_date, last_login_date, unlocked_badges,
				total_meals_logged, total_workouts_completed, total_logins,
				updated_at
			FROM gamification_state
			WHERE user_id = $1
		`, userID).
		Scan(
			&row.UserID, &row.Points, &row.Level, &row.Streak,
			&row.LastActivityDate, &row.LastLoginDate, &row.UnlockedBadges,
			&row.TotalMealsLogged, &row.TotalWorkoutsCompleted, &row.TotalLogins,
			&row.UpdatedAt,
		)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *PsqlStore) Upsert(ctx context.Context, userID string, state gamification.State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gamification.upsert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	row := ToRow(userID, state, s.now().UTC())

	// the WHERE guard keeps updated_at intact when nothing changed,
	// so repeated upserts of the same state leave the row as it was
	tag, err := s.db.Exec(ctx, `
		INSERT INTO gamification_state (
			user_id, points, level, streak,
			last_activity_date, last_login_date, unlocked_badges,
			total_meals_logged, total_workouts_completed, total_logins,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			points = EXCLUDED.points,
			level = EXCLUDED.level,
			streak = EXCLUDED.streak,
			last_activity_date = EXCLUDED.last_activity_date,
			last_login_date = EXCLUDED.last_login_date,
			unlocked_badges = EXCLUDED.unlocked_badges,
			total_meals_logged = EXCLUDED.total_meals_logged,
			total_workouts_completed = EXCLUDED.total_workouts_completed,
			total_logins = EXCLUDED.total_logins,
			updated_at = EXCLUDED.updated_at
		WHERE (
			gamification_state.points, gamification_state.level, gamification_state.streak,
			gamification_state.last_activity_date, gamification_state.last_login_date,
			gamification_state.unlocked_badges, gamification_state.total_meals_logged,
			gamification_state.total_workouts_completed, gamification_state.total_logins
		) IS DISTINCT FROM (
			EXCLUDED.points, EXCLUDED.level, EXCLUDED.streak,
			EXCLUDED.last_activity_date, EXCLUDED.last_login_date,
			EXCLUDED.unlocked_badges, EXCLUDED.total_meals_logged,
			EXCLUDED.total_workouts_completed, EXCLUDED.total_logins
		)
	`,
		row.UserID, row.Points, row.Level, row.Streak,
		row.LastActivityDate, row.LastLoginDate, row.UnlockedBadges,
		row.TotalMealsLogged, row.TotalWorkoutsCompleted, row.TotalLogins,
		row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert gamification state: %w", err)
	}

	span.SetAttributes(attribute.Int64("rows.affected", tag.RowsAffected()))
	return nil
}
