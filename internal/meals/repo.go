package meals

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/nutrifit/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, meal Meal) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	span.SetAttributes(attribute.String("meal.id", meal.ID.String()))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO meal
				(id, user_id, name, meal_type, calories, protein_g, carbs_g, fat_g, eaten_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		meal.ID, meal.UserID, meal.Name, string(meal.Type), meal.Calories,
		meal.ProteinGrams, meal.CarbsGrams, meal.FatGrams, meal.EatenAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}

	return &meal, nil
}

// List returns the user's meals eaten in [from, to), newest first.
func (r *Repo) List(ctx context.Context, userID string, from, to time.Time) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, meal_type, calories, protein_g, carbs_g, fat_g, eaten_at
			FROM meal
			WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at < $3
			ORDER BY eaten_at DESC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}

	meals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Meal, error) {
		var m Meal
		var mealType string
		if err := row.Scan(
			&m.ID, &m.UserID, &m.Name, &mealType, &m.Calories,
			&m.ProteinGrams, &m.CarbsGrams, &m.FatGrams, &m.EatenAt,
		); err != nil {
			return Meal{}, err
		}
		m.Type = MealType(mealType)
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect meals: %w", err)
	}

	return meals, nil
}

func (r *Repo) Delete(ctx context.Context, userID string, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("meal.id", id.String()))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM meal WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}

	return nil
}

// DailyTotals sums the user's meals in [from, to) per calendar day of loc.
// Days without meals are not returned.
func (r *Repo) DailyTotals(ctx context.Context, userID string, from, to time.Time, loc *time.Location) (_ []DailyTotals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.daily")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT
				to_char((eaten_at AT TIME ZONE $4)::date, 'YYYY-MM-DD') AS day,
				COUNT(*)::int,
				COALESCE(SUM(calories), 0)::int,
				COALESCE(SUM(protein_g), 0)::float8,
				COALESCE(SUM(carbs_g), 0)::float8,
				COALESCE(SUM(fat_g), 0)::float8
			FROM meal
			WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at < $3
			GROUP BY day
			ORDER BY day;`,
		userID, from, to, loc.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query daily totals: %w", err)
	}

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DailyTotals, error) {
		var t DailyTotals
		err := row.Scan(&t.Date, &t.Meals, &t.Calories, &t.ProteinGrams, &t.CarbsGrams, &t.FatGrams)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect daily totals: %w", err)
	}

	return totals, nil
}
