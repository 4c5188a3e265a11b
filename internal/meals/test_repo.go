package meals

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TestRepo is an in-memory Repo, used in tests and when no database is configured.
type TestRepo struct {
	mu    sync.Mutex
	meals map[uuid.UUID]Meal
}

func NewTestRepo() *TestRepo {
	return &TestRepo{
		meals: make(map[uuid.UUID]Meal),
	}
}

func (r *TestRepo) Add(_ context.Context, meal Meal) (*Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	r.meals[meal.ID] = meal
	return &meal, nil
}

func (r *TestRepo) List(_ context.Context, userID string, from, to time.Time) ([]Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var meals []Meal
	for _, m := range r.meals {
		if m.UserID == userID && !m.EatenAt.Before(from) && m.EatenAt.Before(to) {
			meals = append(meals, m)
		}
	}
	sort.Slice(meals, func(i, j int) bool {
		return meals[i].EatenAt.After(meals[j].EatenAt)
	})
	return meals, nil
}

func (r *TestRepo) Delete(_ context.Context, userID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meals[id]
	if !ok || m.UserID != userID {
		return ErrMealNotFound
	}
	delete(r.meals, id)
	return nil
}

func (r *TestRepo) DailyTotals(ctx context.Context, userID string, from, to time.Time, loc *time.Location) ([]DailyTotals, error) {
	meals, err := r.List(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := map[string]*DailyTotals{}
	for _, m := range meals {
		date := m.EatenAt.In(loc).Format(dateLayout)
		t, ok := byDate[date]
		if !ok {
			t = &DailyTotals{Date: date}
			byDate[date] = t
		}
		t.Meals++
		t.Calories += m.Calories
		t.ProteinGrams += m.ProteinGrams
		t.CarbsGrams += m.CarbsGrams
		t.FatGrams += m.FatGrams
	}

	totals := make([]DailyTotals, 0, len(byDate))
	for _, t := range byDate {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date < totals[j].Date
	})
	return totals, nil
}
