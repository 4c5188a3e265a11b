package meals

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var ErrMealNotFound = errors.New("meal not found")

var validate = validator.New()

// MealType can be one of: breakfast, lunch, dinner, snack
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

type Meal struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id" validate:"required,max=64"`
	Name         string    `json:"name" validate:"required,max=120"`
	Type         MealType  `json:"type" validate:"required,oneof=breakfast lunch dinner snack"`
	Calories     int       `json:"calories" validate:"gte=0,lte=20000"`
	ProteinGrams float64   `json:"protein_g" validate:"gte=0,lte=2000"`
	CarbsGrams   float64   `json:"carbs_g" validate:"gte=0,lte=2000"`
	FatGrams     float64   `json:"fat_g" validate:"gte=0,lte=2000"`
	EatenAt      time.Time `json:"eaten_at"`
}

func (m Meal) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid meal: %w", err)
	}
	return nil
}

// DailyTotals is one data point of the nutrition chart.
type DailyTotals struct {
	Date         string  `json:"date"`
	Meals        int     `json:"meals"`
	Calories     int     `json:"calories"`
	ProteinGrams float64 `json:"protein_g"`
	CarbsGrams   float64 `json:"carbs_g"`
	FatGrams     float64 `json:"fat_g"`
}

const dateLayout = "2006-01-02"

// FillDays returns one entry per calendar day in [from, to), using totals where present
// and zero entries for days without meals.
func FillDays(totals []DailyTotals, from, to time.Time) []DailyTotals {
	byDate := make(map[string]DailyTotals, len(totals))
	for _, t := range totals {
		byDate[t.Date] = t
	}

	var days []DailyTotals
	for d := dayStart(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		if t, ok := byDate[date]; ok {
			days = append(days, t)
			continue
		}
		days = append(days, DailyTotals{Date: date})
	}
	return days
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
