package meals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/nutrifit/internal/rewards"
	"github.com/2beens/nutrifit/internal/telemetry/tracing"
	"github.com/2beens/nutrifit/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=meals_test

const (
	defaultChartDays = 7
	maxChartDays     = 90
	maxMealBodyBytes = 64 * 1024
)

type mealsRepo interface {
	Add(ctx context.Context, meal Meal) (*Meal, error)
	List(ctx context.Context, userID string, from, to time.Time) ([]Meal, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	DailyTotals(ctx context.Context, userID string, from, to time.Time, loc *time.Location) ([]DailyTotals, error)
}

type mealRewarder interface {
	LogMeal(ctx context.Context, userID string, meal rewards.MealLogged) (rewards.Outcome, error)
}

type AddMealResponse struct {
	Meal    Meal             `json:"meal"`
	Rewards *rewards.Outcome `json:"rewards,omitempty"`
}

type DeleteMealResponse struct {
	DeletedID uuid.UUID `json:"deleted_id"`
}

type Handler struct {
	repo     mealsRepo
	rewarder mealRewarder
	loc      *time.Location
	now      func() time.Time
}

func NewHandler(repo mealsRepo, rewarder mealRewarder, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		repo:     repo,
		rewarder: rewarder,
		loc:      loc,
		now:      time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userID}/meals", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-meal")
	router.HandleFunc("/users/{userID}/meals", handler.HandleList).Methods("GET", "OPTIONS").Name("list-meals")
	router.HandleFunc("/users/{userID}/meals/daily", handler.HandleDaily).Methods("GET", "OPTIONS").Name("daily-nutrition")
	router.HandleFunc("/users/{userID}/meals/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-meal")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userID"]
	span.SetAttributes(attribute.String("user.id", userID))

	var meal Meal
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMealBodyBytes)).Decode(&meal); err != nil {
		log.Tracef("new meal, unmarshal json: %s", err)
		http.Error(w, "add meal failed", http.StatusBadRequest)
		return
	}

	meal.ID = uuid.Nil
	meal.UserID = userID
	if meal.EatenAt.IsZero() {
		meal.EatenAt = handler.now()
	}
	if err := meal.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, meal)
	if err != nil {
		log.Errorf("failed to add meal [%s] for [%s]: %s", meal.Name, userID, err)
		http.Error(w, "error, failed to add meal", http.StatusInternalServerError)
		return
	}

	resp := AddMealResponse{
		Meal: *added,
	}
	outcome, err := handler.rewarder.LogMeal(ctx, userID, rewards.MealLogged{
		MealID:   added.ID.String(),
		MealType: string(added.Type),
		Calories: added.Calories,
	})
	if err != nil {
		// the meal is stored, only the points are missing
		log.Errorf("award meal points [%s]: %s", userID, err)
	} else {
		resp.Rewards = &outcome
	}

	pkg.WriteJSON(w, resp, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.list")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	span.SetAttributes(attribute.String("user.id", userID))

	to := handler.now()
	from := to.AddDate(0, 0, -defaultChartDays)
	var err error
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err = handler.parseDate(fromStr); err != nil {
			http.Error(w, "error, invalid from date", http.StatusBadRequest)
			return
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err = handler.parseDate(toStr); err != nil {
			http.Error(w, "error, invalid to date", http.StatusBadRequest)
			return
		}
	}
	if !from.Before(to) {
		http.Error(w, "error, from must be before to", http.StatusBadRequest)
		return
	}

	meals, err := handler.repo.List(ctx, userID, from, to)
	if err != nil {
		log.Errorf("list meals [%s]: %s", userID, err)
		http.Error(w, "error, failed to list meals", http.StatusInternalServerError)
		return
	}
	if meals == nil {
		meals = []Meal{}
	}

	pkg.WriteJSON(w, meals, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.delete")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userID"]
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "error, invalid meal id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrMealNotFound) {
			http.Error(w, "error, meal not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete meal [%s]: %s", id, err)
		http.Error(w, "error, failed to delete meal", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, DeleteMealResponse{DeletedID: id}, http.StatusOK)
}

// HandleDaily returns per day nutrition totals for the last N days, today included.
func (handler *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.daily")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	days := defaultChartDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 1 || days > maxChartDays {
			http.Error(w, "error, days must be between 1 and 90", http.StatusBadRequest)
			return
		}
	}
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("days", days))

	today := dayStart(handler.now().In(handler.loc))
	from := today.AddDate(0, 0, -(days - 1))
	to := today.AddDate(0, 0, 1)

	totals, err := handler.repo.DailyTotals(ctx, userID, from, to, handler.loc)
	if err != nil {
		log.Errorf("daily totals [%s]: %s", userID, err)
		http.Error(w, "error, failed to get daily totals", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, FillDays(totals, from, to), http.StatusOK)
}

// parseDate accepts either a full RFC3339 timestamp or a plain date in the handler's location.
func (handler *Handler) parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, handler.loc)
}
