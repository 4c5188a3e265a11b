package rewards

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/nutrifit/internal/gamification"
	"github.com/2beens/nutrifit/internal/telemetry/tracing"
	"github.com/2beens/nutrifit/internal/workout"
	"github.com/2beens/nutrifit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=rewards_test

type rewardsService interface {
	State(ctx context.Context, userID string) (gamification.State, error)
	Login(ctx context.Context, userID string) (Outcome, error)
	CompleteWorkout(ctx context.Context, userID, workoutID string) (Outcome, error)
	Reconcile(ctx context.Context, userID string) (gamification.State, error)
}

type workoutCatalog interface {
	Get(id string) (workout.Workout, error)
	List() []workout.Workout
}

type BadgeStatus struct {
	gamification.Badge
	Unlocked bool `json:"unlocked"`
}

type ProgressResponse struct {
	State             gamification.State     `json:"state"`
	LevelInfo         gamification.LevelInfo `json:"level_info"`
	Progress          float64                `json:"progress"`
	PointsToNextLevel int                    `json:"points_to_next_level"`
	Badges            []BadgeStatus          `json:"badges"`
}

func NewProgressResponse(state gamification.State) ProgressResponse {
	badges := gamification.Badges()
	statuses := make([]BadgeStatus, 0, len(badges))
	for _, b := range badges {
		statuses = append(statuses, BadgeStatus{
			Badge:    b,
			Unlocked: state.HasBadge(b.ID),
		})
	}

	return ProgressResponse{
		State:             state,
		LevelInfo:         gamification.GetLevelInfo(state.Level),
		Progress:          gamification.CalculateProgress(state.Points, state.Level),
		PointsToNextLevel: gamification.PointsToNextLevel(state.Points),
		Badges:            statuses,
	}
}

type Handler struct {
	service  rewardsService
	workouts workoutCatalog
}

func NewHandler(service rewardsService, workouts workoutCatalog) *Handler {
	return &Handler{
		service:  service,
		workouts: workouts,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userID}/gamification", handler.HandleGetProgress).Methods("GET", "OPTIONS").Name("get-progress")
	router.HandleFunc("/users/{userID}/gamification/sync", handler.HandleSync).Methods("POST", "OPTIONS").Name("sync-progress")
	router.HandleFunc("/users/{userID}/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	router.HandleFunc("/users/{userID}/workouts/{workoutID}/complete", handler.HandleCompleteWorkout).Methods("POST", "OPTIONS").Name("complete-workout")
	router.HandleFunc("/workouts", handler.HandleListWorkouts).Methods("GET").Name("list-workouts")
	router.HandleFunc("/workouts/{workoutID}", handler.HandleGetWorkout).Methods("GET").Name("get-workout")
	router.HandleFunc("/badges", handler.HandleListBadges).Methods("GET").Name("list-badges")
	router.HandleFunc("/levels/{level}", handler.HandleGetLevel).Methods("GET").Name("get-level")
}

func (handler *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rewards.progress")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	span.SetAttributes(attribute.String("user.id", userID))

	state, err := handler.service.State(ctx, userID)
	if err != nil {
		handleServiceError(w, "get progress", userID, err)
		return
	}

	pkg.WriteJSON(w, NewProgressResponse(state), http.StatusOK)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rewards.login")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	span.SetAttributes(attribute.String("user.id", userID))

	outcome, err := handler.service.Login(ctx, userID)
	if err != nil {
		handleServiceError(w, "login", userID, err)
		return
	}

	pkg.WriteJSON(w, outcome, http.StatusOK)
}

func (handler *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rewards.sync")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	span.SetAttributes(attribute.String("user.id", userID))

	state, err := handler.service.Reconcile(ctx, userID)
	if errors.Is(err, ErrEmptyUserID) {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	if err != nil {
		// local state is still fine, the client keeps working offline
		log.Warnf("sync [%s]: %s", userID, err)
		http.Error(w, "error, remote state unavailable", http.StatusBadGateway)
		return
	}

	pkg.WriteJSON(w, NewProgressResponse(state), http.StatusOK)
}

func (handler *Handler) HandleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rewards.workout.complete")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userID"]
	workoutID := vars["workoutID"]
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("workout.id", workoutID))

	if _, err := handler.workouts.Get(workoutID); err != nil {
		if errors.Is(err, workout.ErrWorkoutNotFound) {
			http.Error(w, "error, workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("complete workout, get workout [%s]: %s", workoutID, err)
		http.Error(w, "error, failed to complete workout", http.StatusInternalServerError)
		return
	}

	outcome, err := handler.service.CompleteWorkout(ctx, userID, workoutID)
	if err != nil {
		handleServiceError(w, "complete workout", userID, err)
		return
	}

	pkg.WriteJSON(w, outcome, http.StatusCreated)
}

func (handler *Handler) HandleListWorkouts(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, handler.workouts.List(), http.StatusOK)
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID := mux.Vars(r)["workoutID"]
	wo, err := handler.workouts.Get(workoutID)
	if err != nil {
		http.Error(w, "error, workout not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, wo, http.StatusOK)
}

func (handler *Handler) HandleListBadges(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, gamification.Badges(), http.StatusOK)
}

func (handler *Handler) HandleGetLevel(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil {
		http.Error(w, "error, invalid level", http.StatusBadRequest)
		return
	}
	pkg.WriteJSON(w, gamification.GetLevelInfo(level), http.StatusOK)
}

func handleServiceError(w http.ResponseWriter, action, userID string, err error) {
	if errors.Is(err, ErrEmptyUserID) {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	log.Errorf("%s [%s]: %s", action, userID, err)
	http.Error(w, "error, failed to "+action, http.StatusInternalServerError)
}
