package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/2beens/nutrifit/internal/analytics"
	"github.com/2beens/nutrifit/internal/config"
	"github.com/2beens/nutrifit/internal/logging"
	"github.com/2beens/nutrifit/internal/workout"

	log "github.com/sirupsen/logrus"
)

const usage = `commands:
  p      play / pause
  n, >   next exercise
  b, <   previous exercise
  f      finish the workout now
  h, s   hide / show the player
  q      quit`

func main() {
	workoutsPath := flag.String("workouts", "./config/workouts.toml", "path for the TOML workouts catalog")
	workoutID := flag.String("workout", "", "id of the workout to play")
	userID := flag.String("user", "", "user id, used for analytics and rewards")
	apiURL := flag.String("api", "", "nutrifit service url, e.g. http://localhost:9000; completion is not reported when empty")
	tick := flag.Duration("tick", workout.DefaultTickInterval, "timer tick interval")
	list := flag.Bool("list", false, "list the available workouts and exit")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{LogLevel: *logLevel})

	catalog, err := workout.LoadCatalog(*workoutsPath)
	if err != nil {
		log.Fatalf("load workouts: %s", err)
	}

	if *list || *workoutID == "" {
		printCatalog(os.Stdout, catalog)
		return
	}

	wo, err := catalog.Get(*workoutID)
	if err != nil {
		log.Fatalf("%s: %s", *workoutID, err)
	}

	secrets, err := config.LoadSecrets(".env")
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	var client *apiClient
	if *apiURL != "" {
		client = newAPIClient(strings.TrimRight(*apiURL, "/"), secrets.AppSecret)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := play(ctx, playParams{
		workout: wo,
		userID:  *userID,
		tick:    *tick,
		in:      os.Stdin,
		out:     os.Stdout,
		client:  client,
	}); err != nil {
		log.Fatal(err)
	}
}

type playParams struct {
	workout workout.Workout
	userID  string
	tick    time.Duration
	in      io.Reader
	out     io.Writer
	client  *apiClient
}

func play(ctx context.Context, params playParams) error {
	out := params.out
	finished := make(chan struct{})

	session, err := workout.NewSession(params.workout, workout.SessionOptions{
		UserID:       params.userID,
		TickInterval: params.tick,
		Sink:         analytics.LogSink{},
		OnExercise: func(index int, e workout.Exercise) {
			fmt.Fprintf(out, "\n[%d/%d] %s (%s) - %ds\n", index+1, len(params.workout.Exercises), e.Name, e.MuscleGroup, e.Duration)
			if e.Instructions != "" {
				fmt.Fprintf(out, "  %s\n", e.Instructions)
			}
		},
		OnTick: func(remaining int) {
			if remaining <= 3 || remaining%10 == 0 {
				fmt.Fprintf(out, "  %ds\n", remaining)
			}
		},
		OnFinished: func() {
			close(finished)
		},
	})
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	defer session.Close()

	fmt.Fprintf(out, "%s: %d exercises, %s\n%s\n", params.workout.Name, len(params.workout.Exercises),
		time.Duration(params.workout.TotalDuration())*time.Second, usage)

	commands := make(chan string)
	go readCommands(ctx, params.in, commands)

	session.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nworkout abandoned")
			return nil
		case <-finished:
			fmt.Fprintln(out, "\nworkout complete!")
			reportCompletion(ctx, params, out)
			return nil
		case cmd, ok := <-commands:
			if !ok {
				// stdin closed, keep playing until the workout is done
				commands = nil
				continue
			}
			if quit := handleCommand(ctx, session, cmd, out); quit {
				fmt.Fprintln(out, "workout abandoned")
				return nil
			}
		}
	}
}

func handleCommand(ctx context.Context, session *workout.Session, cmd string, out io.Writer) (quit bool) {
	switch cmd {
	case "p":
		if session.TogglePlay(ctx) {
			fmt.Fprintln(out, "  resumed")
		} else {
			fmt.Fprintf(out, "  paused at %ds\n", session.TimeRemaining())
		}
	case "n", ">":
		session.HandleSwipe(ctx, workout.SwipeLeft)
	case "b", "<":
		session.HandleSwipe(ctx, workout.SwipeRight)
	case "f":
		session.Finish(ctx)
	case "h":
		session.SetVisible(ctx, false)
	case "s":
		session.SetVisible(ctx, true)
	case "q":
		return true
	case "":
	default:
		fmt.Fprintln(out, usage)
	}
	return false
}

func readCommands(ctx context.Context, in io.Reader, commands chan<- string) {
	defer close(commands)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case commands <- strings.TrimSpace(strings.ToLower(scanner.Text())):
		case <-ctx.Done():
			return
		}
	}
}

func reportCompletion(ctx context.Context, params playParams, out io.Writer) {
	if params.client == nil || params.userID == "" {
		return
	}

	outcome, err := params.client.CompleteWorkout(ctx, params.userID, params.workout.ID)
	if err != nil {
		log.Errorf("report completed workout: %s", err)
		fmt.Fprintln(out, "could not report the workout, try to sync later")
		return
	}

	fmt.Fprintf(out, "+%d points, level %d, %d day streak\n",
		outcome.Award.PointsAwarded, outcome.State.Level, outcome.State.Streak)
	if outcome.Award.LevelUp {
		fmt.Fprintf(out, "level up! %d -> %d\n", outcome.Award.PreviousLevel, outcome.Award.NewLevel)
	}
	for _, b := range outcome.NewBadges {
		fmt.Fprintf(out, "badge unlocked: %s %s\n", b.Icon, b.Name)
	}
}

func printCatalog(out io.Writer, catalog *workout.Catalog) {
	for _, w := range catalog.List() {
		fmt.Fprintf(out, "%-12s %-24s %d exercises, %s\n",
			w.ID, w.Name, len(w.Exercises), time.Duration(w.TotalDuration())*time.Second)
	}
}
