package workout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type Exercise struct {
	Name         string `toml:"name" json:"name"`
	MuscleGroup  string `toml:"muscle_group" json:"muscleGroup"`
	Duration     int    `toml:"duration" json:"duration"`
	Instructions string `toml:"instructions" json:"instructions,omitempty"`
}

type Workout struct {
	ID          string     `toml:"id" json:"id"`
	Name        string     `toml:"name" json:"name"`
	Description string     `toml:"description" json:"description,omitempty"`
	Exercises   []Exercise `toml:"exercises" json:"exercises"`
}

// TotalDuration is the sum of all exercise durations, in seconds.
func (w Workout) TotalDuration() int {
	total := 0
	for _, e := range w.Exercises {
		total += e.Duration
	}
	return total
}

func (w Workout) validate() error {
	if w.ID == "" {
		return errors.New("workout id empty")
	}
	if len(w.Exercises) == 0 {
		return fmt.Errorf("workout [%s] has no exercises", w.ID)
	}
	for i, e := range w.Exercises {
		if e.Duration <= 0 {
			return fmt.Errorf("workout [%s], exercise %d [%s]: duration must be positive", w.ID, i, e.Name)
		}
	}
	return nil
}

type Catalog struct {
	workouts map[string]Workout
	order    []string
}

type catalogToml struct {
	Workouts []Workout `toml:"workouts"`
}

func LoadCatalog(path string) (*Catalog, error) {
	var ct catalogToml
	if _, err := toml.DecodeFile(path, &ct); err != nil {
		return nil, fmt.Errorf("decode workouts catalog [%s]: %w", path, err)
	}
	return NewCatalog(ct.Workouts)
}

func ParseCatalog(data string) (*Catalog, error) {
	var ct catalogToml
	if _, err := toml.Decode(data, &ct); err != nil {
		return nil, fmt.Errorf("decode workouts catalog: %w", err)
	}
	return NewCatalog(ct.Workouts)
}

func NewCatalog(workouts []Workout) (*Catalog, error) {
	c := &Catalog{
		workouts: make(map[string]Workout, len(workouts)),
	}
	for _, w := range workouts {
		if err := w.validate(); err != nil {
			return nil, err
		}
		if _, ok := c.workouts[w.ID]; ok {
			return nil, fmt.Errorf("duplicate workout id [%s]", w.ID)
		}
		c.workouts[w.ID] = w
		c.order = append(c.order, w.ID)
	}
	return c, nil
}

func (c *Catalog) Get(id string) (Workout, error) {
	w, ok := c.workouts[id]
	if !ok {
		return Workout{}, fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
	}
	return w, nil
}

// List returns the workouts in the order they were defined.
func (c *Catalog) List() []Workout {
	workouts := make([]Workout, 0, len(c.order))
	for _, id := range c.order {
		workouts = append(workouts, c.workouts[id])
	}
	return workouts
}

func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	sort.Strings(ids)
	return ids
}
