// Package goal tracks the yearly reading goal and its genre breakdown.
package goal

import (
	"context"
	"maps"
	"math"
	"slices"

	"bookshelf/internal/logger"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

const (
	msgLoad    = "Could not load the reading goal."
	msgSave    = "Could not save the reading goal."
	msgInvalid = "Enter a valid goal to save."
)

// DefaultGenres is shown until the backend reports a breakdown.
var DefaultGenres = map[string]int{"Romance": 0, "Dark Romance": 0, "Máfia": 0}

type Gateway interface {
	GetGoal(ctx context.Context, userID models.ID, year int) (*models.ReadingGoal, error)
	CreateGoal(ctx context.Context, in models.GoalInput) (models.ReadingGoal, error)
	UpdateGoal(ctx context.Context, id models.ID, target int) error
}

// GenreCount is one row of the breakdown.
type GenreCount struct {
	Genre string
	Count int
}

type ViewModel struct {
	viewmodel.State

	gw  Gateway
	log *logger.Logger

	userID models.ID
	year   int
	id     models.ID
	target int
	read   int
	genres map[string]int
}

func New(gw Gateway, log *logger.Logger) *ViewModel {
	return &ViewModel{
		gw:     gw,
		log:    logger.OrDiscard(log).With("viewmodel", "goal"),
		genres: maps.Clone(DefaultGenres),
	}
}

// Load fetches the goal for (userID, year). A missing goal reads as target 0.
func (vm *ViewModel) Load(ctx context.Context, userID models.ID, year int) error {
	if userID.IsZero() {
		return nil
	}
	seq := vm.Begin(true)
	g, err := vm.gw.GetGoal(ctx, userID, year)
	if err != nil {
		vm.log.Warn("load goal failed", "user_id", userID, "year", year, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgLoad), nil)
		return err
	}

	vm.Settle(seq, "", func() {
		vm.userID, vm.year = userID, year
		if g == nil {
			vm.id, vm.target, vm.read = "", 0, 0
			vm.genres = maps.Clone(DefaultGenres)
			return
		}
		vm.id, vm.target, vm.read = g.ID, g.TargetCount, max(g.ReadCount, 0)
		if len(g.TopGenres) > 0 {
			vm.genres = maps.Clone(g.TopGenres)
		} else {
			vm.genres = maps.Clone(DefaultGenres)
		}
	})
	return nil
}

// SetTarget edits the target locally; Save sends it.
func (vm *ViewModel) SetTarget(n int) {
	vm.View(func() { vm.target = n })
}

// Save updates the existing goal or creates one and remembers its id.
func (vm *ViewModel) Save(ctx context.Context) error {
	var (
		userID models.ID
		year   int
		id     models.ID
		target int
	)
	vm.View(func() { userID, year, id, target = vm.userID, vm.year, vm.id, vm.target })
	if userID.IsZero() || target < 1 {
		verr := viewmodel.Invalid(msgInvalid)
		vm.Reject(verr.Message)
		return verr
	}

	seq := vm.Begin(false)
	if !id.IsZero() {
		if err := vm.gw.UpdateGoal(ctx, id, target); err != nil {
			return vm.failSave(seq, err)
		}
		vm.Settle(seq, "", nil)
		return nil
	}

	created, err := vm.gw.CreateGoal(ctx, models.GoalInput{Year: year, TargetCount: target, UserID: userID})
	if err != nil {
		return vm.failSave(seq, err)
	}
	vm.Settle(seq, "", func() { vm.id = created.ID })
	return nil
}

func (vm *ViewModel) failSave(seq uint64, err error) error {
	vm.log.Warn("save goal failed", "error", err)
	vm.Settle(seq, viewmodel.MessageFor(err, msgSave), nil)
	return err
}

// Percent is round(read/target*100), or 0 without a target.
func (vm *ViewModel) Percent() int {
	var target, read int
	vm.View(func() { target, read = vm.target, vm.read })
	return Percent(read, target)
}

func Percent(read, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(read) / float64(target) * 100))
}

// HasTarget is false while the user still has to define a goal.
func (vm *ViewModel) HasTarget() bool {
	var target int
	vm.View(func() { target = vm.target })
	return target > 0
}

func (vm *ViewModel) ID() models.ID {
	var id models.ID
	vm.View(func() { id = vm.id })
	return id
}

func (vm *ViewModel) Year() int {
	var y int
	vm.View(func() { y = vm.year })
	return y
}

func (vm *ViewModel) Target() int {
	var n int
	vm.View(func() { n = vm.target })
	return n
}

func (vm *ViewModel) Read() int {
	var n int
	vm.View(func() { n = vm.read })
	return n
}

// Genres returns the breakdown sorted by genre name.
func (vm *ViewModel) Genres() []GenreCount {
	var out []GenreCount
	vm.View(func() {
		for _, name := range slices.Sorted(maps.Keys(vm.genres)) {
			out = append(out, GenreCount{Genre: name, Count: vm.genres[name]})
		}
	})
	return out
}

// TopGenre returns the most read genre; ties go to the alphabetically first.
func (vm *ViewModel) TopGenre() string {
	top, best := "", math.MinInt
	for _, gc := range vm.Genres() {
		if gc.Count > best {
			top, best = gc.Genre, gc.Count
		}
	}
	return top
}
