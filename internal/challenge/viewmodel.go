// Package challenge tracks the yearly A to Z reading challenge.
package challenge

import (
	"context"
	"math"
	"strings"

	"bookshelf/internal/logger"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

const (
	msgLoad      = "Could not load the A-Z challenge."
	msgSave      = "Could not save the A-Z challenge."
	msgClear     = "Could not clear the letter."
	msgNotLoaded = "challenge not loaded yet"
)

// Letters is the number of slots in a challenge.
const Letters = len(models.Alphabet)

type Gateway interface {
	GetChallenge(ctx context.Context, userID models.ID, year int) (*models.Challenge, error)
	CreateChallenge(ctx context.Context, userID models.ID, year int) (models.Challenge, error)
	UpdateChallengeLetter(ctx context.Context, id models.ID, in models.LetterUpdate) error
	ClearChallengeLetter(ctx context.Context, id models.ID, letter string) error
}

// Slot is one letter in display order.
type Slot struct {
	Letter    string
	Title     string
	Completed bool
}

type ViewModel struct {
	viewmodel.State

	gw  Gateway
	log *logger.Logger

	id     models.ID
	titles map[string]string
}

func New(gw Gateway, log *logger.Logger) *ViewModel {
	return &ViewModel{
		gw:     gw,
		log:    logger.OrDiscard(log).With("viewmodel", "challenge"),
		titles: map[string]string{},
	}
}

// Load fetches the challenge for (userID, year), creating it on first visit.
func (vm *ViewModel) Load(ctx context.Context, userID models.ID, year int) error {
	if userID.IsZero() {
		return nil
	}
	seq := vm.Begin(true)
	ch, err := vm.gw.GetChallenge(ctx, userID, year)
	if err == nil && ch == nil {
		var created models.Challenge
		created, err = vm.gw.CreateChallenge(ctx, userID, year)
		ch = &created
	}
	if err != nil {
		vm.log.Warn("load challenge failed", "user_id", userID, "year", year, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgLoad), nil)
		return err
	}

	titles := make(map[string]string, len(ch.Letters))
	for _, l := range ch.Letters {
		titles[normalizeLetter(l.Letter)] = l.BookTitle
	}
	vm.Settle(seq, "", func() {
		vm.id = ch.ID
		vm.titles = titles
	})
	return nil
}

// SetTitle edits one letter locally; Save sends every letter.
func (vm *ViewModel) SetTitle(letter, title string) error {
	letter = normalizeLetter(letter)
	if !validLetter(letter) {
		verr := viewmodel.Invalid("%q is not a letter from A to Z.", letter)
		vm.Reject(verr.Message)
		return verr
	}
	vm.View(func() { vm.titles[letter] = title })
	return nil
}

// Save sends all 26 letters at once and reports how each one went. Letters
// that succeed stay saved even when others fail.
func (vm *ViewModel) Save(ctx context.Context) ([]viewmodel.UnitResult, error) {
	var (
		id     models.ID
		titles map[string]string
	)
	vm.View(func() {
		id = vm.id
		titles = make(map[string]string, len(vm.titles))
		for k, v := range vm.titles {
			titles[k] = v
		}
	})
	if id.IsZero() {
		verr := viewmodel.Invalid(msgNotLoaded)
		vm.Reject(verr.Message)
		return nil, verr
	}

	seq := vm.Begin(false)
	results, err := viewmodel.RunAll(ctx, strings.Split(models.Alphabet, ""), func(ctx context.Context, letter string) error {
		title := strings.TrimSpace(titles[letter])
		return vm.gw.UpdateChallengeLetter(ctx, id, models.LetterUpdate{
			Letter:    letter,
			BookTitle: title,
			Completed: title != "",
		})
	})
	if err != nil {
		vm.log.Warn("save challenge failed", "challenge_id", id, "failed", viewmodel.Failed(results), "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgSave), nil)
		return results, err
	}
	vm.Settle(seq, "", func() {
		for k, v := range vm.titles {
			vm.titles[k] = strings.TrimSpace(v)
		}
	})
	return results, nil
}

// Clear removes the book recorded for letter on the backend.
func (vm *ViewModel) Clear(ctx context.Context, letter string) error {
	letter = normalizeLetter(letter)
	if !validLetter(letter) {
		verr := viewmodel.Invalid("%q is not a letter from A to Z.", letter)
		vm.Reject(verr.Message)
		return verr
	}
	id := vm.ID()
	if id.IsZero() {
		verr := viewmodel.Invalid(msgNotLoaded)
		vm.Reject(verr.Message)
		return verr
	}

	vm.Mark(letter)
	defer vm.Unmark(letter)

	seq := vm.Begin(false)
	if err := vm.gw.ClearChallengeLetter(ctx, id, letter); err != nil {
		vm.log.Warn("clear letter failed", "challenge_id", id, "letter", letter, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgClear), nil)
		return err
	}
	vm.Settle(seq, "", func() { vm.titles[letter] = "" })
	return nil
}

func (vm *ViewModel) ID() models.ID {
	var id models.ID
	vm.View(func() { id = vm.id })
	return id
}

// Slots returns all 26 letters in alphabetical order.
func (vm *ViewModel) Slots() []Slot {
	out := make([]Slot, 0, Letters)
	vm.View(func() {
		for _, r := range models.Alphabet {
			letter := string(r)
			title := vm.titles[letter]
			out = append(out, Slot{Letter: letter, Title: title, Completed: strings.TrimSpace(title) != ""})
		}
	})
	return out
}

// Completed counts letters with a non-blank title.
func (vm *ViewModel) Completed() int {
	n := 0
	for _, s := range vm.Slots() {
		if s.Completed {
			n++
		}
	}
	return n
}

// Percent is round(completed/26*100).
func (vm *ViewModel) Percent() int {
	return int(math.Round(float64(vm.Completed()) / float64(Letters) * 100))
}

func normalizeLetter(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func validLetter(s string) bool {
	return len(s) == 1 && strings.Contains(models.Alphabet, s)
}
