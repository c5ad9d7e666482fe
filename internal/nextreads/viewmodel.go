// Package nextreads keeps the prioritized wishlist of books to read next.
package nextreads

import (
	"context"
	"slices"
	"strings"

	"bookshelf/internal/logger"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

const (
	msgLoad   = "Could not load the next reads."
	msgAdd    = "Could not add the book."
	msgRemove = "Could not remove the book."
)

type Gateway interface {
	ListNextReads(ctx context.Context, userID models.ID) ([]models.NextRead, error)
	CreateNextRead(ctx context.Context, in models.NextReadInput) (models.NextRead, error)
	DeleteNextRead(ctx context.Context, id models.ID) error
}

// Draft is the add form. A zero priority means high.
type Draft struct {
	Title    string          `json:"titulo" validate:"required"`
	ImageURL string          `json:"imageUrl" validate:"omitempty,url"`
	Note     string          `json:"complemento"`
	Priority models.Priority `json:"prioridade" validate:"gte=1,lte=3"`
}

type ViewModel struct {
	viewmodel.State

	gw       Gateway
	validate *viewmodel.Validator
	log      *logger.Logger

	userID models.ID
	items  []models.NextRead
}

func New(gw Gateway, log *logger.Logger) *ViewModel {
	return &ViewModel{
		gw:       gw,
		validate: viewmodel.NewValidator(),
		log:      logger.OrDiscard(log).With("viewmodel", "nextreads"),
	}
}

// Load fetches the wishlist, most urgent first.
func (vm *ViewModel) Load(ctx context.Context, userID models.ID) error {
	if userID.IsZero() {
		return nil
	}
	seq := vm.Begin(true)
	items, err := vm.gw.ListNextReads(ctx, userID)
	if err != nil {
		vm.log.Warn("load next reads failed", "user_id", userID, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgLoad), nil)
		return err
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.NextRead) int { return int(a.Priority) - int(b.Priority) })
	vm.Settle(seq, "", func() {
		vm.userID = userID
		vm.items = sorted
	})
	return nil
}

// Add validates d, creates the entry and reloads the list.
func (vm *ViewModel) Add(ctx context.Context, d Draft) error {
	userID := vm.UserID()
	if userID.IsZero() {
		return vm.reject(viewmodel.Invalid("Invalid user for adding a book."))
	}
	d.Title = strings.TrimSpace(d.Title)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Note = strings.TrimSpace(d.Note)
	if d.Priority == 0 {
		d.Priority = models.PriorityHigh
	}
	if err := vm.validate.Validate(d); err != nil {
		return vm.reject(err)
	}

	seq := vm.Begin(false)
	_, err := vm.gw.CreateNextRead(ctx, models.NextReadInput{
		Title:    d.Title,
		ImageURL: models.NullableString(d.ImageURL),
		Note:     models.NullableString(d.Note),
		Priority: d.Priority,
		UserID:   userID,
	})
	if err != nil {
		vm.log.Warn("add next read failed", "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgAdd), nil)
		return err
	}
	vm.Settle(seq, "", nil)
	return vm.Load(ctx, userID)
}

// Remove deletes id and reloads the list.
func (vm *ViewModel) Remove(ctx context.Context, id models.ID) error {
	key := id.String()
	vm.Mark(key)
	defer vm.Unmark(key)

	seq := vm.Begin(false)
	if err := vm.gw.DeleteNextRead(ctx, id); err != nil {
		vm.log.Warn("remove next read failed", "id", id, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgRemove), nil)
		return err
	}
	vm.Settle(seq, "", nil)
	return vm.Load(ctx, vm.UserID())
}

// Items returns the wishlist in priority order.
func (vm *ViewModel) Items() []models.NextRead {
	var out []models.NextRead
	vm.View(func() { out = slices.Clone(vm.items) })
	return out
}

func (vm *ViewModel) UserID() models.ID {
	var id models.ID
	vm.View(func() { id = vm.userID })
	return id
}

func (vm *ViewModel) reject(err error) error {
	vm.Reject(viewmodel.MessageFor(err, "Invalid book."))
	return err
}

// PriorityLabel names a priority for display.
func PriorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "High"
	case models.PriorityMedium:
		return "Medium"
	case models.PriorityLow:
		return "Low"
	default:
		return "No priority"
	}
}
