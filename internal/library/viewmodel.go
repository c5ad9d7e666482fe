package library

import (
	"context"
	"fmt"
	"strings"

	"bookshelf/internal/logger"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

// PlaceholderCover is shown for books stored without a cover image.
const PlaceholderCover = "https://via.placeholder.com/300x450?text=Sem+Capa"

const (
	msgLoad     = "Could not load your books."
	msgCreate   = "Could not add the book."
	msgEdit     = "Could not edit the book."
	msgFavorite = "Could not update the favorite."
	msgDelete   = "Could not delete the book."
)

// Gateway is the slice of the backend client the library needs.
type Gateway interface {
	ListBooks(ctx context.Context, userID models.ID) ([]models.Book, error)
	CreateBook(ctx context.Context, in models.BookInput) (models.Book, error)
	UpdateBook(ctx context.Context, id models.ID, patch models.BookPatch) error
	DeleteBook(ctx context.Context, id models.ID) error
}

// Entry is a book in display shape.
type Entry struct {
	ID          models.ID
	Label       string
	Title       string
	Author      string
	Genre       string
	Cover       string
	ReadingDays int
	Stars       int
	Hearts      int
	Intensity   int
	Emotion     int
	Favorite    bool
}

// Draft is the new-book form.
type Draft struct {
	Title       string `json:"titulo" validate:"required"`
	Author      string `json:"autor" validate:"required"`
	Genre       string `json:"genero"`
	CoverURL    string `json:"imagemUrl" validate:"omitempty,url"`
	ReadingDays int    `json:"tempoLeituraDias" validate:"gte=1"`
	Stars       int    `json:"estrelas" validate:"gte=1,lte=5"`
	Hearts      int    `json:"coracoes" validate:"gte=0,lte=5"`
	Intensity   int    `json:"fogos" validate:"gte=0,lte=5"`
	Emotion     int    `json:"humor" validate:"gte=0,lte=5"`
}

// Edit is the edit-in-place form. Out-of-range ratings are clamped, not rejected.
type Edit struct {
	Title       string
	Author      string
	Genre       string
	ReadingDays int
	Stars       int
	Hearts      int
}

// ViewModel caches one user's library.
type ViewModel struct {
	viewmodel.State

	gw       Gateway
	validate *viewmodel.Validator
	log      *logger.Logger

	userID  models.ID
	entries []Entry
}

func New(gw Gateway, log *logger.Logger) *ViewModel {
	return &ViewModel{
		gw:       gw,
		validate: viewmodel.NewValidator(),
		log:      logger.OrDiscard(log).With("viewmodel", "library"),
	}
}

// Load fetches the user's books. An empty user id is a no-op.
func (vm *ViewModel) Load(ctx context.Context, userID models.ID) error {
	if userID.IsZero() {
		return nil
	}
	seq := vm.Begin(true)
	books, err := vm.gw.ListBooks(ctx, userID)
	if err != nil {
		vm.log.Warn("load books failed", "user_id", userID, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgLoad), nil)
		return err
	}

	entries := make([]Entry, 0, len(books))
	for _, b := range books {
		entries = append(entries, toEntry(b))
	}
	vm.Settle(seq, "", func() {
		vm.userID = userID
		vm.entries = relabel(entries)
	})
	return nil
}

// Create validates d and adds the book once the backend confirms it.
func (vm *ViewModel) Create(ctx context.Context, d Draft) (Entry, error) {
	userID := vm.UserID()
	if userID.IsZero() {
		return Entry{}, vm.reject(viewmodel.Invalid("Invalid user for adding a book."))
	}
	d = trimDraft(d)
	if err := vm.validate.Validate(d); err != nil {
		return Entry{}, vm.reject(err)
	}

	seq := vm.Begin(false)
	book, err := vm.gw.CreateBook(ctx, models.BookInput{
		Title:       d.Title,
		Author:      d.Author,
		CoverURL:    models.NullableString(d.CoverURL),
		Genre:       models.NullableString(d.Genre),
		ReadingDays: d.ReadingDays,
		Stars:       d.Stars,
		Hearts:      d.Hearts,
		Intensity:   d.Intensity,
		Emotion:     d.Emotion,
		Favorite:    d.Hearts > 0,
		UserID:      userID,
	})
	if err != nil {
		vm.log.Warn("create book failed", "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgCreate), nil)
		return Entry{}, err
	}

	entry := toEntry(book)
	vm.Settle(seq, "", func() {
		vm.entries = relabel(append(vm.entries, entry))
		entry = vm.entries[len(vm.entries)-1]
	})
	return entry, nil
}

// Edit saves the edit form for id.
func (vm *ViewModel) Edit(ctx context.Context, id models.ID, e Edit) error {
	key := id.String()
	vm.Mark(key)
	defer vm.Unmark(key)

	e.Title = strings.TrimSpace(e.Title)
	e.Author = strings.TrimSpace(e.Author)
	e.Genre = strings.TrimSpace(e.Genre)
	if e.Title == "" || e.Author == "" {
		return vm.reject(viewmodel.Invalid("Title and author are required."))
	}
	e.ReadingDays = max(e.ReadingDays, 1)
	e.Stars = clamp(e.Stars, 1, 5)
	e.Hearts = clamp(e.Hearts, 0, 5)

	seq := vm.Begin(false)
	err := vm.gw.UpdateBook(ctx, id, models.BookPatch{
		Title:       &e.Title,
		Author:      &e.Author,
		Genre:       models.SetString(e.Genre),
		ReadingDays: &e.ReadingDays,
		Stars:       &e.Stars,
		Hearts:      &e.Hearts,
	})
	if err != nil {
		vm.log.Warn("edit book failed", "book_id", id, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgEdit), nil)
		return err
	}

	vm.Settle(seq, "", func() {
		vm.update(id, func(en *Entry) {
			en.Title, en.Author, en.Genre = e.Title, e.Author, e.Genre
			en.ReadingDays, en.Stars, en.Hearts = e.ReadingDays, e.Stars, e.Hearts
		})
	})
	return nil
}

// ToggleFavorite flips the favorite flag of id.
func (vm *ViewModel) ToggleFavorite(ctx context.Context, id models.ID) error {
	key := id.String()
	vm.Mark(key)
	defer vm.Unmark(key)

	entry, ok := vm.Get(id)
	if !ok {
		return vm.reject(viewmodel.Invalid("Book %s is not in the library.", id))
	}
	fav := !entry.Favorite

	seq := vm.Begin(false)
	if err := vm.gw.UpdateBook(ctx, id, models.BookPatch{Favorite: &fav}); err != nil {
		vm.log.Warn("toggle favorite failed", "book_id", id, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgFavorite), nil)
		return err
	}
	vm.Settle(seq, "", func() {
		vm.update(id, func(en *Entry) { en.Favorite = fav })
	})
	return nil
}

// Delete removes id from the backend and then from the local list.
func (vm *ViewModel) Delete(ctx context.Context, id models.ID) error {
	key := id.String()
	vm.Mark(key)
	defer vm.Unmark(key)

	seq := vm.Begin(false)
	if err := vm.gw.DeleteBook(ctx, id); err != nil {
		vm.log.Warn("delete book failed", "book_id", id, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgDelete), nil)
		return err
	}
	vm.Settle(seq, "", func() {
		kept := vm.entries[:0:0]
		for _, en := range vm.entries {
			if en.ID != id {
				kept = append(kept, en)
			}
		}
		vm.entries = relabel(kept)
	})
	return nil
}

// Entries returns a copy of the current list.
func (vm *ViewModel) Entries() []Entry {
	var out []Entry
	vm.View(func() { out = append([]Entry(nil), vm.entries...) })
	return out
}

func (vm *ViewModel) Get(id models.ID) (Entry, bool) {
	var (
		out Entry
		ok  bool
	)
	vm.View(func() {
		for _, en := range vm.entries {
			if en.ID == id {
				out, ok = en, true
				return
			}
		}
	})
	return out, ok
}

func (vm *ViewModel) Count() int {
	var n int
	vm.View(func() { n = len(vm.entries) })
	return n
}

// UserID is the user the list was last loaded for.
func (vm *ViewModel) UserID() models.ID {
	var id models.ID
	vm.View(func() { id = vm.userID })
	return id
}

func (vm *ViewModel) reject(err error) error {
	vm.Reject(viewmodel.MessageFor(err, "Invalid book."))
	return err
}

// update must run under the state lock.
func (vm *ViewModel) update(id models.ID, fn func(*Entry)) {
	for i := range vm.entries {
		if vm.entries[i].ID == id {
			fn(&vm.entries[i])
			return
		}
	}
}

func toEntry(b models.Book) Entry {
	cover := strings.TrimSpace(b.CoverURL)
	if cover == "" {
		cover = PlaceholderCover
	}
	return Entry{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Cover:       cover,
		ReadingDays: b.ReadingDays,
		Stars:       b.Stars,
		Hearts:      b.Hearts,
		Intensity:   b.Intensity,
		Emotion:     b.Emotion,
		Favorite:    b.Favorite,
	}
}

func relabel(entries []Entry) []Entry {
	for i := range entries {
		entries[i].Label = fmt.Sprintf("#%02d", i+1)
	}
	return entries
}

func trimDraft(d Draft) Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.Genre = strings.TrimSpace(d.Genre)
	d.CoverURL = strings.TrimSpace(d.CoverURL)
	return d
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
