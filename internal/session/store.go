// Package session keeps the current user identity across restarts and
// validates it against the backend once per process.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bookshelf/internal/gateway"
	"bookshelf/internal/logger"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

// StorageKey is the slot the identity record lives under.
const StorageKey = "bookshelf_usuario"

type State int

const (
	Bootstrapping State = iota
	Validating
	Active
	LoggedOut
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Validating:
		return "validating"
	case Active:
		return "active"
	case LoggedOut:
		return "logged_out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNotLoggedOut = errors.New("session: a user is already active")
	ErrNotReady     = errors.New("session: bootstrap has not finished")

	// ErrMissingID means the backend answered without a user id.
	ErrMissingID = errors.New("session: backend returned a user without an id")
)

// UserDirectory is the slice of the gateway the store needs.
type UserDirectory interface {
	GetUser(ctx context.Context, id models.ID) (*models.User, error)
	GetOrCreateUser(ctx context.Context, name string) (models.User, error)
}

var _ UserDirectory = (*gateway.Client)(nil)

// Store owns the identity state machine.
type Store struct {
	dir     UserDirectory
	storage Storage
	log     *logger.Logger

	once sync.Once

	mu    sync.RWMutex
	state State
	user  models.User
	err   string
}

func New(dir UserDirectory, storage Storage, log *logger.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{
		dir:     dir,
		storage: storage,
		log:     logger.OrDiscard(log).With("component", "session"),
		state:   Bootstrapping,
	}
}

// Bootstrap reads the persisted record and validates it. Only the first call
// does any work; later calls return the current state.
func (s *Store) Bootstrap(ctx context.Context) State {
	s.once.Do(func() { s.bootstrap(ctx) })
	return s.State()
}

func (s *Store) bootstrap(ctx context.Context) {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.log.Warn("read session record failed", "error", err)
		s.setLoggedOut("")
		return
	}
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		s.setLoggedOut("")
		return
	}

	var rec models.User
	if !json.Valid([]byte(raw)) {
		s.log.Info("session record is not JSON, keeping it as a name")
		rec = models.User{Name: raw}
	} else if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.ID.IsZero() || strings.TrimSpace(rec.Name) == "" {
		// parsable but not a complete identity object
		s.setLoggedOut("")
		return
	}
	rec.Name = strings.TrimSpace(rec.Name)

	s.set(Validating, models.User{}, "")
	s.validate(ctx, rec)
}

func (s *Store) validate(ctx context.Context, rec models.User) {
	var found *models.User
	if !rec.ID.IsZero() {
		u, err := s.dir.GetUser(ctx, rec.ID)
		if err != nil {
			s.failValidation(ctx, err)
			return
		}
		found = u
	}

	switch {
	case found != nil && !found.ID.IsZero():
		name := strings.TrimSpace(found.Name)
		if name == "" {
			name = rec.Name
		}
		s.activate(ctx, models.User{ID: found.ID, Name: name})
	case rec.Name != "":
		u, err := s.dir.GetOrCreateUser(ctx, rec.Name)
		if err == nil && u.ID.IsZero() {
			err = ErrMissingID
		}
		if err != nil {
			s.failValidation(ctx, err)
			return
		}
		s.activate(ctx, normalize(u, rec.Name))
	default:
		s.clear(ctx)
		s.setLoggedOut("")
	}
}

func (s *Store) failValidation(ctx context.Context, err error) {
	s.log.Warn("session validation failed", "error", err)
	s.clear(ctx)
	s.setLoggedOut(viewmodel.MessageFor(err, "Could not validate your session. Please sign in again."))
}

// Submit registers or looks up name and activates it. Only valid while logged out.
func (s *Store) Submit(ctx context.Context, name string) error {
	switch s.State() {
	case LoggedOut:
	case Active:
		return ErrNotLoggedOut
	default:
		return ErrNotReady
	}

	name = strings.TrimSpace(name)
	if name == "" {
		verr := viewmodel.Invalid("Please enter your name.")
		s.setErr(verr.Message)
		return verr
	}

	u, err := s.dir.GetOrCreateUser(ctx, name)
	if err == nil && u.ID.IsZero() {
		err = ErrMissingID
	}
	if err != nil {
		s.log.Warn("sign in failed", "error", err)
		s.setErr(viewmodel.MessageFor(err, "Could not sign in. Please try again."))
		return err
	}
	s.activate(ctx, normalize(u, name))
	return nil
}

// Logout forgets the identity and its persisted record.
func (s *Store) Logout(ctx context.Context) error {
	// a later Bootstrap must not resurrect the old identity
	s.once.Do(func() {})
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		s.setLoggedOut("")
		return fmt.Errorf("clear session record: %w", err)
	}
	s.setLoggedOut("")
	return nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the active user. ok is false unless the store is Active.
func (s *Store) Identity() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.state == Active
}

// UserID returns the active user's id, or "".
func (s *Store) UserID() models.ID {
	u, ok := s.Identity()
	if !ok {
		return ""
	}
	return u.ID
}

// Err returns the message from the last failed step, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) activate(ctx context.Context, u models.User) {
	if err := s.persist(ctx, u); err != nil {
		s.log.Warn("persist session record failed", "error", err)
	}
	s.set(Active, u, "")
}

func (s *Store) persist(ctx context.Context, u models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, StorageKey, string(b))
}

func (s *Store) clear(ctx context.Context) {
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		s.log.Warn("clear session record failed", "error", err)
	}
}

func (s *Store) set(state State, u models.User, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.user, s.err = state, u, msg
}

func (s *Store) setLoggedOut(msg string) {
	s.set(LoggedOut, models.User{}, msg)
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

func normalize(u models.User, fallbackName string) models.User {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = fallbackName
	}
	return models.User{ID: u.ID, Name: name}
}
