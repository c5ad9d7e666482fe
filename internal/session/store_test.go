package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/gateway"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

type fakeDirectory struct {
	mu sync.Mutex

	users     map[models.ID]models.User
	getErr    error
	createErr error
	createID  models.ID

	getCalls    []models.ID
	createCalls []string
}

func (f *fakeDirectory) GetUser(_ context.Context, id models.ID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeDirectory) GetOrCreateUser(_ context.Context, name string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, name)
	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	return models.User{ID: f.createID, Name: name}, nil
}

func (f *fakeDirectory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.getCalls) + len(f.createCalls)
}

func seeded(t *testing.T, raw string) *MemoryStorage {
	t.Helper()
	st := NewMemoryStorage()
	require.NoError(t, st.Set(context.Background(), StorageKey, raw))
	return st
}

func persisted(t *testing.T, st Storage) (models.User, bool) {
	t.Helper()
	raw, ok, err := st.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	if !ok {
		return models.User{}, false
	}
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return u, true
}

func TestBootstrap_ValidRecordFound(t *testing.T) {
	dir := &fakeDirectory{users: map[models.ID]models.User{"5": {ID: "5", Name: "Ana"}}}
	st := seeded(t, `{"id":"5","nome":"Ana"}`)
	s := New(dir, st, nil)

	assert.Equal(t, Active, s.Bootstrap(context.Background()))

	u, ok := s.Identity()
	assert.True(t, ok)
	assert.Equal(t, models.User{ID: "5", Name: "Ana"}, u)
	rec, ok := persisted(t, st)
	require.True(t, ok)
	assert.Equal(t, models.User{ID: "5", Name: "Ana"}, rec)
	assert.Empty(t, dir.createCalls)
}

func TestBootstrap_StaleIDRecreatesByName(t *testing.T) {
	dir := &fakeDirectory{createID: "9"}
	st := seeded(t, `{"id":5,"nome":"Ana"}`)
	s := New(dir, st, nil)

	assert.Equal(t, Active, s.Bootstrap(context.Background()))

	assert.Equal(t, []models.ID{"5"}, dir.getCalls)
	assert.Equal(t, []string{"Ana"}, dir.createCalls)
	rec, ok := persisted(t, st)
	require.True(t, ok)
	assert.Equal(t, models.User{ID: "9", Name: "Ana"}, rec)
	assert.Equal(t, models.ID("9"), s.UserID())
}

func TestBootstrap_NoRecordMakesNoCalls(t *testing.T) {
	dir := &fakeDirectory{}
	s := New(dir, NewMemoryStorage(), nil)

	assert.Equal(t, LoggedOut, s.Bootstrap(context.Background()))
	assert.Zero(t, dir.calls())
	assert.Empty(t, s.UserID())
}

func TestBootstrap_MalformedRecordBecomesName(t *testing.T) {
	dir := &fakeDirectory{createID: "12"}
	st := seeded(t, `Ana`)
	s := New(dir, st, nil)

	assert.Equal(t, Active, s.Bootstrap(context.Background()))

	assert.Empty(t, dir.getCalls)
	assert.Equal(t, []string{"Ana"}, dir.createCalls)
	rec, _ := persisted(t, st)
	assert.Equal(t, models.User{ID: "12", Name: "Ana"}, rec)
}

func TestBootstrap_IncompleteRecordIsLeftAlone(t *testing.T) {
	dir := &fakeDirectory{}
	st := seeded(t, `{"nome":"Ana"}`)
	s := New(dir, st, nil)

	assert.Equal(t, LoggedOut, s.Bootstrap(context.Background()))

	assert.Zero(t, dir.calls())
	raw, ok, err := st.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"nome":"Ana"}`, raw)
}

func TestBootstrap_NetworkFailureClearsRecord(t *testing.T) {
	dir := &fakeDirectory{getErr: &gateway.HTTPError{StatusCode: http.StatusBadGateway, Message: "backend down"}}
	st := seeded(t, `{"id":5,"nome":"Ana"}`)
	s := New(dir, st, nil)

	assert.Equal(t, LoggedOut, s.Bootstrap(context.Background()))

	assert.Equal(t, "backend down", s.Err())
	_, ok := persisted(t, st)
	assert.False(t, ok)
}

func TestBootstrap_RunsOnce(t *testing.T) {
	dir := &fakeDirectory{users: map[models.ID]models.User{"5": {ID: "5", Name: "Ana"}}}
	s := New(dir, seeded(t, `{"id":5,"nome":"Ana"}`), nil)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Bootstrap(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, Active, s.State())
	assert.Equal(t, 1, dir.calls())
}

func TestSubmit(t *testing.T) {
	dir := &fakeDirectory{createID: "3"}
	st := NewMemoryStorage()
	s := New(dir, st, nil)

	require.ErrorIs(t, s.Submit(context.Background(), "Ana"), ErrNotReady)
	s.Bootstrap(context.Background())

	err := s.Submit(context.Background(), "   ")
	var ve *viewmodel.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Please enter your name.", s.Err())
	assert.Zero(t, dir.calls())

	require.NoError(t, s.Submit(context.Background(), "  Ana "))
	assert.Equal(t, Active, s.State())
	assert.Empty(t, s.Err())
	rec, _ := persisted(t, st)
	assert.Equal(t, models.User{ID: "3", Name: "Ana"}, rec)

	assert.ErrorIs(t, s.Submit(context.Background(), "Bruno"), ErrNotLoggedOut)
}

func TestSubmit_FailureStaysLoggedOut(t *testing.T) {
	dir := &fakeDirectory{createErr: errors.New("dial tcp: connection refused")}
	s := New(dir, NewMemoryStorage(), nil)
	s.Bootstrap(context.Background())

	require.Error(t, s.Submit(context.Background(), "Ana"))

	assert.Equal(t, LoggedOut, s.State())
	assert.Equal(t, "Could not sign in. Please try again.", s.Err())
}

func TestLogout(t *testing.T) {
	dir := &fakeDirectory{users: map[models.ID]models.User{"5": {ID: "5", Name: "Ana"}}}
	st := seeded(t, `{"id":5,"nome":"Ana"}`)
	s := New(dir, st, nil)
	s.Bootstrap(context.Background())

	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, LoggedOut, s.State())
	_, ok := persisted(t, st)
	assert.False(t, ok)
}

func TestBootstrap_FoundUserWithoutIDFallsBackToName(t *testing.T) {
	dir := &fakeDirectory{users: map[models.ID]models.User{"5": {}}, createID: "9"}
	st := seeded(t, `{"id":5,"nome":"Ana"}`)
	s := New(dir, st, nil)

	assert.Equal(t, Active, s.Bootstrap(context.Background()))

	assert.Equal(t, []models.ID{"5"}, dir.getCalls)
	assert.Equal(t, []string{"Ana"}, dir.createCalls)
	rec, ok := persisted(t, st)
	require.True(t, ok)
	assert.Equal(t, models.User{ID: "9", Name: "Ana"}, rec)
}

func TestBootstrap_CreatedUserWithoutIDLogsOut(t *testing.T) {
	dir := &fakeDirectory{}
	st := seeded(t, `{"id":5,"nome":"Ana"}`)
	s := New(dir, st, nil)

	assert.Equal(t, LoggedOut, s.Bootstrap(context.Background()))

	assert.Empty(t, s.UserID())
	assert.Equal(t, "Could not validate your session. Please sign in again.", s.Err())
	_, ok := persisted(t, st)
	assert.False(t, ok)
}

func TestBootstrap_NonObjectRecordLogsOut(t *testing.T) {
	for _, raw := range []string{`"Ana"`, `42`, `null`, `["Ana"]`} {
		t.Run(raw, func(t *testing.T) {
			dir := &fakeDirectory{createID: "9"}
			st := seeded(t, raw)
			s := New(dir, st, nil)

			assert.Equal(t, LoggedOut, s.Bootstrap(context.Background()))

			assert.Zero(t, dir.calls())
			got, ok, err := st.Get(context.Background(), StorageKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, raw, got)
		})
	}
}

func TestSubmit_UserWithoutIDStaysLoggedOut(t *testing.T) {
	dir := &fakeDirectory{}
	st := NewMemoryStorage()
	s := New(dir, st, nil)
	s.Bootstrap(context.Background())

	err := s.Submit(context.Background(), "Ana")

	require.ErrorIs(t, err, ErrMissingID)
	assert.Equal(t, LoggedOut, s.State())
	assert.Equal(t, "Could not sign in. Please try again.", s.Err())
	_, ok := persisted(t, st)
	assert.False(t, ok)
}

// idlessBackend answers user lookups with null and creations with 204.
func idlessBackend(t *testing.T) *gateway.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/Usuarios":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		case r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`null`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(ts.Close)
	return gateway.NewWithHTTPClient(ts.URL, ts.Client(), nil)
}

func TestStore_BackendWithoutIDs(t *testing.T) {
	gw := idlessBackend(t)

	st := seeded(t, `{"id":5,"nome":"Ana"}`)
	s := New(gw, st, nil)
	assert.Equal(t, LoggedOut, s.Bootstrap(context.Background()))
	_, ok := persisted(t, st)
	assert.False(t, ok)

	require.ErrorIs(t, s.Submit(context.Background(), "Ana"), ErrMissingID)
	assert.Equal(t, LoggedOut, s.State())
	assert.Empty(t, s.UserID())
	_, ok = persisted(t, st)
	assert.False(t, ok)
}
