package challenge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

type fakeGateway struct {
	mu sync.Mutex

	challenge *models.Challenge
	created   int
	failOn    string

	updates []models.LetterUpdate
	cleared []string
}

func (f *fakeGateway) GetChallenge(context.Context, models.ID, int) (*models.Challenge, error) {
	return f.challenge, nil
}

func (f *fakeGateway) CreateChallenge(_ context.Context, userID models.ID, year int) (models.Challenge, error) {
	f.created++
	ch := models.Challenge{ID: "8", Year: year, UserID: userID}
	for _, r := range models.Alphabet {
		ch.Letters = append(ch.Letters, models.ChallengeLetter{Letter: string(r)})
	}
	return ch, nil
}

func (f *fakeGateway) UpdateChallengeLetter(_ context.Context, _ models.ID, in models.LetterUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Letter == f.failOn {
		return errors.New("letter rejected")
	}
	f.updates = append(f.updates, in)
	return nil
}

func (f *fakeGateway) ClearChallengeLetter(_ context.Context, _ models.ID, letter string) error {
	f.cleared = append(f.cleared, letter)
	return nil
}

func TestLoad_CreatesMissingChallenge(t *testing.T) {
	gw := &fakeGateway{}
	vm := New(gw, nil)

	require.NoError(t, vm.Load(context.Background(), "5", 2026))

	assert.Equal(t, 1, gw.created)
	assert.Equal(t, models.ID("8"), vm.ID())
	assert.Len(t, vm.Slots(), 26)
	assert.Zero(t, vm.Percent())
}

func TestCompletion_HalfTheAlphabet(t *testing.T) {
	ch := &models.Challenge{ID: "3"}
	for i, r := range models.Alphabet {
		l := models.ChallengeLetter{Letter: string(r)}
		if i%2 == 0 {
			l.BookTitle, l.Completed = "Book "+string(r), true
		}
		ch.Letters = append(ch.Letters, l)
	}
	vm := New(&fakeGateway{challenge: ch}, nil)

	require.NoError(t, vm.Load(context.Background(), "5", 2026))

	assert.Equal(t, 13, vm.Completed())
	assert.Equal(t, 50, vm.Percent())
}

func TestSave_SendsEveryLetter(t *testing.T) {
	gw := &fakeGateway{}
	vm := New(gw, nil)
	require.NoError(t, vm.Load(context.Background(), "5", 2026))
	require.NoError(t, vm.SetTitle("a", "  Anna Karenina "))
	require.NoError(t, vm.SetTitle("B", "   "))

	results, err := vm.Save(context.Background())

	require.NoError(t, err)
	assert.Len(t, results, 26)
	require.Len(t, gw.updates, 26)
	byLetter := map[string]models.LetterUpdate{}
	for _, u := range gw.updates {
		byLetter[u.Letter] = u
	}
	assert.Equal(t, models.LetterUpdate{Letter: "A", BookTitle: "Anna Karenina", Completed: true}, byLetter["A"])
	assert.Equal(t, models.LetterUpdate{Letter: "B"}, byLetter["B"])
	assert.Equal(t, 1, vm.Completed())
}

func TestSave_PartialFailure(t *testing.T) {
	gw := &fakeGateway{failOn: "Q"}
	vm := New(gw, nil)
	require.NoError(t, vm.Load(context.Background(), "5", 2026))

	results, err := vm.Save(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"Q"}, viewmodel.Failed(results))
	assert.Len(t, gw.updates, 25)
	assert.Equal(t, msgSave, vm.Err())
}

func TestSave_BeforeLoad(t *testing.T) {
	gw := &fakeGateway{}
	vm := New(gw, nil)

	_, err := vm.Save(context.Background())

	require.Error(t, err)
	assert.Equal(t, msgNotLoaded, vm.Err())
	assert.Empty(t, gw.updates)
}

func TestSetTitle_RejectsNonLetters(t *testing.T) {
	vm := New(&fakeGateway{}, nil)
	assert.Error(t, vm.SetTitle("ab", "x"))
	assert.Error(t, vm.SetTitle("1", "x"))
	assert.True(t, strings.Contains(vm.Err(), "not a letter"))
}

func TestClear(t *testing.T) {
	gw := &fakeGateway{challenge: &models.Challenge{ID: "3", Letters: []models.ChallengeLetter{
		{Letter: "C", BookTitle: "Carrie", Completed: true},
	}}}
	vm := New(gw, nil)
	require.NoError(t, vm.Load(context.Background(), "5", 2026))
	require.Equal(t, 1, vm.Completed())

	require.NoError(t, vm.Clear(context.Background(), "c"))

	assert.Equal(t, []string{"C"}, gw.cleared)
	assert.Zero(t, vm.Completed())
	assert.Empty(t, vm.Processing())
}
