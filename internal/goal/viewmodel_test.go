package goal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

type fakeGateway struct {
	goal      *models.ReadingGoal
	getErr    error
	createErr error

	created []models.GoalInput
	updated map[models.ID]int
}

func (f *fakeGateway) GetGoal(context.Context, models.ID, int) (*models.ReadingGoal, error) {
	return f.goal, f.getErr
}

func (f *fakeGateway) CreateGoal(_ context.Context, in models.GoalInput) (models.ReadingGoal, error) {
	if f.createErr != nil {
		return models.ReadingGoal{}, f.createErr
	}
	f.created = append(f.created, in)
	return models.ReadingGoal{ID: "77", Year: in.Year, TargetCount: in.TargetCount, UserID: in.UserID}, nil
}

func (f *fakeGateway) UpdateGoal(_ context.Context, id models.ID, target int) error {
	if f.updated == nil {
		f.updated = map[models.ID]int{}
	}
	f.updated[id] = target
	return nil
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 25, Percent(5, 20))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 150, Percent(3, 2))
}

func TestLoad_ExistingGoal(t *testing.T) {
	gw := &fakeGateway{goal: &models.ReadingGoal{
		ID: "4", Year: 2026, TargetCount: 20, ReadCount: 5,
		TopGenres: map[string]int{"Fantasy": 3, "Romance": 3, "Horror": 1},
	}}
	vm := New(gw, nil)

	require.NoError(t, vm.Load(context.Background(), "5", 2026))

	assert.Equal(t, 25, vm.Percent())
	assert.True(t, vm.HasTarget())
	assert.Equal(t, "Fantasy", vm.TopGenre())
	assert.Len(t, vm.Genres(), 3)
}

func TestLoad_MissingGoal(t *testing.T) {
	vm := New(&fakeGateway{}, nil)

	require.NoError(t, vm.Load(context.Background(), "5", 2026))

	assert.Zero(t, vm.Percent())
	assert.False(t, vm.HasTarget())
	assert.True(t, vm.ID().IsZero())
	assert.Equal(t, []GenreCount{{"Dark Romance", 0}, {"Máfia", 0}, {"Romance", 0}}, vm.Genres())
	assert.Equal(t, "Dark Romance", vm.TopGenre())
}

func TestSave_CreatesThenUpdates(t *testing.T) {
	gw := &fakeGateway{}
	vm := New(gw, nil)
	require.NoError(t, vm.Load(context.Background(), "5", 2026))

	vm.SetTarget(12)
	require.NoError(t, vm.Save(context.Background()))
	assert.Equal(t, []models.GoalInput{{Year: 2026, TargetCount: 12, UserID: "5"}}, gw.created)
	assert.Equal(t, models.ID("77"), vm.ID())

	vm.SetTarget(15)
	require.NoError(t, vm.Save(context.Background()))
	assert.Len(t, gw.created, 1)
	assert.Equal(t, map[models.ID]int{"77": 15}, gw.updated)
}

func TestSave_RejectsTargetBelowOne(t *testing.T) {
	gw := &fakeGateway{}
	vm := New(gw, nil)
	require.NoError(t, vm.Load(context.Background(), "5", 2026))

	err := vm.Save(context.Background())

	var ve *viewmodel.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, msgInvalid, vm.Err())
	assert.Empty(t, gw.created)
}

func TestSave_FailureKeepsNoID(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("timeout")}
	vm := New(gw, nil)
	require.NoError(t, vm.Load(context.Background(), "5", 2026))
	vm.SetTarget(3)

	require.Error(t, vm.Save(context.Background()))

	assert.Equal(t, msgSave, vm.Err())
	assert.True(t, vm.ID().IsZero())
}
