package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/pomolist/internal/db"
	"github.com/tgienger/pomolist/internal/models"
)

type memRepo struct {
	raw     json.RawMessage
	loadErr error
	saveErr error
	saved   []models.Settings
}

func (r *memRepo) LoadSettingsRaw(context.Context) (json.RawMessage, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.raw == nil {
		return nil, db.ErrNotFound
	}
	return r.raw, nil
}

func (r *memRepo) SaveSettings(_ context.Context, s models.Settings) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, s)
	return nil
}

func TestStore_LoadFirstRunPersistsDefaults(t *testing.T) {
	repo := &memRepo{}
	s := New(repo, DefaultLimits())

	got := s.Load(context.Background())

	assert.Equal(t, models.DefaultSettings(), got)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, models.DefaultSettings(), repo.saved[0])
}

func TestStore_LoadMergesOverDefaults(t *testing.T) {
	repo := &memRepo{raw: json.RawMessage(`{"pomodoroDuration": 50}`)}
	s := New(repo, DefaultLimits())

	got := s.Load(context.Background())

	assert.Equal(t, models.Settings{
		FocusDuration:      50,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		LongBreakInterval:  4,
	}, got)
	assert.Empty(t, repo.saved)
}

func TestStore_LoadCorruptFallsBackToDefaults(t *testing.T) {
	for _, repo := range []*memRepo{
		{raw: json.RawMessage(`{"pomodoroDuration": "soon"`)},
		{loadErr: errors.New("database is locked")},
	} {
		s := New(repo, DefaultLimits())
		assert.Equal(t, models.DefaultSettings(), s.Load(context.Background()))
	}
}

func TestStore_LoadClampsStoredValues(t *testing.T) {
	repo := &memRepo{raw: json.RawMessage(`{"pomodoroDuration": 500, "longBreakInterval": 1}`)}
	s := New(repo, DefaultLimits())

	got := s.Load(context.Background())
	assert.Equal(t, 120, got.FocusDuration)
	assert.Equal(t, 2, got.LongBreakInterval)
}

func TestStore_SaveClamps(t *testing.T) {
	repo := &memRepo{}
	s := New(repo, DefaultLimits())

	got, err := s.Save(context.Background(), models.Settings{
		FocusDuration:      0,
		ShortBreakDuration: 5,
		LongBreakDuration:  200,
		LongBreakInterval:  99,
	})
	require.NoError(t, err)

	want := models.Settings{FocusDuration: 1, ShortBreakDuration: 5, LongBreakDuration: 120, LongBreakInterval: 10}
	assert.Equal(t, want, got)
	assert.Equal(t, want, s.Current())
	require.Len(t, repo.saved, 1)
	assert.Equal(t, want, repo.saved[0])
}

func TestStore_SaveFailureKeepsCurrent(t *testing.T) {
	repo := &memRepo{saveErr: errors.New("read-only")}
	s := New(repo, DefaultLimits())

	_, err := s.Save(context.Background(), models.Settings{FocusDuration: 40, ShortBreakDuration: 5, LongBreakDuration: 15, LongBreakInterval: 4})
	assert.Error(t, err)
	assert.Equal(t, 25, s.Current().FocusDuration)
}

func TestStore_ResetDoesNotPersist(t *testing.T) {
	repo := &memRepo{}
	s := New(repo, DefaultLimits())
	_, err := s.Save(context.Background(), models.Settings{FocusDuration: 40, ShortBreakDuration: 5, LongBreakDuration: 15, LongBreakInterval: 4})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultSettings(), s.Reset())
	assert.Equal(t, 40, s.Current().FocusDuration)
	assert.Len(t, repo.saved, 1)
}

func TestStore_WithSQLite(t *testing.T) {
	ctx := context.Background()
	database, err := db.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	s := New(database, DefaultLimits())
	s.Load(ctx)
	_, err = s.Save(ctx, models.Settings{FocusDuration: 30, ShortBreakDuration: 6, LongBreakDuration: 20, LongBreakInterval: 3})
	require.NoError(t, err)

	reloaded := New(database, DefaultLimits())
	assert.Equal(t, 30, reloaded.Load(ctx).FocusDuration)
}
