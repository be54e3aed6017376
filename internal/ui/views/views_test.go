package views

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/pomolist/internal/advisor"
	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/db"
	"github.com/tgienger/pomolist/internal/models"
	"github.com/tgienger/pomolist/internal/settings"
	"github.com/tgienger/pomolist/internal/tasks"
	"github.com/tgienger/pomolist/internal/timer"
)

type stubAdvisor struct {
	order []string
	err   error
}

func (s stubAdvisor) Sort(context.Context, []advisor.Item) ([]string, error) {
	return s.order, s.err
}

func newTestApp(t *testing.T, adv advisor.Advisor) *app.App {
	t.Helper()
	ctx := context.Background()

	database, err := db.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	settingsStore := settings.New(database, settings.DefaultLimits())
	settingsStore.Load(ctx)

	return app.NewApp(
		tasks.Load(ctx, database),
		settingsStore,
		database,
		adv,
		timer.NotifierFunc(func() error { return nil }),
	)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(v tea.Model, text string) {
	for _, r := range text {
		v.Update(keyPress(string(r)))
	}
}

func texts(ts []models.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Text
	}
	return out
}

func TestTaskListView_AddTask(t *testing.T) {
	a := newTestApp(t, nil)
	v := NewTaskListView(context.Background(), a)

	v.Update(keyPress("n"))
	typeText(v, "buy milk")
	v.Update(keyPress("enter"))

	all := a.Tasks.All()
	require.Len(t, all, 1)
	assert.Equal(t, "buy milk", all[0].Text)
	assert.Equal(t, models.GroupInbox, all[0].Group)
	assert.False(t, a.InboxCollapsed())
	assert.Contains(t, v.View(), "buy milk")
}

func TestTaskListView_EscCancelsInput(t *testing.T) {
	a := newTestApp(t, nil)
	v := NewTaskListView(context.Background(), a)

	v.Update(keyPress("n"))
	typeText(v, "never mind")
	v.Update(keyPress("esc"))

	assert.Empty(t, a.Tasks.All())
}

func TestTaskListView_DeleteNeedsConfirmation(t *testing.T) {
	a := newTestApp(t, nil)
	a.AddTask("keep me")
	v := NewTaskListView(context.Background(), a)

	v.Update(keyPress("d"))
	assert.Contains(t, v.View(), `Delete "keep me"?`)
	v.Update(keyPress("n"))
	assert.Len(t, a.Tasks.All(), 1)
	assert.False(t, a.Gate.Active())

	v.Update(keyPress("d"))
	v.Update(keyPress("y"))
	assert.Empty(t, a.Tasks.All())
}

func TestTaskListView_TaskCommands(t *testing.T) {
	a := newTestApp(t, nil)
	task, _ := a.AddTask("write tests")
	v := NewTaskListView(context.Background(), a)

	v.Update(keyPress("p"))
	v.Update(keyPress("+"))
	v.Update(keyPress("+"))
	v.Update(keyPress("-"))
	v.Update(keyPress("m"))

	got, _ := a.Tasks.Get(task.ID)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, 2, got.Pomodoros)
	assert.Equal(t, models.GroupToday, got.Group)

	v.Update(keyPress(" "))
	got, _ = a.Tasks.Get(task.ID)
	assert.True(t, got.Completed)
}

func TestTaskListView_PriorityKeyIgnoresCompletedTask(t *testing.T) {
	a := newTestApp(t, nil)
	task, _ := a.AddTask("done already")
	a.Tasks.ToggleCompleted(task.ID)
	v := NewTaskListView(context.Background(), a)

	v.Update(keyPress("p"))

	got, _ := a.Tasks.Get(task.ID)
	assert.Equal(t, models.PriorityMedium, got.Priority)
}

func TestTaskListView_DueDate(t *testing.T) {
	a := newTestApp(t, nil)
	task, _ := a.AddTask("file taxes")
	v := NewTaskListView(context.Background(), a)

	v.Update(keyPress("u"))
	typeText(v, "2025-13-40")
	v.Update(keyPress("enter"))
	assert.Contains(t, v.View(), "dates look like")

	v.Update(keyPress("esc"))
	v.Update(keyPress("u"))
	typeText(v, "2025-04-15")
	v.Update(keyPress("enter"))

	got, _ := a.Tasks.Get(task.ID)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-04-15", got.DueDate.String())
}

func TestTaskListView_TimerTicks(t *testing.T) {
	a := newTestApp(t, nil)
	task, _ := a.AddTask("deep work")
	v := NewTaskListView(context.Background(), a)

	_, cmd := v.Update(keyPress("s"))
	require.NotNil(t, cmd)
	assert.True(t, a.Timer.IsActive(task.ID))
	gen := a.Timer.Generation()

	_, cmd = v.Update(TickMsg{Gen: gen})
	assert.NotNil(t, cmd)
	assert.Equal(t, 1499, a.Timer.Snapshot().SecondsRemaining)

	// pausing starts a new generation, so the old chain stops
	_, cmd = v.Update(keyPress("s"))
	assert.Nil(t, cmd)
	assert.Equal(t, timer.Paused, a.Timer.State())

	_, cmd = v.Update(TickMsg{Gen: gen})
	assert.Nil(t, cmd)
	assert.Equal(t, 1499, a.Timer.Snapshot().SecondsRemaining)

	_, cmd = v.Update(keyPress("s"))
	assert.NotNil(t, cmd)
	assert.Equal(t, timer.Running, a.Timer.State())

	v.Update(keyPress("S"))
	assert.Equal(t, timer.Idle, a.Timer.State())
	assert.Equal(t, 1500, a.Timer.Snapshot().SecondsRemaining)
}

func TestTaskListView_SortFailureShowsDismissibleError(t *testing.T) {
	a := newTestApp(t, stubAdvisor{err: errors.New("boom")})
	task, _ := a.AddTask("a")
	a.MoveGroup(task.ID)
	v := NewTaskListView(context.Background(), a)

	_, cmd := v.Update(keyPress("o"))
	require.NotNil(t, cmd)
	assert.True(t, a.Sorting())

	v.Update(cmd())
	assert.False(t, a.Sorting())
	assert.Contains(t, v.View(), advisor.ErrSortFailed.Error())

	v.Update(keyPress("x"))
	assert.NoError(t, a.SortError())
	got, _ := a.Tasks.Get(task.ID)
	assert.False(t, got.Completed, "dismiss key must not reach the list")
}

func TestTaskListView_SortSuccess(t *testing.T) {
	a := newTestApp(t, stubAdvisor{order: []string{"B", "A"}})
	for _, name := range []string{"B", "A"} {
		task, _ := a.AddTask(name)
		a.MoveGroup(task.ID)
	}
	v := NewTaskListView(context.Background(), a)
	require.Equal(t, []string{"A", "B"}, texts(a.Tasks.All()))

	_, cmd := v.Update(keyPress("o"))
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, []string{"B", "A"}, texts(a.Tasks.All()))
}

func TestTaskListView_InboxFolding(t *testing.T) {
	a := newTestApp(t, nil)
	a.AddTask("hidden later")
	v := NewTaskListView(context.Background(), a)
	assert.Contains(t, v.View(), "hidden later")

	v.Update(keyPress("i"))
	assert.True(t, a.InboxCollapsed())
	assert.NotContains(t, v.View(), "hidden later")
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "25:00", FormatClock(1500))
	assert.Equal(t, "00:09", FormatClock(9))
	assert.Equal(t, "120:00", FormatClock(7200))
}

func TestSettingsView_AdjustAndSave(t *testing.T) {
	a := newTestApp(t, nil)
	v := NewSettingsView(context.Background(), a)

	v.Update(keyPress("+"))
	v.Update(keyPress("+"))
	v.Update(keyPress("ctrl+s"))

	assert.Equal(t, 27, a.Settings.Current().FocusDuration)
	assert.Equal(t, 1620, a.Timer.Snapshot().SecondsRemaining)
	assert.Contains(t, v.View(), "Saved")
}

func TestSettingsView_ClampsTypedValues(t *testing.T) {
	a := newTestApp(t, nil)
	v := NewSettingsView(context.Background(), a)

	// move to the long break interval field and type over it
	for i := 0; i < 3; i++ {
		v.Update(keyPress("tab"))
	}
	v.inputs[3].SetValue("")
	typeText(v, "99")
	assert.Equal(t, 10, v.Values().LongBreakInterval)

	v.inputs[3].SetValue("")
	typeText(v, "x0")
	assert.Equal(t, 2, v.Values().LongBreakInterval)
}

func TestSettingsView_ResetDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, nil)
	_, err := a.SaveSettings(ctx, models.Settings{FocusDuration: 50, ShortBreakDuration: 10, LongBreakDuration: 30, LongBreakInterval: 3})
	require.NoError(t, err)

	v := NewSettingsView(ctx, a)
	v.Update(keyPress("r"))

	assert.Equal(t, models.DefaultSettings(), v.Values())
	assert.Equal(t, 50, a.Settings.Current().FocusDuration)
}

func TestSettingsView_EscGoesBack(t *testing.T) {
	a := newTestApp(t, nil)
	v := NewSettingsView(context.Background(), a)

	_, cmd := v.Update(keyPress("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, BackToTasks{}, cmd())
}
