package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tgienger/pomolist/internal/advisor"
	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/config"
	"github.com/tgienger/pomolist/internal/db"
	"github.com/tgienger/pomolist/internal/models"
	"github.com/tgienger/pomolist/internal/settings"
	"github.com/tgienger/pomolist/internal/tasks"
	"github.com/tgienger/pomolist/internal/timer"
)

// runner builds a fresh root command per invocation, sharing one App
type runner struct {
	app *app.App
	out *bytes.Buffer
}

func (r *runner) Run(ctx context.Context, args []string) error {
	root := &cli.Command{Name: "pomolist", Writer: r.out, ErrWriter: r.out}
	root = NewAddCmd(r.app).Register(root)
	root = NewListCmd(r.app).Register(root)
	root = NewSettingsCmd(r.app).Register(root)
	return root.Run(ctx, args)
}

func newTestRoot(t *testing.T) (*runner, *app.App, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	database, err := db.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	settingsStore := settings.New(database, settings.DefaultLimits())
	settingsStore.Load(ctx)
	a := app.NewApp(tasks.Load(ctx, database), settingsStore, database, advisor.Disabled{}, nil)

	out := &bytes.Buffer{}
	return &runner{app: a, out: out}, a, out
}

func TestAddCmd(t *testing.T) {
	root, a, out := newTestRoot(t)

	err := root.Run(context.Background(), []string{"pomolist", "add", "--today", "-p", "high", "--due", "2025-03-01", "-n", "3", "write", "report"})
	require.NoError(t, err)

	all := a.Tasks.All()
	require.Len(t, all, 1)
	task := all[0]
	assert.Equal(t, "write report", task.Text)
	assert.Equal(t, models.GroupToday, task.Group)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, 3, task.Pomodoros)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-03-01", task.DueDate.String())
	assert.Contains(t, out.String(), `Added "write report" to today`)
}

func TestAddCmd_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "blank text", args: []string{"add", "   "}},
		{name: "bad priority", args: []string{"add", "-p", "urgent", "x"}},
		{name: "bad due", args: []string{"add", "--due", "tomorrow", "x"}},
		{name: "zero estimate", args: []string{"add", "-n", "0", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, a, _ := newTestRoot(t)
			err := root.Run(context.Background(), append([]string{"pomolist"}, tt.args...))
			assert.Error(t, err)
			assert.Empty(t, a.Tasks.All())
		})
	}
}

func TestListCmd(t *testing.T) {
	root, a, out := newTestRoot(t)
	inbox, _ := a.AddTask("inbox task")
	today, _ := a.AddTask("today task")
	a.MoveGroup(today.ID)

	require.NoError(t, root.Run(context.Background(), []string{"pomolist", "list"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "today task")
	assert.Contains(t, lines[2], "inbox task")

	out.Reset()
	require.NoError(t, root.Run(context.Background(), []string{"pomolist", "list", "--group", "inbox", "--json"}))
	var got models.Task
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, inbox.ID, got.ID)
}

func TestListCmd_InvalidGroup(t *testing.T) {
	root, _, _ := newTestRoot(t)
	err := root.Run(context.Background(), []string{"pomolist", "list", "--group", "someday"})
	assert.ErrorContains(t, err, "invalid group")
}

func TestSettingsCmd(t *testing.T) {
	root, a, out := newTestRoot(t)

	require.NoError(t, root.Run(context.Background(), []string{"pomolist", "settings"}))
	assert.Contains(t, out.String(), "25 min")

	out.Reset()
	require.NoError(t, root.Run(context.Background(), []string{"pomolist", "settings", "--focus", "50", "--interval", "99"}))
	assert.Equal(t, 50, a.Settings.Current().FocusDuration)
	assert.Equal(t, 10, a.Settings.Current().LongBreakInterval)
	assert.Equal(t, 5, a.Settings.Current().ShortBreakDuration)
	assert.Contains(t, out.String(), "10 sessions")
}

func TestTuiCmd_NotifierFollowsConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		wantBell bool
	}{
		{name: "bell enabled", cfg: &config.Config{Bell: true}, wantBell: true},
		{name: "bell disabled", cfg: &config.Config{Bell: false}},
		{name: "no config", cfg: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewTuiCmd(&Flags{Config: tt.cfg}, nil)
			var buf bytes.Buffer

			n := cmd.notifier(&buf)
			if !tt.wantBell {
				assert.Nil(t, n)
				return
			}
			require.NotNil(t, n)
			require.NoError(t, n.Notify())
			assert.Equal(t, "\a", buf.String())
			assert.IsType(t, timer.Bell{}, n)
		})
	}
}
