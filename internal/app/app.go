// Package app wires the task store, settings, timer, theme and sort advisor
// into the single application state consumed by the TUI and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tgienger/pomolist/internal/advisor"
	"github.com/tgienger/pomolist/internal/logging"
	"github.com/tgienger/pomolist/internal/models"
	"github.com/tgienger/pomolist/internal/settings"
	"github.com/tgienger/pomolist/internal/tasks"
	"github.com/tgienger/pomolist/internal/timer"
)

// ThemeRepository persists the colour scheme
type ThemeRepository interface {
	LoadTheme(ctx context.Context) (models.Theme, error)
	SaveTheme(ctx context.Context, theme models.Theme) error
}

// App is the central owner of application state. Views read from it and
// send every command through it.
type App struct {
	Tasks    *tasks.Store
	Gate     *tasks.Gate
	Settings *settings.Store
	Timer    *timer.Engine

	themes  ThemeRepository
	theme   models.Theme
	advisor advisor.Advisor
	now     func() time.Time

	inboxCollapsed bool
	sorting        bool
	sortErr        error
	notice         *timer.Completion

	log zerolog.Logger
}

// Option configures an App
type Option func(*App)

// WithClock overrides the clock used for overdue checks
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// NewApp constructs an App from explicit dependencies. The stores are
// expected to be loaded already. A nil advisor disables sorting.
func NewApp(
	taskStore *tasks.Store,
	settingsStore *settings.Store,
	themes ThemeRepository,
	adv advisor.Advisor,
	notifier timer.Notifier,
	opts ...Option,
) *App {
	if adv == nil {
		adv = advisor.Disabled{}
	}
	a := &App{
		Tasks:          taskStore,
		Gate:           tasks.NewGate(taskStore),
		Settings:       settingsStore,
		Timer:          timer.New(settingsStore, taskStore, notifier),
		themes:         themes,
		theme:          models.ThemeDark,
		advisor:        adv,
		now:            time.Now,
		inboxCollapsed: true,
		log:            logging.Component("app"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadTheme reads the persisted theme. Unreadable values keep dark.
func (a *App) LoadTheme(ctx context.Context) models.Theme {
	theme, err := a.themes.LoadTheme(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("no saved theme, using dark")
	}
	a.theme = theme
	return a.theme
}

// Theme returns the active colour scheme
func (a *App) Theme() models.Theme { return a.theme }

// ToggleTheme switches between dark and light and persists the choice
func (a *App) ToggleTheme(ctx context.Context) models.Theme {
	a.theme = a.theme.Toggle()
	if err := a.themes.SaveTheme(ctx, a.theme); err != nil {
		a.log.Error().Err(err).Str("theme", string(a.theme)).Msg("failed to persist theme")
	}
	return a.theme
}

// Today is the current calendar date
func (a *App) Today() models.Date {
	return models.DateOf(a.now())
}

// InboxCollapsed reports whether the inbox section is folded away
func (a *App) InboxCollapsed() bool { return a.inboxCollapsed }

// ToggleInbox folds or unfolds the inbox section
func (a *App) ToggleInbox() { a.inboxCollapsed = !a.inboxCollapsed }

// AddTask adds a task to the inbox and unfolds the inbox so it is visible
func (a *App) AddTask(text string) (models.Task, bool) {
	t, ok := a.Tasks.Add(text)
	if ok {
		a.inboxCollapsed = false
	}
	return t, ok
}

// MoveGroup moves a task to the other group, unfolding the inbox when the
// task lands there.
func (a *App) MoveGroup(id int64) {
	a.Tasks.MoveGroup(id)
	if t, ok := a.Tasks.Get(id); ok && t.Group == models.GroupInbox {
		a.inboxCollapsed = false
	}
}

// ConfirmationMessage describes the pending deletion for the confirm prompt
func (a *App) ConfirmationMessage() string {
	p := a.Gate.Pending()
	switch p.Kind {
	case tasks.PendingTask:
		if t, ok := a.Tasks.Get(p.TaskID); ok {
			return fmt.Sprintf("Delete %q? This cannot be undone.", t.Text)
		}
		return "Delete this task? This cannot be undone."
	case tasks.PendingClearCompleted:
		n := a.Tasks.CompletedCount()
		noun := "tasks"
		if n == 1 {
			noun = "task"
		}
		return fmt.Sprintf("Clear %d completed %s? This cannot be undone.", n, noun)
	}
	return ""
}

// SaveSettings persists new durations and applies them to the timer
func (a *App) SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	saved, err := a.Settings.Save(ctx, s)
	if err != nil {
		return saved, err
	}
	a.Timer.SettingsChanged()
	return saved, nil
}

// Tick advances the timer by one second. A finished session is kept as a
// notice until dismissed.
func (a *App) Tick() *timer.Completion {
	c := a.Timer.Tick()
	if c != nil {
		a.notice = c
		a.log.Info().Int64("task", c.TaskID).Int("sessions", c.Sessions).Msg("focus session complete")
	}
	return c
}

// Notice returns the last completed session awaiting acknowledgement
func (a *App) Notice() *timer.Completion { return a.notice }

// DismissNotice clears the completion notice
func (a *App) DismissNotice() { a.notice = nil }

// Sorting reports whether an advisor request is in flight
func (a *App) Sorting() bool { return a.sorting }

// SortError returns the last advisor failure awaiting acknowledgement
func (a *App) SortError() error { return a.sortErr }

// DismissSortError clears the advisor failure message
func (a *App) DismissSortError() { a.sortErr = nil }

// BeginSort marks a sort as in flight and returns the items to send. It
// returns false when a sort is already running or there is nothing to sort.
func (a *App) BeginSort() ([]advisor.Item, bool) {
	if a.sorting {
		return nil, false
	}
	candidates := a.Tasks.SortCandidates()
	if len(candidates) == 0 {
		return nil, false
	}
	a.sorting = true
	a.sortErr = nil
	return advisor.ItemsFromTasks(candidates), true
}

// RequestSort asks the advisor for an order. It is safe to call off the
// update loop; it touches no application state.
func (a *App) RequestSort(ctx context.Context, items []advisor.Item) ([]string, error) {
	return a.advisor.Sort(ctx, items)
}

// FinishSort applies an advisor result. On failure the collection is left
// untouched and the error is kept for display.
func (a *App) FinishSort(order []string, err error) {
	a.sorting = false
	if err != nil {
		if !errors.Is(err, advisor.ErrSortFailed) {
			err = fmt.Errorf("%w: %w", advisor.ErrSortFailed, err)
		}
		a.log.Warn().Err(err).Msg("sort failed")
		a.sortErr = err
		return
	}
	a.Tasks.ApplyOrder(order)
}

// Sort runs a whole advisor round trip synchronously
func (a *App) Sort(ctx context.Context) error {
	items, ok := a.BeginSort()
	if !ok {
		return nil
	}
	order, err := a.RequestSort(ctx, items)
	a.FinishSort(order, err)
	return a.sortErr
}
