package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/ui/styles"
	"github.com/tgienger/pomolist/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewTasks View = iota
	ViewSettings
)

type App struct {
	ctx         context.Context
	app         *app.App
	currentView View
	taskList    *views.TaskListView
	settings    *views.SettingsView
	width       int
	height      int
}

// Creates a new application. The theme must already be loaded on application.
func NewApp(ctx context.Context, application *app.App) *App {
	styles.Use(application.Theme())
	return &App{
		ctx:         ctx,
		app:         application,
		currentView: ViewTasks,
		taskList:    views.NewTaskListView(ctx, application),
	}
}

func (a *App) Init() tea.Cmd {
	return a.taskList.Init()
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update the task list size since it persists
		a.taskList.Update(msg)
		if a.settings != nil {
			a.settings.Update(msg)
		}
		return a, nil

	case views.OpenSettings:
		a.currentView = ViewSettings
		a.settings = views.NewSettingsView(a.ctx, a.app)
		return a, tea.Batch(a.settings.Init(), a.resize())

	case views.BackToTasks:
		a.currentView = ViewTasks
		a.settings = nil
		return a, tea.Batch(a.taskList.Init(), a.resize())

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch a.currentView {
		case ViewSettings:
			_, cmd = a.settings.Update(msg)
		default:
			_, cmd = a.taskList.Update(msg)
		}
		return a, cmd
	}

	// Timer ticks and sort results belong to the task list whichever view is showing
	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewSettings && a.settings != nil {
		return a.settings.View()
	}
	return a.taskList.View()
}
