package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/models"
	"github.com/tgienger/pomolist/internal/settings"
	"github.com/tgienger/pomolist/internal/ui/keys"
	"github.com/tgienger/pomolist/internal/ui/styles"
)

// BackToTasks signals to go back to the task list
type BackToTasks struct{}

type settingsField struct {
	label string
	unit  string
	rng   settings.Range
}

const saveButton = 4 // focus index of the save button, after the four fields

// SettingsView edits the Pomodoro durations
type SettingsView struct {
	ctx    context.Context
	app    *app.App
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	fields   [4]settingsField
	inputs   [4]textinput.Model
	focusIdx int // 0-3 fields, 4 save
	saved    bool
	err      error
}

// NewSettingsView creates the settings page filled with the current values
func NewSettingsView(ctx context.Context, application *app.App) *SettingsView {
	limits := application.Settings.Limits()
	v := &SettingsView{
		ctx:    ctx,
		app:    application,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		fields: [4]settingsField{
			{label: "Focus duration", unit: "min", rng: limits.Focus},
			{label: "Short break", unit: "min", rng: limits.ShortBreak},
			{label: "Long break", unit: "min", rng: limits.LongBreak},
			{label: "Long break every", unit: "sessions", rng: limits.LongBreakInterval},
		},
	}
	for i := range v.inputs {
		in := textinput.New()
		in.CharLimit = 3
		in.Width = 5
		in.Placeholder = strconv.Itoa(v.fields[i].rng.Min)
		v.inputs[i] = in
	}
	v.setValues(application.Settings.Current())
	v.updateFocus()
	return v
}

// Init initializes the view
func (v *SettingsView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *SettingsView) setValues(s models.Settings) {
	for i, n := range []int{s.FocusDuration, s.ShortBreakDuration, s.LongBreakDuration, s.LongBreakInterval} {
		v.inputs[i].SetValue(strconv.Itoa(n))
	}
}

// value reads field i; unparseable input falls back to the field minimum
func (v *SettingsView) value(i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.inputs[i].Value()))
	if err != nil {
		return v.fields[i].rng.Min
	}
	return v.fields[i].rng.Clamp(n)
}

// Values returns the form contents, clamped to each field's range
func (v *SettingsView) Values() models.Settings {
	return models.Settings{
		FocusDuration:      v.value(0),
		ShortBreakDuration: v.value(1),
		LongBreakDuration:  v.value(2),
		LongBreakInterval:  v.value(3),
	}
}

func (v *SettingsView) step(delta int) {
	if v.focusIdx >= saveButton {
		return
	}
	n := v.fields[v.focusIdx].rng.Clamp(v.value(v.focusIdx) + delta)
	v.inputs[v.focusIdx].SetValue(strconv.Itoa(n))
	v.inputs[v.focusIdx].CursorEnd()
}

func (v *SettingsView) updateFocus() {
	for i := range v.inputs {
		if i == v.focusIdx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *SettingsView) save() {
	saved, err := v.app.SaveSettings(v.ctx, v.Values())
	v.err = err
	if err != nil {
		v.saved = false
		return
	}
	v.setValues(saved)
	v.saved = true
}

// Update handles messages
func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		v.saved = false

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToTasks{} }

		case key.Matches(msg, v.keys.Save):
			if msg.String() == "enter" && v.focusIdx < saveButton {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			v.save()
			return v, nil

		case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Down):
			v.focusIdx = (v.focusIdx + 1) % (saveButton + 1)
			v.updateFocus()
			return v, nil

		case msg.String() == "shift+tab", key.Matches(msg, v.keys.Up):
			v.focusIdx = (v.focusIdx + saveButton) % (saveButton + 1)
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Increase):
			v.step(1)
			return v, nil

		case key.Matches(msg, v.keys.Decrease):
			v.step(-1)
			return v, nil

		case key.Matches(msg, v.keys.Reset):
			v.setValues(v.app.Settings.Reset())
			return v, nil
		}

		// Only digits and editing keys reach the number inputs
		if v.focusIdx >= saveButton {
			return v, nil
		}
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				if r < '0' || r > '9' {
					return v, nil
				}
			}
		}
		var cmd tea.Cmd
		v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
		return v, cmd
	}

	return v, nil
}

// View renders the view
func (v *SettingsView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	rows := []string{s.Title.Render("Pomodoro Settings"), ""}
	for i, f := range v.fields {
		inputStyle := s.Input
		if i == v.focusIdx {
			inputStyle = s.InputFocused
		}
		rows = append(rows,
			fmt.Sprintf("%s %s", f.label, s.TitleMuted.Render(fmt.Sprintf("(%d-%d %s)", f.rng.Min, f.rng.Max, f.unit))),
			lipgloss.JoinHorizontal(lipgloss.Center,
				s.Button.Render("-"),
				inputStyle.Width(8).Render(v.inputs[i].View()),
				s.Button.Render("+"),
			),
			"",
		)
	}

	btnStyle := s.Button
	if v.focusIdx == saveButton {
		btnStyle = s.ButtonFocused
	}
	rows = append(rows, btnStyle.Render(" Save "))

	switch {
	case v.err != nil:
		rows = append(rows, s.Overdue.Render("Could not save settings: "+v.err.Error()))
	case v.saved:
		rows = append(rows, s.Success.Render("Saved"))
	}

	rows = append(rows, "", s.TitleMuted.Render("Tab/↑↓: field • +/-: adjust • r: defaults • ↵/Ctrl+S: save • Esc: back"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
