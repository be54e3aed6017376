package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/pomolist/internal/advisor"
	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/models"
	"github.com/tgienger/pomolist/internal/timer"
	"github.com/tgienger/pomolist/internal/ui/keys"
	"github.com/tgienger/pomolist/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// inputMode is what the single-line input at the bottom is collecting
type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputEdit
	inputDueDate
)

// TickMsg advances the focus timer by one second. Ticks from a superseded
// chain carry an old generation and are dropped.
type TickMsg struct {
	Gen int
}

type sortResultMsg struct {
	order []string
	err   error
}

// OpenSettings asks the root model to show the settings page
type OpenSettings struct{}

// TaskListView shows the Today and Inbox sections
type TaskListView struct {
	ctx    context.Context
	app    *app.App
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// Visible tasks: Today first, then Inbox when it is unfolded
	rows    []models.Task
	cursor  int
	scrollY int

	mode     inputMode
	input    textinput.Model
	targetID int64
	inputErr string

	// Help popup (shown with ?)
	showHelpPopup bool
}

// NewTaskListView creates the task list view
func NewTaskListView(ctx context.Context, application *app.App) *TaskListView {
	input := textinput.New()
	input.CharLimit = 200

	v := &TaskListView{
		ctx:    ctx,
		app:    application,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		input:  input,
	}
	v.refresh()
	return v
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	v.refresh()
	return nil
}

// RefreshStyles rebuilds styles after a theme change
func (v *TaskListView) RefreshStyles() {
	v.styles = styles.NewStyles()
}

// refresh rebuilds the visible rows, keeping the cursor on the same task
func (v *TaskListView) refresh() {
	var selected int64
	if t, ok := v.selected(); ok {
		selected = t.ID
	}

	rows := v.app.Tasks.ByGroup(models.GroupToday)
	if !v.app.InboxCollapsed() {
		rows = append(rows, v.app.Tasks.ByGroup(models.GroupInbox)...)
	}
	v.rows = rows

	for i, t := range v.rows {
		if t.ID == selected {
			v.cursor = i
			return
		}
	}
	if v.cursor >= len(v.rows) {
		v.cursor = max(0, len(v.rows)-1)
	}
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return models.Task{}, false
	}
	return v.rows[v.cursor], true
}

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

// timerCmd runs a timer transition and starts a new tick chain when the
// engine entered Running.
func (v *TaskListView) timerCmd(transition func()) tea.Cmd {
	before := v.app.Timer.Generation()
	transition()
	gen := v.app.Timer.Generation()
	if gen != before && v.app.Timer.State() == timer.Running {
		return tick(gen)
	}
	return nil
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.input.Width = clamp(styles.ContentWidth(v.width)-8, 10, 60)
		return v, nil

	case TickMsg:
		if msg.Gen != v.app.Timer.Generation() {
			return v, nil
		}
		v.app.Tick()
		v.refresh()
		if v.app.Timer.State() == timer.Running {
			return v, tick(v.app.Timer.Generation())
		}
		return v, nil

	case sortResultMsg:
		v.app.FinishSort(msg.order, msg.err)
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return v, tea.Quit
		}

		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.app.SortError() != nil {
			v.app.DismissSortError()
			return v, nil
		}

		if v.app.Notice() != nil {
			v.app.DismissNotice()
			return v, nil
		}

		if v.app.Gate.Active() {
			return v.updateConfirmDelete(msg)
		}

		if v.mode != inputNone {
			return v.updateInput(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startInput(inputAdd, 0, "", "What needs to be done?")
		return v, textinput.Blink

	case key.Matches(msg, v.keys.ToggleInbox):
		v.app.ToggleInbox()
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.ClearCompleted):
		v.app.Gate.RequestClearCompleted()
		return v, nil

	case key.Matches(msg, v.keys.Sort):
		return v, v.startSort()

	case key.Matches(msg, v.keys.StopTimer):
		return v, v.timerCmd(v.app.Timer.Stop)

	case key.Matches(msg, v.keys.Settings):
		return v, func() tea.Msg { return OpenSettings{} }

	case key.Matches(msg, v.keys.Theme):
		styles.Use(v.app.ToggleTheme(v.ctx))
		v.RefreshStyles()
		return v, nil
	}

	task, ok := v.selected()
	if !ok {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Edit):
		v.startInput(inputEdit, task.ID, task.Text, "Task text")
		return v, textinput.Blink

	case key.Matches(msg, v.keys.DueDate):
		due := ""
		if task.DueDate != nil {
			due = task.DueDate.String()
		}
		v.startInput(inputDueDate, task.ID, due, "YYYY-MM-DD, empty to clear")
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		v.app.Tasks.ToggleCompleted(task.ID)

	case key.Matches(msg, v.keys.Priority):
		// Completed tasks show no priority, so there is nothing to cycle
		if task.Completed {
			return v, nil
		}
		v.app.Tasks.SetPriority(task.ID, task.Priority.Next())

	case key.Matches(msg, v.keys.EstimateUp):
		v.app.Tasks.SetPomodoroEstimate(task.ID, task.Pomodoros+1)

	case key.Matches(msg, v.keys.EstimateDown):
		v.app.Tasks.SetPomodoroEstimate(task.ID, task.Pomodoros-1)

	case key.Matches(msg, v.keys.MoveGroup):
		v.app.MoveGroup(task.ID)

	case key.Matches(msg, v.keys.MoveUp):
		v.app.Tasks.MoveUp(task.ID)

	case key.Matches(msg, v.keys.MoveDown):
		v.app.Tasks.MoveDown(task.ID)

	case key.Matches(msg, v.keys.Delete):
		v.app.Gate.RequestDelete(task.ID)
		return v, nil

	case key.Matches(msg, v.keys.Timer):
		return v, v.toggleTimer(task)

	default:
		return v, nil
	}

	v.refresh()
	return v, nil
}

// toggleTimer starts a session on task, or pauses and resumes the session
// already bound to it
func (v *TaskListView) toggleTimer(task models.Task) tea.Cmd {
	eng := v.app.Timer
	if eng.IsActive(task.ID) {
		if eng.State() == timer.Running {
			return v.timerCmd(eng.Pause)
		}
		return v.timerCmd(eng.Resume)
	}
	if task.Completed {
		return nil
	}
	return v.timerCmd(func() { eng.Start(task.ID) })
}

func (v *TaskListView) startSort() tea.Cmd {
	items, ok := v.app.BeginSort()
	if !ok {
		return nil
	}
	ctx, application := v.ctx, v.app
	return func() tea.Msg {
		order, err := application.RequestSort(ctx, items)
		return sortResultMsg{order: order, err: err}
	}
}

func (v *TaskListView) startInput(mode inputMode, id int64, value, placeholder string) {
	v.mode = mode
	v.targetID = id
	v.inputErr = ""
	v.input.Reset()
	v.input.SetValue(value)
	v.input.Placeholder = placeholder
	v.input.CursorEnd()
	v.input.Focus()
}

func (v *TaskListView) closeInput() {
	v.mode = inputNone
	v.targetID = 0
	v.inputErr = ""
	v.input.Blur()
}

func (v *TaskListView) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.closeInput()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		value := v.input.Value()
		switch v.mode {
		case inputAdd:
			if t, ok := v.app.AddTask(value); ok {
				v.refresh()
				v.selectTask(t.ID)
			}
		case inputEdit:
			v.app.Tasks.Edit(v.targetID, value)
		case inputDueDate:
			value = strings.TrimSpace(value)
			if value == "" {
				v.app.Tasks.SetDueDate(v.targetID, nil)
				break
			}
			due, err := models.ParseDate(value)
			if err != nil {
				v.inputErr = "dates look like 2025-06-30"
				return v, nil
			}
			v.app.Tasks.SetDueDate(v.targetID, &due)
		}
		v.closeInput()
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *TaskListView) selectTask(id int64) {
	for i, t := range v.rows {
		if t.ID == id {
			v.cursor = i
			return
		}
	}
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.app.Gate.Confirm()
		v.refresh()
		return v, nil
	case "n", "N", "esc":
		v.app.Gate.Cancel()
		return v, nil
	}
	return v, nil
}

// View renders the view
func (v *TaskListView) View() string {
	switch {
	case v.showHelpPopup:
		return v.renderHelpPopup()
	case v.app.SortError() != nil:
		return v.renderSortError()
	case v.app.Notice() != nil:
		return v.renderNotice()
	case v.app.Gate.Active():
		return v.renderDeleteConfirm()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")

	if v.mode != inputNone {
		b.WriteString(v.renderInput())
		b.WriteString("\n")
	}

	b.WriteString(v.renderStatus())
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	title := s.Title.Render("pomolist")

	snap := v.app.Timer.Snapshot()
	if snap.ActiveTaskID == nil {
		return title
	}

	label := ""
	if t, ok := v.app.Tasks.Get(*snap.ActiveTaskID); ok {
		label = " " + t.Text
	}
	clock := FormatClock(snap.SecondsRemaining)
	var status string
	if snap.State == timer.Paused {
		status = s.TimerPaused.Render("❚❚ " + clock)
	} else {
		status = s.Timer.Render("● " + clock)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", status, s.TitleMuted.Render(label))
}

// FormatClock renders seconds as MM:SS
func FormatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// line is one rendered list line; row is -1 for section headers
type line struct {
	text string
	row  int
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles
	var lines []line

	today := v.app.Tasks.ByGroup(models.GroupToday)
	lines = append(lines, line{
		text: s.Section.Render("Today") + " " + s.SectionCount.Render(fmt.Sprintf("(%d active)", v.app.Tasks.ActiveCount(models.GroupToday))),
		row:  -1,
	})
	if len(today) == 0 {
		lines = append(lines, line{text: s.TitleMuted.Render("  Nothing planned. Press m on an inbox task to plan it."), row: -1})
	}

	row := 0
	for _, t := range today {
		lines = append(lines, line{text: v.renderTaskItem(t, row == v.cursor), row: row})
		row++
	}

	arrow := "▾"
	if v.app.InboxCollapsed() {
		arrow = "▸"
	}
	lines = append(lines, line{
		text: s.Section.Render(arrow+" Inbox") + " " + s.SectionCount.Render(fmt.Sprintf("(%d active)", v.app.Tasks.ActiveCount(models.GroupInbox))),
		row:  -1,
	})
	if !v.app.InboxCollapsed() {
		inbox := v.app.Tasks.ByGroup(models.GroupInbox)
		if len(inbox) == 0 {
			lines = append(lines, line{text: s.TitleMuted.Render("  Inbox is empty. Press n to add a task."), row: -1})
		}
		for _, t := range inbox {
			lines = append(lines, line{text: v.renderTaskItem(t, row == v.cursor), row: row})
			row++
		}
	}

	return v.window(lines)
}

// window keeps the cursor line visible when the list is taller than the terminal
func (v *TaskListView) window(lines []line) string {
	available := len(lines)
	if v.height > 0 {
		available = max(v.height-10, 3)
	}

	cursorLine := 0
	for i, l := range lines {
		if l.row == v.cursor {
			cursorLine = i
			break
		}
	}
	if cursorLine < v.scrollY {
		v.scrollY = cursorLine
	} else if cursorLine >= v.scrollY+available {
		v.scrollY = cursorLine - available + 1
	}
	v.scrollY = clamp(v.scrollY, 0, max(0, len(lines)-available))

	end := min(v.scrollY+available, len(lines))
	out := make([]string, 0, end-v.scrollY)
	for _, l := range lines[v.scrollY:end] {
		out = append(out, l.text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	check := "[ ]"
	text := task.Text
	if task.Completed {
		check = "[x]"
		text = s.TaskDone.Render(text)
	}

	parts := []string{check, text}
	if !task.Completed {
		parts = append(parts, s.Priority(task.Priority).Render(string(task.Priority)))
	}
	if task.DueDate != nil {
		if task.Overdue(v.app.Today()) {
			parts = append(parts, s.Overdue.Render("overdue "+task.DueDate.String()))
		} else {
			parts = append(parts, s.DueDate.Render("due "+task.DueDate.String()))
		}
	}
	parts = append(parts, s.Pomodoros.Render(fmt.Sprintf("◉ %d/%d", task.CompletedPomodoros, task.Pomodoros)))

	if v.app.Timer.IsActive(task.ID) {
		snap := v.app.Timer.Snapshot()
		clock := FormatClock(snap.SecondsRemaining)
		if snap.State == timer.Paused {
			parts = append(parts, s.TimerPaused.Render("❚❚ "+clock))
		} else {
			parts = append(parts, s.Timer.Render("● "+clock))
		}
	}

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}
	return itemStyle.Width(width).Render(strings.Join(parts, " "))
}

func (v *TaskListView) renderInput() string {
	s := v.styles
	label := map[inputMode]string{
		inputAdd:     "New task",
		inputEdit:    "Edit task",
		inputDueDate: "Due date",
	}[v.mode]

	out := lipgloss.JoinVertical(lipgloss.Left,
		s.TitleMuted.Render(label),
		s.InputFocused.Render(v.input.View()),
	)
	if v.inputErr != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, s.Overdue.Render(v.inputErr))
	}
	return out
}

func (v *TaskListView) renderStatus() string {
	s := v.styles
	var parts []string
	if v.app.Sorting() {
		parts = append(parts, s.Timer.Render("Sorting today's tasks…"))
	}
	if n := v.app.Tasks.CompletedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d completed, %s to clear", n, s.HelpKey.Render("C")))
	}
	if len(parts) == 0 {
		return ""
	}
	return s.StatusBar.Render(strings.Join(parts, " • "))
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	s := v.styles
	if v.mode != inputNone {
		return s.Help.Render(fmt.Sprintf("%s save • %s cancel",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("esc"),
		))
	}
	return s.Help.Render(
		fmt.Sprintf("%s new • %s done • %s today/inbox • %s focus • %s ai sort • %s settings • %s help • %s quit",
			s.HelpKey.Render("n"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("m"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("o"),
			s.HelpKey.Render(","),
			s.HelpKey.Render("?"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	bindings := []key.Binding{
		v.keys.New, v.keys.Edit, v.keys.Toggle, v.keys.Delete,
		v.keys.Priority, v.keys.DueDate, v.keys.EstimateUp, v.keys.EstimateDown,
		v.keys.MoveGroup, v.keys.MoveUp, v.keys.MoveDown, v.keys.ToggleInbox,
		v.keys.ClearCompleted, v.keys.Sort, v.keys.Timer, v.keys.StopTimer,
		v.keys.Settings, v.keys.Theme, v.keys.Quit,
	}
	helpItems := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		h := b.Help()
		helpItems = append(helpItems, s.HelpKey.Width(8).Render(h.Key)+s.HelpDesc.Render(h.Desc))
	}
	helpItems = append(helpItems, "", s.TitleMuted.Render("Press any key to close"))

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Are you sure?"),
		"",
		s.TitleMuted.Render(v.app.ConfirmationMessage()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderSortError() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	msg := advisor.ErrSortFailed.Error()
	if errors.Is(v.app.SortError(), advisor.ErrNotConfigured) {
		msg = "AI sort needs an API key. Set GEMINI_API_KEY or advisor.api_key in the config file."
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Sort failed"),
		"",
		msg,
		"",
		s.TitleMuted.Render("Press any key to dismiss"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.ModalError.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderNotice() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	n := v.app.Notice()

	task := "a deleted task"
	if t, ok := v.app.Tasks.Get(n.TaskID); ok {
		task = fmt.Sprintf("%q", t.Text)
	}
	brk := "short"
	if n.Break == timer.LongBreak {
		brk = "long"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Success.Render("Focus session complete"),
		"",
		fmt.Sprintf("%d session(s) done, last one on %s.", n.Sessions, task),
		fmt.Sprintf("Time for a %d minute %s break.", n.BreakMinutes, brk),
		"",
		s.TitleMuted.Render("Press any key to continue"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
