package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/models"
)

type AddCmd struct {
	app *app.App

	// flags
	today     bool
	priority  string
	due       string
	pomodoros int
}

// NewAddCmd creates a new add command
func NewAddCmd(app *app.App) *AddCmd {
	return &AddCmd{app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task without opening the TUI",
		UsageText: "pomolist add [--today] [--priority low|medium|high] [--due YYYY-MM-DD] [--pomodoros N] <text>",
		Description: `Adds a task to the inbox, or to today with --today.

All remaining arguments are joined into the task text.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "today",
				Aliases:     []string{"t"},
				Usage:       "add to today instead of the inbox",
				Destination: &cmd.today,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority (low, medium, high)",
				Value:       string(models.PriorityMedium),
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date as YYYY-MM-DD",
				Destination: &cmd.due,
			},
			&cli.IntFlag{
				Name:        "pomodoros",
				Aliases:     []string{"n"},
				Usage:       "estimated focus sessions",
				Value:       1,
				Destination: &cmd.pomodoros,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(_ context.Context, c *cli.Command) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return errors.New("task text is required")
	}

	priority := models.Priority(strings.ToLower(cmd.priority))
	if !priority.Valid() {
		return fmt.Errorf("invalid priority %q (want low, medium or high)", cmd.priority)
	}
	if cmd.pomodoros < 1 {
		return fmt.Errorf("pomodoros must be at least 1, got %d", cmd.pomodoros)
	}

	var due *models.Date
	if cmd.due != "" {
		d, err := models.ParseDate(cmd.due)
		if err != nil {
			return fmt.Errorf("invalid --due: %w", err)
		}
		due = &d
	}

	task, ok := cmd.app.AddTask(text)
	if !ok {
		return errors.New("task text is required")
	}
	cmd.app.Tasks.SetPriority(task.ID, priority)
	cmd.app.Tasks.SetPomodoroEstimate(task.ID, cmd.pomodoros)
	if due != nil {
		cmd.app.Tasks.SetDueDate(task.ID, due)
	}
	if cmd.today {
		cmd.app.MoveGroup(task.ID)
	}

	task, _ = cmd.app.Tasks.Get(task.ID)
	_, _ = fmt.Fprintf(c.Root().Writer, "Added %q to %s\n", task.Text, task.Group)
	return nil
}
