package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/models"
)

type ListCmd struct {
	app *app.App

	// flags
	group      string
	jsonOutput bool
}

// NewListCmd creates a new list command
func NewListCmd(app *app.App) *ListCmd {
	return &ListCmd{app: app}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "pomolist list [--group inbox|today] [--json]",
		Description: `Prints tasks in display order, today first.

Use --json for one JSON object per task.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "only list one group (inbox, today)",
				Destination: &cmd.group,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(_ context.Context, c *cli.Command) error {
	groups := []models.Group{models.GroupToday, models.GroupInbox}
	if cmd.group != "" {
		g := models.Group(cmd.group)
		if !g.Valid() {
			return fmt.Errorf("invalid group %q (want inbox or today)", cmd.group)
		}
		groups = []models.Group{g}
	}

	var tasks []models.Task
	for _, g := range groups {
		tasks = append(tasks, cmd.app.Tasks.ByGroup(g)...)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		for _, t := range tasks {
			if err := enc.Encode(t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found\n")
		return nil
	}

	today := cmd.app.Today()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GROUP\tDONE\tPRIORITY\tDUE\tPOMODOROS\tTEXT")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.String()
			if t.Overdue(today) {
				due += " (overdue)"
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			t.Group, done, t.Priority, due, t.CompletedPomodoros, t.Pomodoros, t.Text)
	}
	_ = w.Flush()

	return nil
}
