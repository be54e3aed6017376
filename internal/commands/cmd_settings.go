package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tgienger/pomolist/internal/app"
)

type SettingsCmd struct {
	app *app.App
}

// NewSettingsCmd creates a new settings command
func NewSettingsCmd(app *app.App) *SettingsCmd {
	return &SettingsCmd{app: app}
}

// Register adds the settings command to the application
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "settings",
		Usage:     "Show or change the Pomodoro durations",
		UsageText: "pomolist settings [--focus N] [--short-break N] [--long-break N] [--interval N]",
		Description: `Without flags, prints the current durations.

Any flag given is saved; values outside the allowed range are clamped.`,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "focus", Usage: "focus session length in minutes"},
			&cli.IntFlag{Name: "short-break", Usage: "short break length in minutes"},
			&cli.IntFlag{Name: "long-break", Usage: "long break length in minutes"},
			&cli.IntFlag{Name: "interval", Usage: "focus sessions between long breaks"},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SettingsCmd) run(ctx context.Context, c *cli.Command) error {
	s := cmd.app.Settings.Current()
	changed := false
	for name, dst := range map[string]*int{
		"focus":       &s.FocusDuration,
		"short-break": &s.ShortBreakDuration,
		"long-break":  &s.LongBreakDuration,
		"interval":    &s.LongBreakInterval,
	} {
		if c.IsSet(name) {
			*dst = c.Int(name)
			changed = true
		}
	}

	if changed {
		saved, err := cmd.app.SaveSettings(ctx, s)
		if err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		s = saved
	}

	l := cmd.app.Settings.Limits()
	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SETTING\tVALUE\tRANGE")
	_, _ = fmt.Fprintf(w, "focus\t%d min\t%d-%d\n", s.FocusDuration, l.Focus.Min, l.Focus.Max)
	_, _ = fmt.Fprintf(w, "short-break\t%d min\t%d-%d\n", s.ShortBreakDuration, l.ShortBreak.Min, l.ShortBreak.Max)
	_, _ = fmt.Fprintf(w, "long-break\t%d min\t%d-%d\n", s.LongBreakDuration, l.LongBreak.Min, l.LongBreak.Max)
	_, _ = fmt.Fprintf(w, "interval\t%d sessions\t%d-%d\n", s.LongBreakInterval, l.LongBreakInterval.Min, l.LongBreakInterval.Max)
	return w.Flush()
}
