package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/tgienger/pomolist/internal/app"
	"github.com/tgienger/pomolist/internal/timer"
	"github.com/tgienger/pomolist/internal/ui"
)

type TuiCmd struct {
	flags *Flags
	app   *app.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *app.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	// Cancelled on quit so an in-flight sort request is abandoned
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd.app.Timer.SetNotifier(cmd.notifier(os.Stdout))

	theme := cmd.app.LoadTheme(ctx)
	log.Debug().Str("theme", string(theme)).Msg("starting tui")

	p := tea.NewProgram(ui.NewApp(ctx, cmd.app), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// notifier returns the completion bell when the config enables it
func (cmd *TuiCmd) notifier(w io.Writer) timer.Notifier {
	if cmd.flags.Config == nil || !cmd.flags.Config.Bell {
		return nil
	}
	return timer.Bell{W: w}
}
