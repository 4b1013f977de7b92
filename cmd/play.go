package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/preflight/internal/app"
	"github.com/abhisek/preflight/internal/playback"
	"github.com/abhisek/preflight/internal/tracker"
)

var playCmd = &cobra.Command{
	Use:   "play <id|name>",
	Short: "Play a checklist template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fresh, _ := cmd.Flags().GetBool("fresh")
		return runApp(cmd, &playRequest{ref: args[0], fresh: fresh})
	},
}

type playRequest struct {
	ref   string
	fresh bool
}

func init() {
	playCmd.Flags().Bool("fresh", false, "Ignore saved progress and start from the first item")
}

// runApp opens the store, starts the tracker and launches the TUI. A
// non-nil play request opens the player straight away.
func runApp(cmd *cobra.Command, play *playRequest) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := cmd.Context()

	player := playback.NewPlayer()
	opts := app.Options{
		Templates: e.store.TemplateRepo(),
		Progress:  e.store.ProgressRepo(),
		Player:    player,
		Logger:    e.log,
		Resume:    e.cfg.Resume,
		Splash:    e.cfg.Splash,
	}

	if play != nil {
		tpl, err := resolveTemplate(ctx, e.store.TemplateRepo(), play.ref)
		if err != nil {
			return err
		}
		var cp playback.Checkpoint
		if e.cfg.Resume && !play.fresh {
			saved, err := e.store.ProgressRepo().Get(ctx, tpl.ID)
			if err != nil {
				return fmt.Errorf("load progress: %w", err)
			}
			cp = tracker.Saved(saved)
		}
		player.Restore(tpl, cp)
		opts.Playing = true
	}

	tr := tracker.New(player, e.store.EventRepo(), e.store.ProgressRepo(), e.log)
	tr.Start(ctx)
	defer tr.Stop()

	e.log.Info("tui started", "playing", opts.Playing)
	return app.Run(opts)
}
