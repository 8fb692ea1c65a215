package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-lyricards/internal/app"
	"github.com/coreman2200/funtimes-lyricards/internal/logging"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		source  string
		listen  string
		surface string
		widget  string
		fps     int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the lyrics and animate them in time with the player",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("source") {
				cfg.Source = source
			}
			if flags.Changed("listen") {
				cfg.Listen = listen
			}
			if flags.Changed("surface") {
				cfg.Surface = surface
			}
			if flags.Changed("widget") {
				cfg.Widget = widget
			}
			if flags.Changed("fps") {
				cfg.FPS = fps
			}
			if cfg.Source == "" {
				return errors.New("no lyrics source: set --source or source in the config")
			}

			log, err := logging.Setup(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
			if err != nil {
				return err
			}
			session, err := app.New(*cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Info().Str("source", cfg.Source).Str("surface", cfg.Surface).Str("widget", cfg.Widget).Msg("session starting")
			err = session.Run(ctx)
			log.Info().Msg("shutting down")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Lyrics location (URL or file)")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address")
	cmd.Flags().StringVar(&surface, "surface", "", "Render surface: ws, strip or log")
	cmd.Flags().StringVar(&widget, "widget", "", "Playback widget: remote or sim")
	cmd.Flags().IntVar(&fps, "fps", 0, "Animation frames per second")
	return cmd
}
