package main

import (
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-lyricards/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// loadConfig reads the config file (if any) and applies flag overrides that
// every command shares.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "lyricards",
		Short:         "Timecoded lyric cards synced to a video player",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newInspectCommand(opts))
	rootCmd.AddCommand(newTimersCommand())

	return rootCmd
}
