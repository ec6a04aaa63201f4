package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rjboer/GoTVChannels/internal/channellist"
	"github.com/rjboer/GoTVChannels/internal/config"
	"github.com/rjboer/GoTVChannels/internal/logging"
)

type app struct {
	lookup func(string) (string, bool)

	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log logging.Logger
}

func run(args []string, out io.Writer, lookup func(string) (string, bool)) error {
	root := newRootCmd(lookup)
	root.SetArgs(args)
	root.SetOut(out)
	return root.Execute()
}

func newRootCmd(lookup func(string) (string, bool)) *cobra.Command {
	a := &app{lookup: lookup}

	root := &cobra.Command{
		Use:           "chlist",
		Short:         "Inspect and convert Samsung TV channel lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", envString(lookup, "CHLIST_CONFIG", "chlist.yaml"), "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (text|json)")

	root.AddCommand(
		a.dumpCmd(),
		a.paramsCmd(),
		a.currentCmd(),
		a.exportCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.lookup)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	log, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) decoder() *channellist.Decoder {
	return channellist.NewDecoder(channellist.WithLogger(a.log))
}

func (a *app) readList(path string) (channellist.Collection, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	channels, err := a.decoder().Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return channels, nil
}

func envString(lookup func(string) (string, bool), key, def string) string {
	if val, ok := lookup(key); ok {
		return val
	}
	return def
}
