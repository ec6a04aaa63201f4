package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rjboer/GoTVChannels/internal/channel"
	"github.com/rjboer/GoTVChannels/internal/channellist"
	"github.com/rjboer/GoTVChannels/internal/logging"
	"github.com/rjboer/GoTVChannels/internal/store"
	"github.com/rjboer/GoTVChannels/internal/watch"
)

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <channel-list>",
		Short: "Decode a channel list and print one line per channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := a.readList(args[0])
			if err != nil {
				return err
			}
			for _, ch := range channels.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), ch.DisplayString())
			}
			return nil
		},
	}
}

type paramsOutput struct {
	Channel string            `json:"channel"`
	Params  map[string]string `json:"params"`
	Keys    []string          `json:"keys,omitempty"`
}

func (a *app) paramsCmd() *cobra.Command {
	var dispno, listType, satelliteID string

	cmd := &cobra.Command{
		Use:   "params <channel-list>",
		Short: "Print the SetMainTVChannel arguments for one channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := a.readList(args[0])
			if err != nil {
				return err
			}
			ch, ok := channels.Lookup(dispno)
			if !ok {
				return fmt.Errorf("no channel with display number %q in %s", dispno, args[0])
			}
			if !cmd.Flags().Changed("list-type") {
				listType = a.cfg.Channel.ListType
			}
			if !cmd.Flags().Changed("satellite-id") {
				satelliteID = a.cfg.Channel.SatelliteID
			}

			out := paramsOutput{
				Channel: ch.DisplayString(),
				Params:  ch.RequestParams(listType, satelliteID),
			}
			if keys, err := ch.KeySequence(); err == nil {
				out.Keys = keys
			} else {
				a.log.Debug("no key sequence", logging.F("dispno", ch.DispNo), logging.F("error", err))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&dispno, "dispno", "", "Display number of the channel")
	cmd.Flags().StringVar(&listType, "list-type", "", "ChannelListType argument (default from config)")
	cmd.Flags().StringVar(&satelliteID, "satellite-id", "", "SatelliteID argument (default from config)")
	_ = cmd.MarkFlagRequired("dispno")
	return cmd
}

func (a *app) currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current <document|->",
		Short: "Parse a GetCurrentMainTVChannel document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc []byte
				err error
			)
			if args[0] == "-" {
				doc, err = io.ReadAll(cmd.InOrStdin())
			} else {
				doc, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			ch, err := channel.ParseCurrentChannel(doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ch.String())
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export <channel-list>",
		Short: "Decode a channel list into the sqlite channel store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := a.readList(args[0])
			if err != nil {
				return err
			}
			s, err := store.Open(a.dbPath(cmd, dbPath))
			if err != nil {
				return err
			}
			defer s.Close() //nolint: errcheck

			if err := s.Replace(cmd.Context(), channels); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d channels\n", len(channels))
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database (default from config)")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var (
		dbPath string
		export bool
	)

	cmd := &cobra.Command{
		Use:   "watch <channel-list>",
		Short: "Decode a channel list every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var s *store.Store
			if export {
				var err error
				if s, err = store.Open(a.dbPath(cmd, dbPath)); err != nil {
					return err
				}
				defer s.Close() //nolint: errcheck
			}

			w := &watch.Watcher{
				Path:     args[0],
				Debounce: a.cfg.Watch.Debounce,
				Decoder:  a.decoder(),
				Log:      a.log,
			}
			err := w.Run(ctx, func(channels channellist.Collection, err error) {
				if err != nil {
					a.log.Error("decode failed", logging.F("error", err))
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d channels\n", len(channels))
				if s == nil {
					return
				}
				if err := s.Replace(ctx, channels); err != nil {
					a.log.Error("export failed", logging.F("error", err))
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, "Store every decoded list in the sqlite channel store")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database (default from config)")
	return cmd
}

func (a *app) dbPath(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("db") {
		return flagValue
	}
	return a.cfg.Store.Path
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
