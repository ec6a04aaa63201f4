// Package watch re-decodes a channel list file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rjboer/GoTVChannels/internal/channellist"
	"github.com/rjboer/GoTVChannels/internal/logging"
)

// Handler receives the result of every decode. Exactly one of channels and
// err is set.
type Handler func(channels channellist.Collection, err error)

type Watcher struct {
	Path     string
	Debounce time.Duration
	Decoder  *channellist.Decoder
	Log      logging.Logger
}

// Run decodes the file once, then again after every burst of writes, until
// ctx is done. The parent directory is watched so files replaced by rename
// are picked up too.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	path, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.Path, err)
	}
	dec := w.Decoder
	if dec == nil {
		dec = channellist.NewDecoder()
	}
	log := w.Log
	if log == nil {
		log = logging.Nop()
	}
	log = log.With(logging.F("file", path))

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close() //nolint: errcheck

	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	load := func() {
		buf, err := os.ReadFile(path)
		if err != nil {
			h(nil, err)
			return
		}
		channels, err := dec.Decode(buf)
		if err != nil {
			log.Warn("channel list rejected", logging.F("error", err))
			h(nil, err)
			return
		}
		h(channels, nil)
	}
	load()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("channel list changed", logging.F("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", logging.F("error", err))

		case <-fire:
			fire = nil
			load()
		}
	}
}
