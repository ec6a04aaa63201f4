// Package channellist decodes the binary channel list a Samsung TV keeps
// (a 4-byte header followed by fixed 124-byte records) into a Collection.
package channellist

import (
	"encoding/binary"
	"errors"
	"sort"
	"strconv"

	"github.com/rjboer/GoTVChannels/internal/channel"
	"github.com/rjboer/GoTVChannels/internal/logging"
)

// The list starts with a 4-byte header: 2 unknown bytes, then the record
// count. Records of channel.RecordSize bytes follow back to back.
const (
	HeaderSize = 4
	MinSize    = HeaderSize + channel.RecordSize

	offCount = 2
)

// Collection maps display numbers to channels.
type Collection map[string]channel.Channel

// Lookup returns the channel with the given display number.
func (c Collection) Lookup(dispno string) (channel.Channel, bool) {
	ch, ok := c[dispno]
	return ch, ok
}

// Sorted returns the channels ordered by display number. Numeric display
// numbers come first in numeric order, the rest follow lexically.
func (c Collection) Sorted() []channel.Channel {
	out := make([]channel.Channel, 0, len(c))
	for _, ch := range c {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i].DispNo)
		b, errB := strconv.Atoi(out[j].DispNo)
		switch {
		case errA == nil && errB == nil:
			if a != b {
				return a < b
			}
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return out[i].DispNo < out[j].DispNo
	})
	return out
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the diagnostic sink. The default discards.
func WithLogger(l logging.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// Decoder turns stored channel list blobs into Collections. It holds no
// per-call state and is safe for concurrent use.
type Decoder struct {
	log logging.Logger
}

// NewDecoder returns a Decoder with the given options applied.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{log: logging.Nop()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Decode is shorthand for NewDecoder(opts...).Decode(buf).
func Decode(buf []byte, opts ...Option) (Collection, error) {
	return NewDecoder(opts...).Decode(buf)
}

// Decode validates the list structure and decodes every record in buffer
// order. A later record with an already seen display number replaces the
// earlier one. Decoding stops at the first bad record; its offset and raw
// bytes are added to the error context.
func (d *Decoder) Decode(buf []byte) (Collection, error) {
	if len(buf) < MinSize {
		return nil, channel.NewParseError(channel.ErrBufferTooShort,
			"channel list is smaller than it has to be for at least one channel (%d bytes (actual) vs. %d bytes)",
			len(buf), MinSize).
			AddContext("channel list: %x", buf)
	}

	if rem := (len(buf) - HeaderSize) % channel.RecordSize; rem != 0 {
		return nil, channel.NewParseError(channel.ErrBufferSize,
			"channel list's size (%d) minus %d (header) is not a multiple of %d bytes (%d bytes left over)",
			len(buf), HeaderSize, channel.RecordSize, rem).
			AddContext("channel list: %x", buf)
	}

	computed := (len(buf) - HeaderSize) / channel.RecordSize
	declared := int(binary.LittleEndian.Uint16(buf[offCount:]))
	if computed != declared {
		return nil, channel.NewParseError(channel.ErrCountMismatch,
			"actual channel list length ((%d-%d)/%d) does not equal the length defined in the header: computed=%d declared=%d",
			len(buf), HeaderSize, channel.RecordSize, computed, declared).
			AddContext("channel list: %x", buf)
	}

	channels := make(Collection, computed)
	for pos := HeaderSize; pos < len(buf); pos += channel.RecordSize {
		rec := buf[pos : pos+channel.RecordSize]
		ch, err := channel.FromRecord(rec)
		if err != nil {
			var pe *channel.ParseError
			if errors.As(err, &pe) {
				return nil, pe.AddContext("chunk starting at %d: %x", pos, rec)
			}
			return nil, err
		}
		channels[ch.DispNo] = ch
	}

	d.log.Info("parsed channel list", logging.F("channels", len(channels)))
	return channels, nil
}
