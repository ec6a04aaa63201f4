package channellist

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/rjboer/GoTVChannels/internal/channel"
)

// Encode writes channels in the stored channel list layout, in slice order.
// The two unknown header bytes are left zero. A list needs at least one
// channel, as Decode rejects a bare header.
func Encode(channels []channel.Channel) ([]byte, error) {
	if len(channels) == 0 {
		return nil, channel.NewParseError(channel.ErrBufferTooShort,
			"channel list needs at least one channel")
	}
	if len(channels) > math.MaxUint16 {
		return nil, channel.NewParseError(channel.ErrTooManyChannels,
			"%d channels do not fit the 16-bit header count", len(channels))
	}

	buf := make([]byte, HeaderSize, HeaderSize+len(channels)*channel.RecordSize)
	binary.LittleEndian.PutUint16(buf[offCount:], uint16(len(channels)))
	for i, ch := range channels {
		rec, err := ch.MarshalRecord()
		if err != nil {
			var pe *channel.ParseError
			if errors.As(err, &pe) {
				return nil, pe.AddContext("channel %d (%s)", i, ch.DispNo)
			}
			return nil, err
		}
		buf = append(buf, rec...)
	}
	return buf, nil
}
