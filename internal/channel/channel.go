package channel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Record layout of one entry in the TV's stored channel list. All integers
// are 16-bit little-endian unsigned.
const (
	RecordSize = 124

	offType     = 0
	offMajorCh  = 2
	offMinorCh  = 4
	offPTC      = 6
	offProgNum  = 8
	offReserved = 10
	offDispNo   = 12
	offTitleLen = 22
	offTitle    = 24

	DispNoSize  = 4
	MaxTitleLen = RecordSize - offTitle

	// Always 0xffff on every list seen so far; its meaning is unknown.
	reservedValue = 0xffff
)

// Type is the tuning tag passed as <ChType>.
type Type string

const (
	DTV  Type = "DTV"  // digital TV
	CATV Type = "CATV" // cable analog
	CDTV Type = "CDTV" // cable digital
)

// TypeFromCode maps the record's type code to a Type.
func TypeFromCode(code uint16) (Type, error) {
	switch code {
	case 2:
		return DTV, nil
	case 3:
		return CATV, nil
	case 4:
		return CDTV, nil
	default:
		return "", NewParseError(ErrUnknownType, "unknown channel type %d", code)
	}
}

// Code returns the record type code, or 0 for a type that has none.
func (t Type) Code() uint16 {
	switch t {
	case DTV:
		return 2
	case CATV:
		return 3
	case CDTV:
		return 4
	default:
		return 0
	}
}

// Channel is one entry of the TV's channel list. Values are copied, never
// shared, so a Channel does not change once constructed.
type Channel struct {
	Type    Type
	MajorCh uint16
	MinorCh uint16
	PTC     uint16
	ProgNum uint16
	DispNo  string
	Title   string
}

// FromRecord decodes one fixed-size record of the binary channel list.
func FromRecord(rec []byte) (Channel, error) {
	if len(rec) != RecordSize {
		return Channel{}, NewParseError(ErrRecordSize, "record is %d bytes, expected %d", len(rec), RecordSize)
	}

	t, err := TypeFromCode(binary.LittleEndian.Uint16(rec[offType:]))
	if err != nil {
		return Channel{}, err
	}

	if v := binary.LittleEndian.Uint16(rec[offReserved:]); v != reservedValue {
		return Channel{}, NewParseError(ErrReservedMismatch, "reserved field mismatch (%04x)", v)
	}

	titleLen := int(binary.LittleEndian.Uint16(rec[offTitleLen:]))
	if titleLen > MaxTitleLen {
		return Channel{}, NewParseError(ErrTitleLength, "title length %d exceeds %d bytes", titleLen, MaxTitleLen)
	}
	title := rec[offTitle : offTitle+titleLen]
	if !utf8.Valid(title) {
		return Channel{}, NewParseError(ErrTitleEncoding, "title is not valid UTF-8 (%x)", title)
	}

	dispno := bytes.TrimRight(rec[offDispNo:offDispNo+DispNoSize], "\x00")
	for _, b := range dispno {
		if b >= utf8.RuneSelf {
			return Channel{}, NewParseError(ErrDispNoEncoding, "display number is not ASCII (%x)", dispno)
		}
	}

	return Channel{
		Type:    t,
		MajorCh: binary.LittleEndian.Uint16(rec[offMajorCh:]),
		MinorCh: binary.LittleEndian.Uint16(rec[offMinorCh:]),
		PTC:     binary.LittleEndian.Uint16(rec[offPTC:]),
		ProgNum: binary.LittleEndian.Uint16(rec[offProgNum:]),
		DispNo:  string(dispno),
		Title:   string(title),
	}, nil
}

// MarshalRecord encodes the channel in the stored channel list layout.
func (c Channel) MarshalRecord() ([]byte, error) {
	code := c.Type.Code()
	if code == 0 {
		return nil, NewParseError(ErrUnknownType, "unknown channel type %q", string(c.Type))
	}
	if len(c.DispNo) > DispNoSize {
		return nil, NewParseError(ErrDispNoLength, "display number %q exceeds %d bytes", c.DispNo, DispNoSize)
	}
	for i := 0; i < len(c.DispNo); i++ {
		if c.DispNo[i] >= utf8.RuneSelf {
			return nil, NewParseError(ErrDispNoEncoding, "display number is not ASCII (%x)", c.DispNo)
		}
	}
	if len(c.Title) > MaxTitleLen {
		return nil, NewParseError(ErrTitleLength, "title length %d exceeds %d bytes", len(c.Title), MaxTitleLen)
	}

	rec := make([]byte, RecordSize)
	binary.LittleEndian.PutUint16(rec[offType:], code)
	binary.LittleEndian.PutUint16(rec[offMajorCh:], c.MajorCh)
	binary.LittleEndian.PutUint16(rec[offMinorCh:], c.MinorCh)
	binary.LittleEndian.PutUint16(rec[offPTC:], c.PTC)
	binary.LittleEndian.PutUint16(rec[offProgNum:], c.ProgNum)
	binary.LittleEndian.PutUint16(rec[offReserved:], reservedValue)
	copy(rec[offDispNo:offDispNo+DispNoSize], c.DispNo)
	binary.LittleEndian.PutUint16(rec[offTitleLen:], uint16(len(c.Title)))
	copy(rec[offTitle:], c.Title)
	return rec, nil
}

// DisplayString is a one-line form for listings and logs.
func (c Channel) DisplayString() string {
	return fmt.Sprintf("[%s] %4s %s", c.Type, c.DispNo, c.Title)
}

func (c Channel) String() string {
	return fmt.Sprintf("<Channel %s %q ChType=%s MajorCh=%d MinorCh=%d PTC=%d ProgNum=%d>",
		c.DispNo, c.Title, c.Type, c.MajorCh, c.MinorCh, c.PTC, c.ProgNum)
}
