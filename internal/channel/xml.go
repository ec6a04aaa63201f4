package channel

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Request parameter names of the SetMainTVChannel action.
const (
	ParamChannelListType = "ChannelListType"
	ParamChannel         = "Channel"
	ParamSatelliteID     = "SatelliteID"
)

// Element is a <Channel> document as reported by GetCurrentMainTVChannel.
// Children are pointers so a missing element can be told apart from an
// empty one.
type Element struct {
	XMLName xml.Name `xml:"Channel"`
	ChType  *string  `xml:"ChType"`
	MajorCh *string  `xml:"MajorCh"`
	MinorCh *string  `xml:"MinorCh"`
	PTC     *string  `xml:"PTC"`
	ProgNum *string  `xml:"ProgNum"`
}

// FromElement builds a Channel from a device-reported channel document. The
// document carries no title, and the display number is the major channel.
// Any missing or unreadable child fails with ErrMalformedDocument.
func FromElement(el Element) (Channel, error) {
	malformed := NewParseError(ErrMalformedDocument, "Wrong XML document")

	chType, ok := text(el.ChType)
	if !ok {
		return Channel{}, malformed
	}
	var nums [4]uint16
	for i, p := range []*string{el.MajorCh, el.MinorCh, el.PTC, el.ProgNum} {
		s, ok := text(p)
		if !ok {
			return Channel{}, malformed
		}
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return Channel{}, malformed
		}
		nums[i] = uint16(v)
	}

	return Channel{
		Type:    Type(chType),
		MajorCh: nums[0],
		MinorCh: nums[1],
		PTC:     nums[2],
		ProgNum: nums[3],
		DispNo:  strconv.FormatUint(uint64(nums[0]), 10),
	}, nil
}

func text(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	s := strings.TrimSpace(*p)
	return s, s != ""
}

// ParseCurrentChannel parses the CurrentChannel value of a
// GetCurrentMainTVChannel response. The action result arrives entity-escaped,
// so an escaped document is unescaped first.
func ParseCurrentChannel(doc []byte) (Channel, error) {
	doc = bytes.TrimSpace(doc)
	if bytes.HasPrefix(doc, []byte("&lt;")) {
		doc = []byte(html.UnescapeString(string(doc)))
	}
	var el Element
	if err := xml.Unmarshal(doc, &el); err != nil {
		return Channel{}, NewParseError(ErrMalformedDocument, "Wrong XML document")
	}
	return FromElement(el)
}

// XML renders the channel as the <Channel> argument of SetMainTVChannel.
// DispNo and Title are not part of it.
func (c Channel) XML() string {
	var chType bytes.Buffer
	// EscapeText only fails if the writer fails.
	_ = xml.EscapeText(&chType, []byte(c.Type))

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" ?><Channel><ChType>%s</ChType>`+
		`<MajorCh>%d</MajorCh><MinorCh>%d</MinorCh><PTC>%d</PTC><ProgNum>%d</ProgNum></Channel>`,
		chType.String(), c.MajorCh, c.MinorCh, c.PTC, c.ProgNum)
}

// RequestParams returns the argument set of the SetMainTVChannel action.
func (c Channel) RequestParams(listType, satelliteID string) map[string]string {
	return map[string]string{
		ParamChannelListType: listType,
		ParamChannel:         c.XML(),
		ParamSatelliteID:     satelliteID,
	}
}

// KeySequence returns the remote keys that tune to the channel by typing its
// display number followed by KEY_ENTER.
func (c Channel) KeySequence() ([]string, error) {
	if _, err := strconv.ParseUint(c.DispNo, 10, 32); err != nil {
		return nil, fmt.Errorf("display number %q is not a non-negative integer", c.DispNo)
	}
	keys := make([]string, 0, len(c.DispNo)+1)
	for _, d := range c.DispNo {
		keys = append(keys, "KEY_"+string(d))
	}
	return append(keys, "KEY_ENTER"), nil
}
