package channel

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLShape(t *testing.T) {
	ch := Channel{Type: CDTV, MajorCh: 7, MinorCh: 0, PTC: 33, ProgNum: 1, DispNo: "7", Title: "Tele5"}
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8" ?><Channel><ChType>CDTV</ChType><MajorCh>7</MajorCh>`+
			`<MinorCh>0</MinorCh><PTC>33</PTC><ProgNum>1</ProgNum></Channel>`,
		ch.XML())
}

func TestXMLEscapesType(t *testing.T) {
	ch := Channel{Type: "A<B>&C", MajorCh: 1}
	doc := ch.XML()
	assert.Contains(t, doc, "<ChType>A&lt;B&gt;&amp;C</ChType>")

	var el Element
	require.NoError(t, xml.Unmarshal([]byte(doc), &el))
	require.NotNil(t, el.ChType)
	assert.Equal(t, "A<B>&C", *el.ChType)
}

func TestXMLRoundTrip(t *testing.T) {
	rec := record(2, 65535, 12, 40, 28106, 0xffff, "999", "Sky Sport")
	in, err := FromRecord(rec)
	require.NoError(t, err)

	out, err := ParseCurrentChannel([]byte(in.XML()))
	require.NoError(t, err)

	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.MajorCh, out.MajorCh)
	assert.Equal(t, in.MinorCh, out.MinorCh)
	assert.Equal(t, in.PTC, out.PTC)
	assert.Equal(t, in.ProgNum, out.ProgNum)
	assert.Equal(t, "65535", out.DispNo)
	assert.Empty(t, out.Title)
}

func TestParseCurrentChannelEscaped(t *testing.T) {
	doc := `&lt;?xml version="1.0" encoding="UTF-8" ?&gt;&lt;Channel&gt;&lt;ChType&gt;DTV&lt;/ChType&gt;` +
		`&lt;MajorCh&gt;5&lt;/MajorCh&gt;&lt;MinorCh&gt;1&lt;/MinorCh&gt;&lt;PTC&gt;21&lt;/PTC&gt;` +
		`&lt;ProgNum&gt;3&lt;/ProgNum&gt;&lt;/Channel&gt;`
	ch, err := ParseCurrentChannel([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, Channel{Type: DTV, MajorCh: 5, MinorCh: 1, PTC: 21, ProgNum: 3, DispNo: "5"}, ch)
}

func TestParseCurrentChannelMalformed(t *testing.T) {
	tests := map[string]string{
		"not xml":       `garbage`,
		"wrong root":    `<Service><ChType>DTV</ChType></Service>`,
		"missing PTC":   `<Channel><ChType>DTV</ChType><MajorCh>5</MajorCh><MinorCh>1</MinorCh><ProgNum>3</ProgNum></Channel>`,
		"empty ChType":  `<Channel><ChType></ChType><MajorCh>5</MajorCh><MinorCh>1</MinorCh><PTC>2</PTC><ProgNum>3</ProgNum></Channel>`,
		"non numeric":   `<Channel><ChType>DTV</ChType><MajorCh>five</MajorCh><MinorCh>1</MinorCh><PTC>2</PTC><ProgNum>3</ProgNum></Channel>`,
		"out of range":  `<Channel><ChType>DTV</ChType><MajorCh>70000</MajorCh><MinorCh>1</MinorCh><PTC>2</PTC><ProgNum>3</ProgNum></Channel>`,
		"negative":      `<Channel><ChType>DTV</ChType><MajorCh>-1</MajorCh><MinorCh>1</MinorCh><PTC>2</PTC><ProgNum>3</ProgNum></Channel>`,
		"missing MinCh": `<Channel><ChType>DTV</ChType><MajorCh>5</MajorCh><PTC>2</PTC><ProgNum>3</ProgNum></Channel>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCurrentChannel([]byte(doc))
			require.ErrorIs(t, err, ErrMalformedDocument)
			assert.Equal(t, "Wrong XML document", err.Error())
		})
	}
}

func TestRequestParams(t *testing.T) {
	ch := Channel{Type: CDTV, MajorCh: 7, PTC: 33, ProgNum: 1}
	params := ch.RequestParams("0x01", "0")

	assert.Len(t, params, 3)
	assert.Equal(t, "0x01", params[ParamChannelListType])
	assert.Equal(t, ch.XML(), params[ParamChannel])
	assert.Equal(t, "0", params[ParamSatelliteID])
}

func TestKeySequence(t *testing.T) {
	keys, err := Channel{DispNo: "107"}.KeySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"KEY_1", "KEY_0", "KEY_7", "KEY_ENTER"}, keys)

	keys, err = Channel{DispNo: "0"}.KeySequence()
	require.NoError(t, err)
	assert.Equal(t, []string{"KEY_0", "KEY_ENTER"}, keys)

	for _, bad := range []string{"", "7a", "-3", "11-3"} {
		_, err := Channel{DispNo: bad}.KeySequence()
		assert.Error(t, err, bad)
	}
}
