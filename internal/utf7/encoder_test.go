package utf7_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-imap-engine/internal/utf7"
)

var encode = []struct {
	in  string
	out string
}{
	{"", ""},
	{"abc", "abc"},
	{"&", "&-"},
	{"a&b", "a&-b"},
	{"~/Mail/foo", "~/Mail/foo"},
	{"\x19", "&ABk-"},
	{"ÿ", "&AP8-"},
	{"Entwürfe", "Entw&APw-rfe"},
	{"日本語", "&ZeVnLIqe-"},
	{"☺!", "&Jjo-!"},
	{"\U0001F60A", "&2D3eCg-"},
	{"ÿÿÿ", "&AP8A,wD,-"},
}

func TestEncoder(t *testing.T) {
	enc := utf7.Encoding.NewEncoder()
	for _, test := range encode {
		out, err := enc.String(test.in)
		require.NoError(t, err, "encode %+q", test.in)
		assert.Equal(t, test.out, out, "encode %+q", test.in)
	}
}

func TestRoundTrip(t *testing.T) {
	enc := utf7.Encoding.NewEncoder()
	dec := utf7.Encoding.NewDecoder()
	for _, test := range encode {
		out, err := enc.String(test.in)
		require.NoError(t, err)
		back, err := dec.String(out)
		require.NoError(t, err, "decode %+q", out)
		assert.Equal(t, test.in, back)
	}
}
