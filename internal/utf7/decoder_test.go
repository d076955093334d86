package utf7_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/transform"

	"github.com/emersion/go-imap-engine/internal/utf7"
)

func TestDecoder_valid(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"", ""},
		{"INBOX", "INBOX"},
		{"&-abc", "&abc"},
		{"abc&-", "abc&"},
		{"a&-b&-c", "a&b&c"},
		{"&ABk-", "\x19"},
		{"&AB8-", "\x1F"},
		{"ABk-", "ABk-"},
		{"Entw&APw-rfe", "Entwürfe"},
		{"~peter/mail/&U,BTFw-/&ZeVnLIqe-", "~peter/mail/台北/日本語"},
		{"&-,&-&AP8-&-", "&,&ÿ&"},
		{"abc &- &AP8A,wD,- &- xyz", "abc & ÿÿÿ & xyz"},
		{"x &2D3eCg- &2D3eCw- &2D3eDg-", "x \U0001f60a \U0001f60b \U0001f60e"},
		{strings.Repeat("a", 120) + " &2D3eCg-", strings.Repeat("a", 120) + " \U0001f60a"},
		{"0 &" + strings.Repeat("MEIwQjBC", 12) + "MEI- 0", "0 " + strings.Repeat("あ", 37) + " 0"},
	}

	dec := utf7.Encoding.NewDecoder()
	for _, test := range tests {
		out, err := dec.String(test.in)
		require.NoError(t, err, "decode %+q", test.in)
		assert.Equal(t, test.out, out, "decode %+q", test.in)
	}
}

func TestDecoder_invalid(t *testing.T) {
	groups := map[string][]string{
		"non-printable ASCII": {"\x00", "\x1F", "abc\n", "abc\x7Fxyz", "�", "М"},
		"bad base64 alphabet": {"&/+8-", "&*-", "&ZeVnLIqe -"},
		"CRLF in base64":      {"&ZeVnLIqe\r\n-", "&ZeVn\r\n\r\nLIqe-"},
		"padding":             {"&AAAAHw=-", "&AAAAHw==-", "&AAAAHwB,AIA=-"},
		"truncated":           {"&2A-", "&2ADc-", "&AAAAHwB,A-", "&AAAAHwB,AI-", "&AAAAHwB,AI==-"},
		"implicit shift":      {"&", "&Jjo", "Jjo&", "&Jjo&", "&Jjo!", "abc&Jjo"},
		"null shift":          {"&AGE-&Jjo-", "&U,BTFw-&ZeVnLIqe-"},
		"encoded ASCII":       {"&AGE-", "&ACY-", "&AGgAZQBsAGwAbw-", "&JjoAIQ-"},
		"bad surrogate":       {"&2AA-", "&2AD-", "&3AA-", "&2AAAQQ-", "&2AD,,w-", "&3ADYAA-"},
	}

	dec := utf7.Encoding.NewDecoder()
	for name, inputs := range groups {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				out, err := dec.String(in)
				assert.Empty(t, out, "decode %+q", in)
				assert.True(t, errors.Is(err, utf7.ErrInvalidUTF7), "decode %+q: got %v", in, err)
			}
		})
	}
}

// A name fed through a small buffer must decode the same way as one fed at
// once, since shift sequences may be split across Transform calls.
func TestDecoder_chunked(t *testing.T) {
	in := "Archive/&ZeVnLIqe-/Entw&APw-rfe/&2D3eCg-"
	r := transform.NewReader(iotest.OneByteReader(strings.NewReader(in)), utf7.Encoding.NewDecoder())

	var sb strings.Builder
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	assert.Equal(t, "Archive/日本語/Entwürfe/\U0001F60A", sb.String())
}
