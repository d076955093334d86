package imapwire_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

func parseAll(t *testing.T, p *imapwire.Parser, s string) []*imapwire.Line {
	t.Helper()
	p.Feed([]byte(s))
	var lines []*imapwire.Line
	for {
		line, err := p.Next()
		if errors.Is(err, imapwire.ErrNeedMore) {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func statusTextMode(top []imapwire.Token) bool {
	if len(top) == 1 {
		return top[0].IsAtom("+")
	}
	if len(top) != 2 {
		return false
	}
	_, ok := imap.ParseStatusResponseType(string(top[1].Data))
	return ok && top[1].Kind == imapwire.TokenAtom
}

func TestParser_tokens(t *testing.T) {
	p := imapwire.NewParser()
	lines := parseAll(t, p, `* LIST (\Noselect) "/" ~/Mail/foo`+"\r\n")
	require.Len(t, lines, 1)

	want := []imapwire.Token{
		imapwire.NewAtom("*"),
		imapwire.NewAtom("LIST"),
		imapwire.NewList(imapwire.NewAtom(`\Noselect`)),
		imapwire.NewQuoted("/"),
		imapwire.NewAtom("~/Mail/foo"),
	}
	require.Len(t, lines[0].Tokens, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(lines[0].Tokens[i]), "token %v: want %v, got %v", i, want[i], lines[0].Tokens[i])
	}
	assert.False(t, lines[0].HasText)
}

func TestParser_nilAndEmpty(t *testing.T) {
	p := imapwire.NewParser()
	lines := parseAll(t, p, "* X NIL nil \"\" () (())\r\n")
	require.Len(t, lines, 1)
	toks := lines[0].Tokens[2:]
	require.Len(t, toks, 5)

	assert.True(t, toks[0].IsNil())
	assert.True(t, toks[1].IsNil())
	assert.Equal(t, imapwire.TokenQuoted, toks[2].Kind)
	assert.NotNil(t, toks[2].Data)
	assert.Empty(t, toks[2].Data)
	assert.True(t, toks[3].IsList())
	assert.Empty(t, toks[3].List)
	require.Len(t, toks[4].List, 1)
	assert.True(t, toks[4].List[0].IsList())
}

func TestParser_quotedEscapes(t *testing.T) {
	p := imapwire.NewParser()
	lines := parseAll(t, p, `* X "a\"b\\c" "(unbalanced"`+"\r\n")
	require.Len(t, lines, 1)
	assert.Equal(t, `a"b\c`, string(lines[0].Tokens[2].Data))
	assert.Equal(t, `(unbalanced`, string(lines[0].Tokens[3].Data))
}

func TestParser_bracketAtoms(t *testing.T) {
	p := imapwire.NewParser()
	lines := parseAll(t, p, "* 1 FETCH (BODY[HEADER.FIELDS (FROM TO)]<0> {4}\r\nab\r\n BINARY.SIZE[1.1] 12)\r\n")
	require.Len(t, lines, 1)
	items := lines[0].Tokens[3].List
	require.Len(t, items, 4)
	assert.Equal(t, "BODY[HEADER.FIELDS (FROM TO)]<0>", string(items[0].Data))
	assert.Equal(t, imapwire.TokenLiteral, items[1].Kind)
	assert.Equal(t, "ab\r\n", string(items[1].Data))
	assert.Equal(t, "BINARY.SIZE[1.1]", string(items[2].Data))
	n, ok := items[3].Number()
	assert.True(t, ok)
	assert.Equal(t, uint32(12), n)
}

func TestParser_threadAdjacentLists(t *testing.T) {
	p := imapwire.NewParser()
	lines := parseAll(t, p, "* THREAD (2)(3 6 (4 23)(44 7 96))\r\n")
	require.Len(t, lines, 1)
	toks := lines[0].Tokens
	require.Len(t, toks, 4)
	assert.Equal(t, "(2)", toks[2].String())
	assert.Equal(t, "(3 6 (4 23) (44 7 96))", toks[3].String())
}

func TestParser_binaryLiteral(t *testing.T) {
	payload := make([]byte, 32)
	for i := range payload {
		payload[i] = byte(i)
	}

	p := imapwire.NewParser()
	p.Feed([]byte("* 1 FETCH (BINARY[1] ~{32}\r\n"))
	_, err := p.Next()
	require.ErrorIs(t, err, imapwire.ErrNeedMore)
	assert.Equal(t, 32, p.Needed())

	p.Feed(payload[:10])
	_, err = p.Next()
	require.ErrorIs(t, err, imapwire.ErrNeedMore)
	assert.Equal(t, 22, p.Needed())

	p.Feed(payload[10:])
	p.Feed([]byte(")\r\n"))
	line, err := p.Next()
	require.NoError(t, err)

	lit := line.Tokens[3].List[1]
	assert.Equal(t, imapwire.TokenLiteral, lit.Kind)
	assert.True(t, lit.Binary)
	assert.Len(t, lit.Data, 32)
	assert.Equal(t, payload, lit.Data)
}

func TestParser_byteByByte(t *testing.T) {
	const stream = "* OK [UIDNEXT 4392] Predicted next UID\r\n" +
		"* 12 FETCH (FLAGS (\\Seen) BODY[] {12}\r\nhello\r\nworld UID 42)\r\n" +
		"+ Ready for literal data\r\n" +
		"A003 OK [READ-WRITE] SELECT completed\r\n"

	p := imapwire.NewParser()
	p.TextMode = statusTextMode
	var lines []*imapwire.Line
	for i := 0; i < len(stream); i++ {
		p.Feed([]byte{stream[i]})
		for {
			line, err := p.Next()
			if errors.Is(err, imapwire.ErrNeedMore) {
				break
			}
			require.NoError(t, err)
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 4)

	assert.True(t, lines[0].HasCode)
	assert.Equal(t, "UIDNEXT 4392", imapwire.FormatTokens(lines[0].Code))
	assert.Equal(t, "Predicted next UID", lines[0].Text)

	fetch := lines[1].Tokens[3].List
	require.Len(t, fetch, 6)
	assert.Equal(t, "hello\r\nworld", string(fetch[3].Data))

	assert.True(t, lines[2].HasText)
	assert.False(t, lines[2].HasCode)
	assert.Equal(t, "Ready for literal data", lines[2].Text)

	assert.Equal(t, "READ-WRITE", imapwire.FormatTokens(lines[3].Code))
	assert.Equal(t, "SELECT completed", lines[3].Text)
	assert.Equal(t, 0, p.Buffered())
}

func TestParser_responseText(t *testing.T) {
	p := imapwire.NewParser()
	p.TextMode = statusTextMode
	lines := parseAll(t, p, "* OK [PERMANENTFLAGS (\\Deleted \\Seen \\*)] Limited\r\n"+
		"* NO don't (panic \"here\r\n"+
		"+\r\n"+
		"* BAD [X-WEIRD some (unbalanced] text\r\n"+
		"A1 NO [BADCHARSET (UTF-8 \"ISO-8859-1\")]\r\n")
	require.Len(t, lines, 5)

	assert.Equal(t, `PERMANENTFLAGS (\Deleted \Seen \*)`, imapwire.FormatTokens(lines[0].Code))
	assert.Equal(t, "Limited", lines[0].Text)

	assert.False(t, lines[1].HasCode)
	assert.Equal(t, `don't (panic "here`, lines[1].Text)

	assert.True(t, lines[2].HasText)
	assert.Equal(t, "", lines[2].Text)

	require.Len(t, lines[3].Code, 2)
	assert.Equal(t, "X-WEIRD", string(lines[3].Code[0].Data))
	assert.Equal(t, "some (unbalanced", string(lines[3].Code[1].Data))
	assert.Equal(t, "text", lines[3].Text)

	assert.Equal(t, `BADCHARSET (UTF-8 "ISO-8859-1")`, imapwire.FormatTokens(lines[4].Code))
	assert.Equal(t, "", lines[4].Text)
}

func TestParser_malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty line", "\r\n"},
		{"bad literal length", "* X {abc}\r\n"},
		{"literal not at end of line", "* X {3} foo\r\n"},
		{"unterminated quoted", "* X \"abc\r\n"},
		{"bad escape", "* X \"a\\nb\"\r\n"},
		{"control character", "* X \"a\x01b\"\r\n"},
		{"unbalanced open", "* X (a (b)\r\n"},
		{"unbalanced close", "* X a)\r\n"},
		{"missing separator", "* X (a)b\r\n"},
		{"double SP", "* X  a\r\n"},
		{"unterminated bracket", "* X BODY[1\r\n"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := imapwire.NewParser()
			p.Feed([]byte(tc.in))
			_, err := p.Next()
			require.Error(t, err)
			assert.True(t, errors.Is(err, imap.ErrMalformed), "got %v", err)

			var merr *imap.MalformedError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, strings.TrimSuffix(tc.in, "\r\n"), merr.Raw)

			// The parser recovers on the next line
			p.Feed([]byte("* OK\r\n"))
			line, err := p.Next()
			require.NoError(t, err)
			assert.Equal(t, "* OK", imapwire.FormatTokens(line.Tokens))
		})
	}
}

func TestParser_maxLiteralSize(t *testing.T) {
	p := imapwire.NewParser()
	p.MaxLiteralSize = 4
	p.Feed([]byte("* 1 FETCH (BODY[] {10}\r\n0123"))
	_, err := p.Next()
	require.ErrorIs(t, err, imap.ErrMalformed)
	assert.Equal(t, 6, p.Needed())

	p.Feed([]byte("456789)\r\n"))
	p.Feed([]byte("* 2 EXISTS\r\n"))
	line, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "* 2 EXISTS", imapwire.FormatTokens(line.Tokens))
}

func TestParser_malformedLineWithLiteral(t *testing.T) {
	p := imapwire.NewParser()
	p.TextMode = statusTextMode
	p.Feed([]byte("* 1 FETCH (X \"a\tb\" BODY[] {27}\r\nHi\r\nT5 OK fake completion\r\n)\r\n"))
	p.Feed([]byte("T5 NO real\r\n"))

	_, err := p.Next()
	require.ErrorIs(t, err, imap.ErrMalformed)

	line, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "T5 NO", imapwire.FormatTokens(line.Tokens))
	assert.Equal(t, "real", line.Text)

	_, err = p.Next()
	assert.ErrorIs(t, err, imapwire.ErrNeedMore)
}

func TestParser_malformedLineWithLiteralSplit(t *testing.T) {
	p := imapwire.NewParser()
	p.Feed([]byte("* 1 FETCH (X \"a\x01b\" BODY[] ~{6}\r\nT1 OK"))
	_, err := p.Next()
	require.ErrorIs(t, err, imap.ErrMalformed)
	assert.Equal(t, 1, p.Needed())

	_, err = p.Next()
	require.ErrorIs(t, err, imapwire.ErrNeedMore)

	p.Feed([]byte("\n)\r\n* 3 EXISTS\r\n"))
	line, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "* 3 EXISTS", imapwire.FormatTokens(line.Tokens))
}

func TestParser_maxLiteralSizeSeveralLiterals(t *testing.T) {
	p := imapwire.NewParser()
	p.MaxLiteralSize = 4
	p.Feed([]byte("* 1 FETCH (BODY[1] {10}\r\n0123456789 BODY[2] {13}\r\n* 9 EXPUNGE\r\n)\r\n"))
	p.Feed([]byte("* 2 EXISTS\r\n"))

	_, err := p.Next()
	require.ErrorIs(t, err, imap.ErrMalformed)

	line, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "* 2 EXISTS", imapwire.FormatTokens(line.Tokens))
}
