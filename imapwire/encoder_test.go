package imapwire_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

func encodeAll(t *testing.T, cmd *imapwire.Command, options *imapwire.EncoderOptions) string {
	t.Helper()
	enc, err := imapwire.NewCommandEncoder(cmd, options)
	require.NoError(t, err)
	var buf bytes.Buffer
	for {
		err := enc.Encode(&buf)
		if errors.Is(err, imapwire.ErrWaitContinuation) {
			continue
		}
		require.NoError(t, err)
		break
	}
	assert.True(t, enc.Done())
	return buf.String()
}

func TestCommandEncoder(t *testing.T) {
	seqSet, err := imap.ParseSeqSet("1:3,5")
	require.NoError(t, err)

	tests := []struct {
		name string
		cmd  imapwire.Command
		want string
	}{
		{
			name: "no arguments",
			cmd:  imapwire.Command{Tag: "A1", Name: "NOOP"},
			want: "A1 NOOP\r\n",
		},
		{
			name: "strings",
			cmd: imapwire.Command{Tag: "A2", Name: "LOGIN", Args: []imapwire.Arg{
				imapwire.String("joe"),
				imapwire.String(`pa ss"w\rd`),
			}},
			want: "A2 LOGIN joe \"pa ss\\\"w\\\\rd\"\r\n",
		},
		{
			name: "empty and NIL strings",
			cmd: imapwire.Command{Tag: "A3", Name: "X", Args: []imapwire.Arg{
				imapwire.String(""),
				imapwire.String("nil"),
				imapwire.NIL,
			}},
			want: "A3 X \"\" \"nil\" NIL\r\n",
		},
		{
			name: "mailboxes",
			cmd: imapwire.Command{Tag: "A4", Name: "RENAME", Args: []imapwire.Arg{
				imapwire.Mailbox("inbox"),
				imapwire.Mailbox("Entwürfe & Co"),
			}},
			want: "A4 RENAME INBOX \"Entw&APw-rfe &- Co\"\r\n",
		},
		{
			name: "list, flags and sets",
			cmd: imapwire.Command{Tag: "A5", Name: "UID STORE", Args: []imapwire.Arg{
				imapwire.NumSet{Set: seqSet},
				imapwire.Atom("+FLAGS.SILENT"),
				imapwire.List{imapwire.Flag(imap.FlagSeen), imapwire.Flag("$Label")},
			}},
			want: "A5 UID STORE 1:3,5 +FLAGS.SILENT (\\Seen $Label)\r\n",
		},
		{
			name: "numbers",
			cmd: imapwire.Command{Tag: "A6", Name: "X", Args: []imapwire.Arg{
				imapwire.Number(42),
				imapwire.Number64(1 << 40),
				imapwire.Raw("<0.1024>"),
			}},
			want: "A6 X 42 1099511627776 <0.1024>\r\n",
		},
		{
			name: "continuation data",
			cmd:  imapwire.Command{Args: []imapwire.Arg{imapwire.Raw("dGVzdA==")}},
			want: "dGVzdA==\r\n",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, encodeAll(t, &tc.cmd, nil))
		})
	}
}

func TestCommandEncoder_syncLiteral(t *testing.T) {
	cmd := &imapwire.Command{Tag: "A1", Name: "APPEND", Args: []imapwire.Arg{
		imapwire.Mailbox("Sent"),
		&imapwire.Literal{Size: 5, R: strings.NewReader("hello")},
		imapwire.String("line\r\nbreak"),
	}}
	enc, err := imapwire.NewCommandEncoder(cmd, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = enc.Encode(&buf)
	require.ErrorIs(t, err, imapwire.ErrWaitContinuation)
	assert.Equal(t, "A1 APPEND Sent {5}\r\n", buf.String())
	assert.False(t, enc.Done())

	buf.Reset()
	err = enc.Encode(&buf)
	require.ErrorIs(t, err, imapwire.ErrWaitContinuation)
	assert.Equal(t, "hello {11}\r\n", buf.String())

	buf.Reset()
	require.NoError(t, enc.Encode(&buf))
	assert.Equal(t, "line\r\nbreak\r\n", buf.String())
	assert.True(t, enc.Done())
}

func TestCommandEncoder_nonSyncLiteral(t *testing.T) {
	cmd := &imapwire.Command{Tag: "A1", Name: "APPEND", Args: []imapwire.Arg{
		imapwire.Mailbox("Sent"),
		&imapwire.Literal{Size: 5, R: strings.NewReader("hello"), NonSync: true},
	}}
	enc, err := imapwire.NewCommandEncoder(cmd, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf))
	assert.Equal(t, "A1 APPEND Sent {5+}\r\nhello\r\n", buf.String())
}

func TestCommandEncoder_literalOptions(t *testing.T) {
	long := strings.Repeat("x", 5000) + "\n"
	newCmd := func() *imapwire.Command {
		return &imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{
			imapwire.String("a\nb"),
			imapwire.String(long),
			&imapwire.Literal{Size: 3, R: strings.NewReader("abc"), Binary: true},
		}}
	}

	out := encodeAll(t, newCmd(), &imapwire.EncoderOptions{LiteralMinus: true})
	assert.True(t, strings.HasPrefix(out, "A1 X {3+}\r\na\nb {5001}\r\n"), out)
	assert.True(t, strings.HasSuffix(out, " ~{3+}\r\nabc\r\n"), out)

	out = encodeAll(t, newCmd(), &imapwire.EncoderOptions{LiteralPlus: true})
	assert.Contains(t, out, " {5001+}\r\n")

	utf8Cmd := imapwire.Command{Tag: "A2", Name: "X", Args: []imapwire.Arg{imapwire.String("café")}}
	assert.Equal(t, "A2 X {5}\r\ncafé\r\n", encodeAll(t, &utf8Cmd, nil))
	assert.Equal(t, "A2 X \"café\"\r\n", encodeAll(t, &utf8Cmd, &imapwire.EncoderOptions{QuotedUTF8: true}))
}

func TestCommandEncoder_shortLiteral(t *testing.T) {
	cmd := &imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{
		&imapwire.Literal{Size: 10, R: strings.NewReader("short"), NonSync: true},
	}}
	enc, err := imapwire.NewCommandEncoder(cmd, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.Error(t, enc.Encode(&buf))
	assert.Error(t, enc.Encode(&buf))
}

func TestNewCommandEncoder_invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  imapwire.Command
	}{
		{"empty tag", imapwire.Command{Name: "NOOP"}},
		{"tag with plus", imapwire.Command{Tag: "A+1", Name: "NOOP"}},
		{"bad name", imapwire.Command{Tag: "A1", Name: "NO(OP"}},
		{"bad atom", imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{imapwire.Atom("a b")}}},
		{"bad quoted", imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{imapwire.Quoted("a\r\nb")}}},
		{"bad flag", imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{imapwire.Flag("a\\b")}}},
		{"negative number", imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{imapwire.Number64(-1)}}},
		{"empty set", imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{imapwire.NumSet{Set: imap.SeqSet(nil)}}}},
		{"nil literal reader", imapwire.Command{Tag: "A1", Name: "X", Args: []imapwire.Arg{&imapwire.Literal{Size: 1}}}},
		{"continuation with two args", imapwire.Command{Args: []imapwire.Arg{imapwire.Raw("a"), imapwire.Raw("b")}}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := imapwire.NewCommandEncoder(&tc.cmd, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, imap.ErrArgument)
		})
	}
}
