package imapwire

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/internal/utf7"
)

// literalMinusMax is the largest literal which can be sent as a
// non-synchronizing literal with LITERAL-.
const literalMinusMax = 4096

// EncoderOptions contains options for CommandEncoder. A nil *EncoderOptions
// is valid and enables none of the options.
type EncoderOptions struct {
	// QuotedUTF8 allows non-ASCII strings to be encoded as quoted strings.
	// This requires IMAP4rev2 or UTF8=ACCEPT.
	QuotedUTF8 bool
	// LiteralMinus enables non-synchronizing literals for payloads up to 4096
	// bytes. This requires IMAP4rev2 or LITERAL-.
	LiteralMinus bool
	// LiteralPlus enables non-synchronizing literals for all payloads. This
	// requires LITERAL+.
	LiteralPlus bool
}

type piece struct {
	text []byte
	lit  *Literal
	// wait is set when the piece ends with a synchronizing literal header
	wait bool
}

// CommandEncoder writes a command.
//
// Encode writes the command up to the first synchronizing literal header and
// returns ErrWaitContinuation. Once the server has sent a continuation
// request, the next call to Encode writes the literal payload and proceeds
// with the rest of the command. If the server rejects the literal with a
// tagged response instead, the encoder must be discarded.
type CommandEncoder struct {
	options EncoderOptions
	pieces  []piece
	next    int
	err     error

	cur bytes.Buffer
}

// NewCommandEncoder validates a command and prepares its encoding.
//
// An *imap.ArgumentError is returned if the command or one of its arguments
// is invalid.
func NewCommandEncoder(cmd *Command, options *EncoderOptions) (*CommandEncoder, error) {
	enc := &CommandEncoder{}
	if options != nil {
		enc.options = *options
	}

	if cmd.Name == "" {
		if len(cmd.Args) != 1 {
			return nil, &imap.ArgumentError{Name: "continuation data", Err: fmt.Errorf("expected a single argument, got %v", len(cmd.Args))}
		}
		if err := enc.arg(cmd.Args[0]); err != nil {
			return nil, err
		}
	} else {
		if !isValidTag(cmd.Tag) {
			return nil, &imap.ArgumentError{Name: "tag", Value: cmd.Tag}
		}
		for _, word := range strings.Split(cmd.Name, " ") {
			if !isASCIIAtom(word) {
				return nil, &imap.ArgumentError{Name: "command name", Value: cmd.Name}
			}
		}
		enc.cur.WriteString(cmd.Tag)
		enc.cur.WriteByte(' ')
		enc.cur.WriteString(cmd.Name)
		for _, arg := range cmd.Args {
			enc.cur.WriteByte(' ')
			if err := enc.arg(arg); err != nil {
				return nil, err
			}
		}
	}

	enc.cur.WriteString("\r\n")
	enc.flushPiece(false)
	return enc, nil
}

// Done returns true if the whole command has been written.
func (enc *CommandEncoder) Done() bool {
	return enc.next >= len(enc.pieces)
}

// Encode writes the command to w, until the end of the command or until a
// synchronizing literal header. In the latter case, ErrWaitContinuation is
// returned.
func (enc *CommandEncoder) Encode(w io.Writer) error {
	if enc.err != nil {
		return enc.err
	}

	bw := bufio.NewWriter(w)
	for enc.next < len(enc.pieces) {
		p := enc.pieces[enc.next]
		enc.next++

		if p.lit != nil {
			if err := writeLiteralPayload(bw, p.lit); err != nil {
				enc.err = err
				return err
			}
		} else if _, err := bw.Write(p.text); err != nil {
			enc.err = err
			return err
		}

		if p.wait {
			if err := bw.Flush(); err != nil {
				enc.err = err
				return err
			}
			return ErrWaitContinuation
		}
	}

	if err := bw.Flush(); err != nil {
		enc.err = err
		return err
	}
	return nil
}

func writeLiteralPayload(w io.Writer, lit *Literal) error {
	if lit.Size == 0 {
		return nil
	}
	n, err := io.CopyN(w, lit.R, lit.Size)
	if err == io.EOF {
		return fmt.Errorf("imapwire: literal payload too short (%v bytes out of %v)", n, lit.Size)
	}
	return err
}

func (enc *CommandEncoder) flushPiece(wait bool) {
	if enc.cur.Len() == 0 && !wait {
		return
	}
	text := make([]byte, enc.cur.Len())
	copy(text, enc.cur.Bytes())
	enc.cur.Reset()
	enc.pieces = append(enc.pieces, piece{text: text, wait: wait})
}

func (enc *CommandEncoder) arg(arg Arg) error {
	switch arg := arg.(type) {
	case Atom:
		if !isValidAtomArg(string(arg)) {
			return &imap.ArgumentError{Name: "atom", Value: string(arg)}
		}
		enc.cur.WriteString(string(arg))
	case Quoted:
		if !enc.validQuoted(string(arg)) {
			return &imap.ArgumentError{Name: "quoted string", Value: string(arg)}
		}
		enc.quoted(string(arg))
	case String:
		enc.astring(string(arg))
	case Mailbox:
		return enc.mailbox(string(arg))
	case Flag:
		if arg != "\\*" && !isValidFlag(string(arg)) {
			return &imap.ArgumentError{Name: "flag", Value: string(arg)}
		}
		enc.cur.WriteString(string(arg))
	case Number:
		enc.cur.WriteString(strconv.FormatUint(uint64(arg), 10))
	case Number64:
		if arg < 0 {
			return &imap.ArgumentError{Name: "number", Value: strconv.FormatInt(int64(arg), 10)}
		}
		enc.cur.WriteString(strconv.FormatInt(int64(arg), 10))
	case NumSet:
		if arg.Set == nil || arg.Set.IsEmpty() {
			return &imap.ArgumentError{Name: "number set", Err: fmt.Errorf("empty set")}
		}
		enc.cur.WriteString(arg.Set.String())
	case List:
		enc.cur.WriteByte('(')
		for i, item := range arg {
			if i > 0 {
				enc.cur.WriteByte(' ')
			}
			if err := enc.arg(item); err != nil {
				return err
			}
		}
		enc.cur.WriteByte(')')
	case *Literal:
		if arg.Size < 0 || (arg.Size > 0 && arg.R == nil) {
			return &imap.ArgumentError{Name: "literal", Value: strconv.FormatInt(arg.Size, 10)}
		}
		enc.literal(arg)
	case Raw:
		enc.cur.WriteString(string(arg))
	case NilArg:
		enc.cur.WriteString("NIL")
	default:
		return &imap.ArgumentError{Name: "argument", Value: fmt.Sprintf("%T", arg)}
	}
	return nil
}

func (enc *CommandEncoder) quoted(s string) {
	enc.cur.WriteByte('"')
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '"' || ch == '\\' {
			enc.cur.WriteByte('\\')
		}
		enc.cur.WriteByte(ch)
	}
	enc.cur.WriteByte('"')
}

func (enc *CommandEncoder) astring(s string) {
	switch {
	case isASCIIAtom(s) && !strings.EqualFold(s, "NIL"):
		enc.cur.WriteString(s)
	case enc.validQuoted(s):
		enc.quoted(s)
	default:
		enc.literal(&Literal{Size: int64(len(s)), R: strings.NewReader(s)})
	}
}

func (enc *CommandEncoder) validQuoted(s string) bool {
	if len(s) > 4096 {
		return false
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]

		// NUL, CR and LF are never valid
		switch ch {
		case 0, '\r', '\n':
			return false
		}

		if !enc.options.QuotedUTF8 && ch > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func (enc *CommandEncoder) mailbox(name string) error {
	if strings.EqualFold(name, "INBOX") {
		enc.cur.WriteString("INBOX")
		return nil
	}
	encoded, err := utf7.Encoding.NewEncoder().String(name)
	if err != nil {
		return &imap.ArgumentError{Name: "mailbox", Value: name, Err: err}
	}
	enc.astring(encoded)
	return nil
}

func (enc *CommandEncoder) literal(lit *Literal) {
	nonSync := lit.NonSync || enc.options.LiteralPlus ||
		(enc.options.LiteralMinus && lit.Size <= literalMinusMax)

	if lit.Binary {
		enc.cur.WriteByte('~')
	}
	enc.cur.WriteByte('{')
	enc.cur.WriteString(strconv.FormatInt(lit.Size, 10))
	if nonSync {
		enc.cur.WriteByte('+')
	}
	enc.cur.WriteString("}\r\n")

	enc.flushPiece(!nonSync)
	enc.pieces = append(enc.pieces, piece{lit: lit})
}

func isValidTag(tag string) bool {
	return isASCIIAtom(tag) && !strings.ContainsRune(tag, '+')
}

// isValidAtomArg checks an atom argument. List wildcards, "*" in sequence
// sets and "]" in FETCH items are accepted.
func isValidAtomArg(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '*', '%', ']':
			continue
		default:
			if ch > unicode.MaxASCII || !IsAtomChar(ch) {
				return false
			}
		}
	}
	return true
}
