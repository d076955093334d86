package imapwire

import (
	"io"

	"github.com/emersion/go-imap-engine"
)

// Command is a command to be sent to the server.
//
// If Name is empty, the command is continuation data (for instance a SASL
// response): Args must contain a single argument, which is sent without a
// tag.
type Command struct {
	Tag  string
	Name string
	Args []Arg
}

// Arg is a command argument.
type Arg interface {
	arg()
}

var (
	_ Arg = Atom("")
	_ Arg = Quoted("")
	_ Arg = String("")
	_ Arg = Mailbox("")
	_ Arg = Flag("")
	_ Arg = Number(0)
	_ Arg = Number64(0)
	_ Arg = NumSet{}
	_ Arg = List(nil)
	_ Arg = (*Literal)(nil)
	_ Arg = Raw("")
	_ Arg = NIL
)

// Atom is an atom argument, sent as-is. It must only contain ATOM-CHARs.
type Atom string

// Quoted is a quoted string argument.
type Quoted string

// String is a string argument. It is sent as an atom, a quoted string or a
// literal, whichever fits.
type String string

// Mailbox is a mailbox name argument. It is encoded with modified UTF-7 and
// sent as a string. The name INBOX is case-insensitive.
type Mailbox string

// Flag is a message flag argument.
type Flag imap.Flag

// Number is a 32-bit unsigned number argument.
type Number uint32

// Number64 is a 63-bit unsigned number argument.
type Number64 int64

// NumSet is a sequence set or UID set argument.
type NumSet struct {
	Set imap.NumSet
}

// List is a parenthesized list argument.
type List []Arg

// Literal is a literal argument. Its payload is read from R when the literal
// is sent, R must provide exactly Size bytes.
type Literal struct {
	Size int64
	R    io.Reader

	// NonSync requests a non-synchronizing literal "{n+}". This requires
	// LITERAL+, or LITERAL- for literals up to 4096 bytes.
	NonSync bool
	// Binary requests a literal8 "~{n}". This requires BINARY.
	Binary bool
}

// Raw is sent verbatim. It's used for continuation data and for syntax not
// covered by the other argument types.
type Raw string

// NilArg is the type of NIL.
type NilArg struct{}

// NIL is the NIL argument.
var NIL = NilArg{}

func (Atom) arg()     {}
func (Quoted) arg()   {}
func (String) arg()   {}
func (Mailbox) arg()  {}
func (Flag) arg()     {}
func (Number) arg()   {}
func (Number64) arg() {}
func (NumSet) arg()   {}
func (List) arg()     {}
func (*Literal) arg() {}
func (Raw) arg()      {}
func (NilArg) arg()   {}
