package imapclient

import (
	"fmt"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// maxRawLen is the maximum length of the raw text attached to errors.
const maxRawLen = 256

// tokenDecoder reads a sequence of tokens, e.g. the arguments of a data
// response or the items of a list.
//
// The Expect methods return false on error. The first error is recorded and
// returned by Err.
type tokenDecoder struct {
	name   string
	tokens []imapwire.Token
	i      int
	err    error
}

func newTokenDecoder(name string, tokens []imapwire.Token) *tokenDecoder {
	return &tokenDecoder{name: name, tokens: tokens}
}

func (dec *tokenDecoder) Err() error {
	return dec.err
}

func (dec *tokenDecoder) returnErr(err error) bool {
	if err == nil {
		return true
	}
	if dec.err == nil {
		dec.err = err
	}
	return false
}

func (dec *tokenDecoder) errorf(format string, v ...interface{}) bool {
	return dec.returnErr(malformedTokens(dec.tokens, fmt.Sprintf("in %v: ", dec.name)+fmt.Sprintf(format, v...)))
}

func malformedTokens(tokens []imapwire.Token, msg string) error {
	raw := imapwire.FormatTokens(tokens)
	if len(raw) > maxRawLen {
		raw = raw[:maxRawLen]
	}
	return &imap.MalformedError{Raw: raw, Msg: msg}
}

// More returns true if there are tokens left.
func (dec *tokenDecoder) More() bool {
	return dec.err == nil && dec.i < len(dec.tokens)
}

// Peek returns the next token without consuming it.
func (dec *tokenDecoder) Peek() (imapwire.Token, bool) {
	if !dec.More() {
		return imapwire.Token{}, false
	}
	return dec.tokens[dec.i], true
}

func (dec *tokenDecoder) Expect(ok bool, name string) bool {
	if !ok {
		if dec.i < len(dec.tokens) {
			return dec.errorf("expected %v, got %v", name, dec.tokens[dec.i])
		}
		return dec.errorf("expected %v", name)
	}
	return true
}

func (dec *tokenDecoder) next() (imapwire.Token, bool) {
	if !dec.More() {
		return imapwire.Token{}, false
	}
	tok := dec.tokens[dec.i]
	return tok, true
}

func (dec *tokenDecoder) Token(ptr *imapwire.Token) bool {
	tok, ok := dec.next()
	if !ok {
		return false
	}
	dec.i++
	*ptr = tok
	return true
}

func (dec *tokenDecoder) ExpectToken(ptr *imapwire.Token) bool {
	return dec.Expect(dec.Token(ptr), "token")
}

func (dec *tokenDecoder) Atom(ptr *string) bool {
	tok, ok := dec.next()
	if !ok {
		return false
	}
	s, ok := tok.Atom()
	if !ok {
		return false
	}
	dec.i++
	*ptr = s
	return true
}

func (dec *tokenDecoder) ExpectAtom(ptr *string) bool {
	return dec.Expect(dec.Atom(ptr), "atom")
}

func (dec *tokenDecoder) Nil() bool {
	tok, ok := dec.next()
	if !ok || !tok.IsNil() {
		return false
	}
	dec.i++
	return true
}

func (dec *tokenDecoder) ExpectNil() bool {
	return dec.Expect(dec.Nil(), "NIL")
}

func (dec *tokenDecoder) Number(ptr *uint32) bool {
	tok, ok := dec.next()
	if !ok {
		return false
	}
	n, ok := tok.Number()
	if !ok {
		return false
	}
	dec.i++
	*ptr = n
	return true
}

func (dec *tokenDecoder) ExpectNumber(ptr *uint32) bool {
	return dec.Expect(dec.Number(ptr), "number")
}

func (dec *tokenDecoder) ExpectNumber64(ptr *int64) bool {
	tok, ok := dec.next()
	if ok {
		var n int64
		if n, ok = tok.Number64(); ok {
			dec.i++
			*ptr = n
		}
	}
	return dec.Expect(ok, "number64")
}

func (dec *tokenDecoder) ExpectModSeq(ptr *uint64) bool {
	tok, ok := dec.next()
	if ok {
		var n uint64
		if n, ok = tok.ModSeq(); ok {
			dec.i++
			*ptr = n
		}
	}
	return dec.Expect(ok, "mod-sequence")
}

// String reads an astring.
func (dec *tokenDecoder) String(ptr *string) bool {
	tok, ok := dec.next()
	if !ok {
		return false
	}
	s, ok := tok.Str()
	if !ok {
		return false
	}
	dec.i++
	*ptr = s
	return true
}

func (dec *tokenDecoder) ExpectString(ptr *string) bool {
	return dec.Expect(dec.String(ptr), "string")
}

// ExpectNString reads an nstring. NIL is stored as an empty string.
func (dec *tokenDecoder) ExpectNString(ptr *string) bool {
	if dec.Nil() {
		*ptr = ""
		return true
	}
	return dec.Expect(dec.String(ptr), "nstring")
}

// ExpectNStringPtr reads an nstring. NIL is stored as nil.
func (dec *tokenDecoder) ExpectNStringPtr(ptr **string) bool {
	if dec.Nil() {
		*ptr = nil
		return true
	}
	var s string
	if !dec.Expect(dec.String(&s), "nstring") {
		return false
	}
	*ptr = &s
	return true
}

// ExpectMailbox reads a mailbox name. The name is kept byte-exact: it isn't
// decoded from modified UTF-7.
func (dec *tokenDecoder) ExpectMailbox(ptr *string) bool {
	return dec.Expect(dec.String(ptr), "mailbox")
}

// List reads a parenthesized list and returns a decoder for its items.
func (dec *tokenDecoder) List(name string) (*tokenDecoder, bool) {
	tok, ok := dec.next()
	if !ok || !tok.IsList() {
		return nil, false
	}
	dec.i++
	return &tokenDecoder{name: name, tokens: tok.List}, true
}

func (dec *tokenDecoder) ExpectList(name string) (*tokenDecoder, bool) {
	list, ok := dec.List(name)
	return list, dec.Expect(ok, "list")
}

// ExpectNList reads a parenthesized list or NIL. For NIL, the returned
// decoder is nil.
func (dec *tokenDecoder) ExpectNList(name string) (*tokenDecoder, bool) {
	if dec.Nil() {
		return nil, true
	}
	list, ok := dec.List(name)
	return list, dec.Expect(ok, "list or NIL")
}

// ExpectEnd checks that all tokens have been consumed.
func (dec *tokenDecoder) ExpectEnd() bool {
	if dec.err != nil {
		return false
	}
	if dec.i < len(dec.tokens) {
		return dec.errorf("unexpected %v", dec.tokens[dec.i])
	}
	return true
}

// ExpectChild checks the error of a decoder returned by List.
func (dec *tokenDecoder) ExpectChild(child *tokenDecoder) bool {
	if child == nil {
		return true
	}
	return dec.returnErr(child.err)
}

// Skip discards the next token.
func (dec *tokenDecoder) Skip() bool {
	var tok imapwire.Token
	return dec.Token(&tok)
}

func readCapabilities(tokens []imapwire.Token) (imap.CapSet, error) {
	dec := newTokenDecoder("capability-data", tokens)
	caps := make(imap.CapSet, len(tokens))
	for dec.More() {
		var name string
		if !dec.ExpectAtom(&name) {
			return nil, dec.Err()
		}
		caps.Add(imap.Cap(name))
	}
	return caps, nil
}

func readFlagList(tok imapwire.Token) ([]imap.Flag, error) {
	if !tok.IsList() {
		return nil, malformedTokens([]imapwire.Token{tok}, "expected a flag list")
	}
	flags := make([]imap.Flag, 0, len(tok.List))
	for _, item := range tok.List {
		name, ok := item.Atom()
		if !ok {
			return nil, malformedTokens(tok.List, fmt.Sprintf("in flag-list: invalid flag %v", item))
		}
		flags = append(flags, imap.CanonicalFlag(name))
	}
	return flags, nil
}

func readUIDSet(tok imapwire.Token) (imap.UIDSet, error) {
	s, ok := tok.Atom()
	if !ok {
		return nil, fmt.Errorf("expected an UID set, got %v", tok)
	}
	set, err := imap.ParseUIDSet(s)
	if err != nil {
		return nil, err
	}
	if set.Dynamic() {
		return nil, fmt.Errorf("unexpected '*' in UID set %q", s)
	}
	return set, nil
}

func readSeqSet(tok imapwire.Token) (imap.SeqSet, error) {
	s, ok := tok.Atom()
	if !ok {
		return nil, fmt.Errorf("expected a sequence set, got %v", tok)
	}
	return imap.ParseSeqSet(s)
}
