package imapwire

import (
	"bytes"
	"strconv"
	"strings"
)

// TokenKind is the kind of a Token.
type TokenKind int

const (
	TokenNil TokenKind = iota + 1
	TokenAtom
	TokenQuoted
	TokenLiteral
	TokenList
)

func (kind TokenKind) String() string {
	switch kind {
	case TokenNil:
		return "NIL"
	case TokenAtom:
		return "atom"
	case TokenQuoted:
		return "quoted string"
	case TokenLiteral:
		return "literal"
	case TokenList:
		return "list"
	default:
		return "token(" + strconv.Itoa(int(kind)) + ")"
	}
}

// Token is a primitive IMAP data item: NIL, an atom, a quoted string, a
// literal or a parenthesized list.
//
// Atoms, quoted strings and literals are text tokens, their content is held
// in Data. The content of a quoted string is unescaped.
type Token struct {
	Kind TokenKind
	Data []byte
	List []Token

	// Literal flags
	Binary  bool // "~{n}" (RFC 3516)
	NonSync bool // "{n+}" (RFC 7888)
}

// Nil is the NIL token.
var Nil = Token{Kind: TokenNil}

// NewAtom creates an atom token.
func NewAtom(s string) Token {
	return Token{Kind: TokenAtom, Data: []byte(s)}
}

// NewQuoted creates a quoted string token.
func NewQuoted(s string) Token {
	return Token{Kind: TokenQuoted, Data: []byte(s)}
}

// NewLiteral creates a literal token.
func NewLiteral(b []byte) Token {
	return Token{Kind: TokenLiteral, Data: b}
}

// NewList creates a list token.
func NewList(tokens ...Token) Token {
	if tokens == nil {
		tokens = []Token{}
	}
	return Token{Kind: TokenList, List: tokens}
}

// IsNil returns true for the NIL token.
func (tok Token) IsNil() bool {
	return tok.Kind == TokenNil
}

// IsText returns true for atoms, quoted strings and literals.
func (tok Token) IsText() bool {
	switch tok.Kind {
	case TokenAtom, TokenQuoted, TokenLiteral:
		return true
	default:
		return false
	}
}

// IsList returns true for parenthesized lists.
func (tok Token) IsList() bool {
	return tok.Kind == TokenList
}

// IsAtom returns true if the token is an atom. If name is non-empty, the atom
// must also be equal to name, ignoring case.
func (tok Token) IsAtom(name string) bool {
	if tok.Kind != TokenAtom {
		return false
	}
	return name == "" || strings.EqualFold(string(tok.Data), name)
}

// Atom returns the value of an atom token.
func (tok Token) Atom() (string, bool) {
	if tok.Kind != TokenAtom {
		return "", false
	}
	return string(tok.Data), true
}

// Str returns the value of a text token (astring).
func (tok Token) Str() (string, bool) {
	if !tok.IsText() {
		return "", false
	}
	return string(tok.Data), true
}

// NStr returns the value of a text token or NIL (nstring). For NIL, ok is
// true and isNil is true.
func (tok Token) NStr() (s string, isNil, ok bool) {
	if tok.Kind == TokenNil {
		return "", true, true
	}
	s, ok = tok.Str()
	return s, false, ok
}

// Number parses an atom as a 32-bit unsigned number.
func (tok Token) Number() (uint32, bool) {
	if tok.Kind != TokenAtom || !isDigits(tok.Data) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(tok.Data), 10, 32)
	return uint32(v), err == nil
}

// Number64 parses an atom as a 63-bit unsigned number.
func (tok Token) Number64() (int64, bool) {
	if tok.Kind != TokenAtom || !isDigits(tok.Data) {
		return 0, false
	}
	v, err := strconv.ParseInt(string(tok.Data), 10, 64)
	return v, err == nil
}

// ModSeq parses an atom as a mod-sequence value (RFC 7162).
func (tok Token) ModSeq() (uint64, bool) {
	if tok.Kind != TokenAtom || !isDigits(tok.Data) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(tok.Data), 10, 64)
	return v, err == nil
}

func isDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// String formats the token in a form close to the wire representation. It is
// meant for diagnostics: literals are abbreviated.
func (tok Token) String() string {
	var sb strings.Builder
	tok.format(&sb)
	return sb.String()
}

func (tok Token) format(sb *strings.Builder) {
	switch tok.Kind {
	case TokenNil:
		sb.WriteString("NIL")
	case TokenAtom:
		sb.Write(tok.Data)
	case TokenQuoted:
		sb.WriteByte('"')
		for _, ch := range tok.Data {
			if ch == '"' || ch == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteByte(ch)
		}
		sb.WriteByte('"')
	case TokenLiteral:
		if tok.Binary {
			sb.WriteByte('~')
		}
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(len(tok.Data)))
		if tok.NonSync {
			sb.WriteByte('+')
		}
		sb.WriteByte('}')
	case TokenList:
		sb.WriteByte('(')
		for i, item := range tok.List {
			if i > 0 {
				sb.WriteByte(' ')
			}
			item.format(sb)
		}
		sb.WriteByte(')')
	}
}

// Equal reports whether two tokens have the same kind and content.
func (tok Token) Equal(other Token) bool {
	if tok.Kind != other.Kind {
		return false
	}
	if tok.Kind != TokenList {
		return bytes.Equal(tok.Data, other.Data)
	}
	if len(tok.List) != len(other.List) {
		return false
	}
	for i := range tok.List {
		if !tok.List[i].Equal(other.List[i]) {
			return false
		}
	}
	return true
}

// FormatTokens formats a token sequence separated by spaces, for diagnostics.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		tok.format(&sb)
	}
	return sb.String()
}
