package imapwire

import (
	"bytes"
	"strconv"

	"github.com/emersion/go-imap-engine"
)

// Line is a logical response line: one physical line plus the literals it
// announces and the physical lines following those literals.
type Line struct {
	// Tokens holds the top-level tokens. In response-text mode, it holds the
	// tokens scanned before the response text.
	Tokens []Token

	// HasText is true if the line was scanned in response-text mode.
	HasText bool
	// HasCode is true if the response text starts with a bracketed response
	// code. Code holds the code name atom followed by its arguments.
	HasCode bool
	Code    []Token
	// Text is the human-readable response text.
	Text string
}

type textState int

const (
	textNone textState = iota
	textStart
	textCode
)

type sepState int

const (
	sepStart sepState = iota // after line start, '(' or '['
	sepSpace
	sepToken
	sepList // after ')': a '(' may follow directly
)

type frame struct {
	tokens []Token
	code   bool
}

type pendingLiteral struct {
	size    int
	binary  bool
	nonSync bool
}

// maxRawLen is the maximum length of the raw text attached to errors.
const maxRawLen = 256

// Parser is a resumable IMAP response parser.
//
// Received bytes are handed over with Feed in chunks of any size. Next returns
// complete logical lines, or ErrNeedMore if the buffered bytes don't hold a
// complete line yet. Tokens are scanned once: a physical line is only scanned
// when its CRLF has been received, and a literal payload is only consumed when
// all of its bytes have been received.
//
// A Parser must not be used concurrently.
type Parser struct {
	// TextMode is called each time a top-level token is scanned. If it returns
	// true, the rest of the line is response text: an optional bracketed
	// response code followed by free-form text, which may contain unbalanced
	// quotes or parentheses.
	TextMode func(top []Token) bool
	// MaxLiteralSize is the maximum size of a literal. Larger literals are
	// rejected before their payload is buffered. Zero means no limit.
	MaxLiteralSize int64

	buf      []byte
	pos      int // start of the unconsumed bytes
	searched int // bytes after pos known not to contain CRLF
	discard  int  // bytes of a rejected literal yet to be dropped
	skipLine bool // drop the rest of the line after a rejected literal

	stack     []frame
	line      Line
	text      textState
	sep       sepState
	literal   *pendingLiteral
	codeStart int
}

// NewParser creates a new parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends received bytes to the parser's buffer.
func (p *Parser) Feed(b []byte) {
	p.buf = append(p.buf, b...)
}

// Write implements io.Writer by calling Feed. It never fails.
func (p *Parser) Write(b []byte) (int, error) {
	p.Feed(b)
	return len(b), nil
}

// Needed returns the number of bytes known to be missing to make progress:
// the remainder of a literal payload. It returns 0 if another CRLF-terminated
// physical line is needed, or if the buffer already holds enough bytes.
func (p *Parser) Needed() int {
	if p.discard > 0 {
		if n := p.discard - (len(p.buf) - p.pos); n > 0 {
			return n
		}
		return 0
	}
	if p.literal == nil {
		return 0
	}
	if n := p.literal.size - (len(p.buf) - p.pos); n > 0 {
		return n
	}
	return 0
}

// Buffered returns the number of received bytes not consumed yet.
func (p *Parser) Buffered() int {
	return len(p.buf) - p.pos
}

// Next returns the next complete logical line.
//
// If the buffer doesn't hold a complete line, ErrNeedMore is returned: the
// caller should Feed more bytes and call Next again. If the line is malformed,
// an *imap.MalformedError is returned and the line is discarded.
func (p *Parser) Next() (*Line, error) {
	for {
		// The rest of a rejected logical line is dropped, including the
		// payload of every literal it announces.
		for p.discard > 0 || p.skipLine {
			if p.discard > 0 {
				n := len(p.buf) - p.pos
				if n > p.discard {
					n = p.discard
				}
				p.pos += n
				p.discard -= n
				p.compact()
				if p.discard > 0 {
					return nil, ErrNeedMore
				}
			}
			if p.skipLine {
				i := bytes.Index(p.buf[p.pos:], []byte("\r\n"))
				if i < 0 {
					return nil, ErrNeedMore
				}
				seg := p.buf[p.pos : p.pos+i]
				p.pos += i + 2
				p.skipLine = false
				p.skipLiteral(seg)
				p.compact()
			}
		}

		if p.literal != nil {
			lit := p.literal
			if len(p.buf)-p.pos < lit.size {
				return nil, ErrNeedMore
			}
			data := make([]byte, lit.size)
			copy(data, p.buf[p.pos:])
			p.pos += lit.size
			p.literal = nil
			p.appendToken(Token{
				Kind:    TokenLiteral,
				Data:    data,
				Binary:  lit.binary,
				NonSync: lit.nonSync,
			})
			p.sep = sepToken
		}

		i := bytes.Index(p.buf[p.pos+p.searched:], []byte("\r\n"))
		if i < 0 {
			if n := len(p.buf) - p.pos - 1; n > 0 {
				p.searched = n
			}
			return nil, ErrNeedMore
		}
		end := p.pos + p.searched + i
		seg := p.buf[p.pos:end]
		p.pos = end + 2
		p.searched = 0

		done, err := p.scan(seg)
		if err != nil {
			if p.discard == 0 && !p.skipLine {
				p.skipLiteral(seg)
			}
			p.resetLine()
			p.compact()
			return nil, err
		}
		if done {
			line := p.line
			line.Tokens = p.stack[0].tokens
			p.resetLine()
			p.compact()
			return &line, nil
		}
	}
}

// Reset discards all buffered bytes and the partially parsed line.
func (p *Parser) Reset() {
	p.buf = p.buf[:0]
	p.pos = 0
	p.searched = 0
	p.discard = 0
	p.skipLine = false
	p.resetLine()
}

// skipLiteral checks whether a dropped physical line ends with a literal
// header. If so, the literal payload and the rest of the logical line are
// dropped as well.
func (p *Parser) skipLiteral(seg []byte) {
	if size, ok := trailingLiteralSize(seg); ok {
		p.discard = size
		p.skipLine = true
	}
}

// trailingLiteralSize returns the size announced by a literal header
// ("{n}", "{n+}", "~{n}" or "~{n+}") ending seg.
func trailingLiteralSize(seg []byte) (int, bool) {
	if len(seg) == 0 || seg[len(seg)-1] != '}' {
		return 0, false
	}
	open := bytes.LastIndexByte(seg, '{')
	if open < 0 {
		return 0, false
	}
	digits := seg[open+1 : len(seg)-1]
	if len(digits) > 0 && digits[len(digits)-1] == '+' {
		digits = digits[:len(digits)-1]
	}
	if len(digits) == 0 {
		return 0, false
	}
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return 0, false
		}
	}
	size, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil || int64(int(size)) != size {
		return 0, false
	}
	return int(size), true
}

func (p *Parser) resetLine() {
	p.stack = p.stack[:0]
	p.line = Line{}
	p.text = textNone
	p.sep = sepStart
	p.literal = nil
}

func (p *Parser) compact() {
	if p.pos == 0 {
		return
	}
	n := copy(p.buf, p.buf[p.pos:])
	p.buf = p.buf[:n]
	p.pos = 0
}

func (p *Parser) top() *frame {
	return &p.stack[len(p.stack)-1]
}

func (p *Parser) inCode() bool {
	for i := range p.stack {
		if p.stack[i].code {
			return true
		}
	}
	return false
}

func (p *Parser) appendToken(tok Token) {
	f := p.top()
	f.tokens = append(f.tokens, tok)
	if len(p.stack) == 1 && p.text == textNone && p.TextMode != nil && p.TextMode(f.tokens) {
		p.text = textStart
		p.line.HasText = true
	}
}

func malformed(seg []byte, msg string) error {
	raw := seg
	if len(raw) > maxRawLen {
		raw = raw[:maxRawLen]
	}
	return &imap.MalformedError{Raw: string(raw), Msg: msg}
}

// scan scans a physical line, without its CRLF. It returns true if the
// logical line is complete, false if a literal payload follows.
func (p *Parser) scan(seg []byte) (done bool, err error) {
	if len(p.stack) == 0 {
		if len(seg) == 0 {
			return false, malformed(seg, "empty line")
		}
		p.stack = append(p.stack, frame{})
	}

	i := 0
	for i < len(seg) {
		if p.text == textStart {
			if seg[i] == ' ' {
				i++
			}
			if i < len(seg) && seg[i] == '[' {
				i++
				p.stack = append(p.stack, frame{code: true})
				p.codeStart = i
				p.text = textCode
				p.sep = sepStart
				continue
			}
			p.line.Text = string(seg[i:])
			return true, nil
		}

		i, err = p.scanToken(seg, i)
		if err != nil && p.text == textCode {
			i, err = p.rawCode(seg, err)
		}
		if err != nil {
			return false, err
		}
		if p.literal != nil {
			return false, nil
		}
		if p.line.HasCode {
			if i < len(seg) && seg[i] == ' ' {
				i++
			}
			p.line.Text = string(seg[i:])
			return true, nil
		}
	}

	switch {
	case p.text == textCode:
		return false, malformed(seg, "unterminated response code")
	case len(p.stack) > 1:
		return false, malformed(seg, "unbalanced parentheses")
	}
	return true, nil
}

func (p *Parser) expectTokenStart(seg []byte, allowAfterList bool) error {
	switch p.sep {
	case sepStart, sepSpace:
		return nil
	case sepList:
		if allowAfterList {
			return nil
		}
	}
	return malformed(seg, "missing SP between tokens")
}

// scanToken scans a token or a separator starting at seg[i].
func (p *Parser) scanToken(seg []byte, i int) (int, error) {
	ch := seg[i]
	switch {
	case ch == ' ':
		// A trailing SP at the end of the line is tolerated, some servers
		// send one after SEARCH
		if p.sep == sepToken || p.sep == sepList {
			p.sep = sepSpace
			return i + 1, nil
		}
		return 0, malformed(seg, "unexpected SP")
	case ch == '(':
		if err := p.expectTokenStart(seg, true); err != nil {
			return 0, err
		}
		p.stack = append(p.stack, frame{})
		p.sep = sepStart
		return i + 1, nil
	case ch == ')':
		if len(p.stack) <= 1 || p.top().code {
			return 0, malformed(seg, "unbalanced parentheses")
		}
		if p.sep == sepSpace {
			return 0, malformed(seg, "unexpected SP before ')'")
		}
		f := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		p.appendToken(NewList(f.tokens...))
		p.sep = sepList
		return i + 1, nil
	case ch == ']' && p.top().code:
		if p.sep == sepSpace || len(p.top().tokens) == 0 {
			return 0, malformed(seg, "invalid response code")
		}
		f := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		p.line.HasCode = true
		p.line.Code = f.tokens
		return i + 1, nil
	case ch == '"':
		if err := p.expectTokenStart(seg, false); err != nil {
			return 0, err
		}
		return p.scanQuoted(seg, i)
	case ch == '{' || (ch == '~' && i+1 < len(seg) && seg[i+1] == '{'):
		if err := p.expectTokenStart(seg, false); err != nil {
			return 0, err
		}
		return p.scanLiteralHeader(seg, i)
	default:
		if err := p.expectTokenStart(seg, false); err != nil {
			return 0, err
		}
		return p.scanAtom(seg, i)
	}
}

func (p *Parser) scanAtom(seg []byte, i int) (int, error) {
	start := i
	inCode := p.inCode()
	depth := 0
loop:
	for ; i < len(seg); i++ {
		ch := seg[i]
		if depth > 0 {
			switch ch {
			case '[':
				depth++
			case ']':
				depth--
			}
			continue
		}
		switch ch {
		case ' ', '(', ')', '{', '\r', '\n':
			break loop
		case '[':
			depth++
		case ']':
			if inCode {
				break loop
			}
		}
	}
	if depth > 0 {
		return 0, malformed(seg, "unterminated '[' in atom")
	}

	atom := seg[start:i]
	if len(atom) == 0 {
		return 0, malformed(seg, "expected atom")
	}
	if len(atom) == 3 && bytes.EqualFold(atom, []byte("NIL")) {
		p.appendToken(Nil)
	} else {
		p.appendToken(Token{Kind: TokenAtom, Data: append([]byte(nil), atom...)})
	}
	p.sep = sepToken
	return i, nil
}

func (p *Parser) scanQuoted(seg []byte, i int) (int, error) {
	i++ // opening quote
	data := []byte{}
	for {
		if i >= len(seg) {
			return 0, malformed(seg, "unterminated quoted string")
		}
		ch := seg[i]
		switch {
		case ch == '"':
			p.appendToken(Token{Kind: TokenQuoted, Data: data})
			p.sep = sepToken
			return i + 1, nil
		case ch == '\\':
			if i+1 >= len(seg) {
				return 0, malformed(seg, "unterminated quoted string")
			}
			next := seg[i+1]
			if next != '"' && next != '\\' {
				return 0, malformed(seg, "invalid escape in quoted string")
			}
			data = append(data, next)
			i += 2
		case ch < 0x20 || ch == 0x7F:
			return 0, malformed(seg, "control character in quoted string")
		default:
			data = append(data, ch)
			i++
		}
	}
}

func (p *Parser) scanLiteralHeader(seg []byte, i int) (int, error) {
	var lit pendingLiteral
	if seg[i] == '~' {
		lit.binary = true
		i++
	}
	i++ // '{'

	start := i
	for i < len(seg) && seg[i] >= '0' && seg[i] <= '9' {
		i++
	}
	digits := seg[start:i]
	if i < len(seg) && seg[i] == '+' {
		lit.nonSync = true
		i++
	}
	if len(digits) == 0 || i >= len(seg) || seg[i] != '}' {
		return 0, malformed(seg, "invalid literal header")
	}
	i++
	if i != len(seg) {
		return 0, malformed(seg, "literal header must end the line")
	}
	if p.inCode() {
		return 0, malformed(seg, "literal in response code")
	}

	size, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil || int64(int(size)) != size {
		return 0, malformed(seg, "invalid literal length")
	}
	if p.MaxLiteralSize > 0 && size > p.MaxLiteralSize {
		p.discard = int(size)
		p.skipLine = true
		return 0, malformed(seg, "literal too large")
	}
	lit.size = int(size)
	p.literal = &lit
	return i, nil
}

// rawCode recovers from a response code whose arguments don't follow the
// token grammar: response code arguments are free-form text up to "]". The
// code name is kept as an atom, the arguments as a single atom.
func (p *Parser) rawCode(seg []byte, scanErr error) (int, error) {
	if p.codeStart > len(seg) {
		return 0, scanErr
	}
	end := bytes.IndexByte(seg[p.codeStart:], ']')
	if end < 0 {
		return 0, scanErr
	}
	end += p.codeStart
	raw := seg[p.codeStart:end]

	name, args := raw, []byte(nil)
	if sp := bytes.IndexByte(raw, ' '); sp >= 0 {
		name, args = raw[:sp], raw[sp+1:]
	}
	if len(name) == 0 || !isASCIIAtom(string(name)) {
		return 0, scanErr
	}

	code := []Token{NewAtom(string(name))}
	if len(args) > 0 {
		code = append(code, NewAtom(string(args)))
	}
	for len(p.stack) > 0 && !p.top().code {
		p.stack = p.stack[:len(p.stack)-1]
	}
	p.stack = p.stack[:len(p.stack)-1]
	p.line.HasCode = true
	p.line.Code = code
	return end + 1, nil
}
