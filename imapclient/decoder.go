package imapclient

import (
	"strings"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ErrNeedMore is returned by Decoder.Next when more data is needed.
var ErrNeedMore = imapwire.ErrNeedMore

// DecoderOptions contains options for Decoder.
type DecoderOptions struct {
	// MaxLiteralSize is the maximum size of a literal sent by the server.
	// Zero means no limit.
	MaxLiteralSize int64
}

// Decoder assembles server responses from received bytes.
//
// Bytes are handed over with Feed as they are received, in chunks of any
// size. Next returns complete responses. A response carrying literals is only
// returned once all of its literals and the rest of its line have been
// received.
//
// The decoder has no notion of the command in progress: correlating
// responses with commands is up to the caller, see Client.
type Decoder struct {
	p *imapwire.Parser
}

// NewDecoder creates a new decoder.
//
// A nil options pointer is equivalent to a zero options value.
func NewDecoder(options *DecoderOptions) *Decoder {
	p := imapwire.NewParser()
	p.TextMode = isResponseText
	if options != nil {
		p.MaxLiteralSize = options.MaxLiteralSize
	}
	return &Decoder{p: p}
}

// isResponseText selects the lines ending with resp-text: continuation
// requests and status responses.
func isResponseText(top []imapwire.Token) bool {
	switch len(top) {
	case 1:
		return top[0].IsAtom("+")
	case 2:
		name, ok := top[1].Atom()
		if !ok || top[0].IsAtom("+") {
			return false
		}
		_, ok = imap.ParseStatusResponseType(name)
		return ok
	default:
		return false
	}
}

// Feed appends received bytes.
func (dec *Decoder) Feed(b []byte) {
	dec.p.Feed(b)
}

// Write implements io.Writer. It never fails.
func (dec *Decoder) Write(b []byte) (int, error) {
	return dec.p.Write(b)
}

// Needed returns the number of bytes known to be missing to complete a
// literal. Zero means that at least one more line is needed.
func (dec *Decoder) Needed() int {
	return dec.p.Needed()
}

// Buffered returns the number of received bytes which haven't been consumed
// yet.
func (dec *Decoder) Buffered() int {
	return dec.p.Buffered()
}

// Next returns the next response.
//
// ErrNeedMore is returned if the received bytes don't hold a complete
// response. An *imap.MalformedError is returned if the response doesn't
// follow the IMAP grammar: the offending line is dropped and the next call
// continues with the following line.
func (dec *Decoder) Next() (Response, error) {
	line, err := dec.p.Next()
	if err != nil {
		return nil, err
	}
	return readResponse(line)
}

func malformedLine(line *imapwire.Line, msg string) error {
	raw := imapwire.FormatTokens(line.Tokens)
	if line.HasText {
		if line.HasCode {
			raw += " [" + imapwire.FormatTokens(line.Code) + "]"
		}
		raw += " " + line.Text
	}
	if len(raw) > maxRawLen {
		raw = raw[:maxRawLen]
	}
	return &imap.MalformedError{Raw: raw, Msg: msg}
}

func readResponse(line *imapwire.Line) (Response, error) {
	tokens := line.Tokens
	tag, ok := tokens[0].Atom()
	if !ok {
		return nil, malformedLine(line, "expected '*', '+' or tag")
	}

	switch tag {
	case "+":
		return &ContinuationResponse{ResponseText: newResponseText(line)}, nil
	case "*":
		if len(tokens) < 2 {
			return nil, malformedLine(line, "expected response type")
		}
		if line.HasText {
			status, _ := imap.ParseStatusResponseType(string(tokens[1].Data))
			return &UntaggedStatusResponse{Status: status, ResponseText: newResponseText(line)}, nil
		}
		return readDataResponse(line)
	}

	if !isValidTag(tag) || len(tokens) < 2 || !line.HasText {
		return nil, malformedLine(line, "invalid tagged response")
	}
	status, _ := imap.ParseStatusResponseType(string(tokens[1].Data))
	switch status {
	case imap.StatusResponseTypeOK, imap.StatusResponseTypeNo, imap.StatusResponseTypeBad:
		// ok
	default:
		return nil, malformedLine(line, "expected OK, NO or BAD in tagged response")
	}
	return &TaggedResponse{Tag: tag, Status: status, ResponseText: newResponseText(line)}, nil
}

func readDataResponse(line *imapwire.Line) (*DataResponse, error) {
	tokens := line.Tokens[1:]
	var resp DataResponse
	if num, ok := tokens[0].Number(); ok {
		resp.Num = num
		resp.HasNum = true
		tokens = tokens[1:]
		if len(tokens) == 0 {
			return nil, malformedLine(line, "expected response type after number")
		}
	}
	typ, ok := tokens[0].Atom()
	if !ok {
		return nil, malformedLine(line, "expected response type")
	}
	resp.Type = strings.ToUpper(typ)
	resp.Args = tokens[1:]
	return &resp, nil
}

func isValidTag(tag string) bool {
	for i := 0; i < len(tag); i++ {
		if ch := tag[i]; ch == '+' || !imapwire.IsAtomChar(ch) {
			return false
		}
	}
	return tag != ""
}
