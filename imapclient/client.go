// Package imapclient implements the client side of the IMAP protocol.
//
// The package is split in two layers. Decoder, ResponseText and the Read*
// functions turn received bytes into typed data, without any I/O. Client is a
// small lock-step driver on top of a connection: it sends one command at a
// time and collects the responses until the command completes.
package imapclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// readBufferSize is the size of the chunks read from the connection.
const readBufferSize = 4096

// Logger is a destination for diagnostic messages.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Options contains options for Client.
type Options struct {
	// Raw ingress and egress data will be written to this writer, if any
	DebugWriter io.Writer
	// Logger receives unexpected conditions: malformed responses, tagged
	// responses for unknown tags and unsolicited continuation requests. If
	// nil, log.Default is used.
	Logger Logger
	// MaxLiteralSize is the maximum size of a literal sent by the server.
	// Zero means no limit.
	MaxLiteralSize int64
	// TLSConfig is used by DialTLS and StartTLS.
	TLSConfig *tls.Config
}

func (options *Options) wrapReadWriter(rw io.ReadWriter) (io.Reader, io.Writer) {
	if options.DebugWriter == nil {
		return rw, rw
	}
	return io.TeeReader(rw, options.DebugWriter), io.MultiWriter(rw, options.DebugWriter)
}

func (options *Options) logger() Logger {
	if options.Logger == nil {
		return log.Default()
	}
	return options.Logger
}

// Client is an IMAP client.
//
// Commands are executed one at a time: Execute blocks until the server has
// sent the tagged response. Untagged responses received in the meantime are
// returned to the caller, they can be decoded with Convert or the Read*
// functions.
type Client struct {
	options Options

	mutex sync.Mutex
	conn  net.Conn
	r     io.Reader
	w     io.Writer
	dec   *Decoder
	buf   []byte

	tag  uint64
	caps imap.CapSet
}

// New creates a new IMAP client.
//
// This function doesn't perform I/O. The server greeting can be read with
// Greeting.
//
// A nil options pointer is equivalent to a zero options value.
func New(conn net.Conn, options *Options) *Client {
	if options == nil {
		options = &Options{}
	}

	c := &Client{
		options: *options,
		dec:     NewDecoder(&DecoderOptions{MaxLiteralSize: options.MaxLiteralSize}),
		buf:     make([]byte, readBufferSize),
	}
	c.setConn(conn)
	return c
}

func (c *Client) setConn(conn net.Conn) {
	c.conn = conn
	c.r, c.w = c.options.wrapReadWriter(conn)
}

// Dial connects to an IMAP server without encryption. STARTTLS should be used
// before authenticating.
func Dial(address string, options *Options) (*Client, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return New(conn, options), nil
}

// DialTLS connects to an IMAP server with implicit TLS.
func DialTLS(address string, options *Options) (*Client, error) {
	var tlsConfig *tls.Config
	if options != nil {
		tlsConfig = options.TLSConfig
	}
	conn, err := tls.Dial("tcp", address, tlsConfig)
	if err != nil {
		return nil, err
	}
	return New(conn, options), nil
}

// Close immediately closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Caps returns the capabilities advertised by the server so far, via
// CAPABILITY responses or CAPABILITY response codes. It returns nil if the
// server hasn't advertised any.
func (c *Client) Caps() imap.CapSet {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.caps
}

// Greeting reads the server greeting: an untagged OK, PREAUTH or BYE
// response. A BYE greeting is returned along with an *imap.Error.
func (c *Client) Greeting() (*UntaggedStatusResponse, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	resp, err := c.readResponse()
	if err != nil {
		return nil, err
	}
	status, ok := resp.(*UntaggedStatusResponse)
	if !ok {
		return nil, fmt.Errorf("imapclient: expected a greeting, got %T", resp)
	}
	switch status.Status {
	case imap.StatusResponseTypeOK, imap.StatusResponseTypePreAuth:
		return status, nil
	case imap.StatusResponseTypeBye:
		return status, &imap.Error{Type: status.Status, Code: status.Code, Text: status.Text}
	default:
		return nil, fmt.Errorf("imapclient: unexpected greeting status %v", status.Status)
	}
}

// ReadResponse reads the next response sent by the server.
//
// An *imap.MalformedError is returned if the server sent an invalid response.
// The response is dropped, the next call proceeds with the next one.
func (c *Client) ReadResponse() (Response, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.readResponse()
}

func (c *Client) readResponse() (Response, error) {
	for {
		resp, err := c.dec.Next()
		if err == nil {
			c.handleResponse(resp)
			return resp, nil
		} else if err != ErrNeedMore {
			return nil, err
		}

		buf := c.buf
		if needed := c.dec.Needed(); needed > len(buf) {
			// Large literal: read it in one go
			buf = make([]byte, needed)
		}
		n, err := c.r.Read(buf)
		c.dec.Feed(buf[:n])
		if err != nil {
			if n > 0 && errors.Is(err, io.EOF) {
				continue
			}
			return nil, &imap.ConnError{Op: "read", Err: err}
		}
	}
}

// handleResponse records the server state carried by responses.
func (c *Client) handleResponse(resp Response) {
	if rt := responseText(resp); rt != nil && rt.CodeErr() != nil {
		c.options.logger().Printf("imapclient: ignoring response code: %v", rt.CodeErr())
	}

	switch resp := resp.(type) {
	case *DataResponse:
		if resp.Type == "CAPABILITY" {
			if caps, err := ReadCapability(resp); err == nil {
				c.caps = caps
			}
		}
	case *UntaggedStatusResponse:
		if caps, ok := resp.Capabilities(); ok {
			c.caps = caps
		}
	case *TaggedResponse:
		if caps, ok := resp.Capabilities(); ok {
			c.caps = caps
		}
	}
}

func (c *Client) nextTag() string {
	c.tag++
	return fmt.Sprintf("T%v", c.tag)
}

func (c *Client) encoderOptions() *imapwire.EncoderOptions {
	return &imapwire.EncoderOptions{
		QuotedUTF8:   c.caps.Has(imap.CapIMAP4rev2) || c.caps.Has(imap.CapUTF8Accept),
		LiteralMinus: c.caps.Has(imap.CapLiteralMinus),
		LiteralPlus:  c.caps.Has(imap.CapLiteralPlus),
	}
}

// Execute sends a command and waits for its tagged response.
//
// If cmd.Tag is empty, a tag is generated. Synchronizing literals are sent
// once the server has sent a continuation request. If the server rejects a
// literal, the tagged response is returned and the rest of the command is not
// sent.
//
// The untagged responses received before the tagged response are returned.
// If the command completes with NO or BAD, the tagged response is returned
// along with an *imap.Error. I/O errors are returned as *imap.ConnError.
func (c *Client) Execute(cmd *imapwire.Command) ([]Response, *TaggedResponse, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var untagged []Response
	tag, tagged, err := c.send(cmd, &untagged)
	if err != nil || tagged != nil {
		return untagged, tagged, err
	}
	tagged, err = c.waitTagged(tag, &untagged, nil)
	return untagged, tagged, err
}

// send writes a command, waiting for continuation requests before each
// synchronizing literal. A non-nil tagged response is returned if the server
// completed the command before the whole command was sent.
func (c *Client) send(cmd *imapwire.Command, untagged *[]Response) (tag string, tagged *TaggedResponse, err error) {
	if cmd.Name == "" {
		return "", nil, &imap.ArgumentError{Name: "command name", Err: fmt.Errorf("empty")}
	}
	if cmd.Tag == "" {
		cp := *cmd
		cp.Tag = c.nextTag()
		cmd = &cp
	}

	enc, err := imapwire.NewCommandEncoder(cmd, c.encoderOptions())
	if err != nil {
		return "", nil, err
	}

	for {
		err := enc.Encode(c.w)
		if err == nil || err == imapwire.ErrWaitContinuation {
			if flushErr := c.flush(); flushErr != nil {
				return "", nil, flushErr
			}
		}
		if err == nil {
			return cmd.Tag, nil, nil
		} else if err != imapwire.ErrWaitContinuation {
			return "", nil, &imap.ConnError{Op: "write", Err: err}
		}

		tagged, err := c.waitContinuation(cmd.Tag, untagged)
		if err != nil || tagged != nil {
			return cmd.Tag, tagged, err
		}
	}
}

// sendContinuation writes continuation data: a line sent in reply to a
// continuation request, e.g. a SASL response.
func (c *Client) sendContinuation(arg imapwire.Arg) error {
	enc, err := imapwire.NewCommandEncoder(&imapwire.Command{Args: []imapwire.Arg{arg}}, c.encoderOptions())
	if err != nil {
		return err
	}
	if err := enc.Encode(c.w); err != nil {
		return &imap.ConnError{Op: "write", Err: err}
	}
	return c.flush()
}

type flusher interface {
	Flush() error
}

// flush pushes the data buffered by a compression layer, if any.
func (c *Client) flush() error {
	if f, ok := c.conn.(flusher); ok {
		if err := f.Flush(); err != nil {
			return &imap.ConnError{Op: "write", Err: err}
		}
	}
	return nil
}

// waitContinuation reads responses until a continuation request or the
// tagged response of the command.
func (c *Client) waitContinuation(tag string, untagged *[]Response) (*TaggedResponse, error) {
	for {
		resp, err := c.nextResponse()
		if err != nil {
			return nil, err
		}
		switch resp := resp.(type) {
		case *ContinuationResponse:
			return nil, nil
		case *TaggedResponse:
			if resp.Tag == tag {
				return resp, resp.Err()
			}
			c.options.logger().Printf("imapclient: ignoring tagged response for unknown command %q", resp.Tag)
		default:
			*untagged = append(*untagged, resp)
		}
	}
}

// waitTagged reads responses until the tagged response of the command.
// Continuation requests are handed to onCont, or dropped if onCont is nil.
func (c *Client) waitTagged(tag string, untagged *[]Response, onCont func(*ContinuationResponse) error) (*TaggedResponse, error) {
	for {
		resp, err := c.nextResponse()
		if err != nil {
			return nil, err
		}
		switch resp := resp.(type) {
		case *TaggedResponse:
			if resp.Tag == tag {
				return resp, resp.Err()
			}
			c.options.logger().Printf("imapclient: ignoring tagged response for unknown command %q", resp.Tag)
		case *ContinuationResponse:
			if onCont == nil {
				c.options.logger().Printf("imapclient: ignoring unexpected continuation request")
				continue
			}
			if err := onCont(resp); err != nil {
				return nil, err
			}
		default:
			*untagged = append(*untagged, resp)
		}
	}
}

// nextResponse is like readResponse, except malformed responses are logged
// and skipped.
func (c *Client) nextResponse() (Response, error) {
	for {
		resp, err := c.readResponse()
		if errors.Is(err, imap.ErrMalformed) {
			c.options.logger().Printf("imapclient: dropping response: %v", err)
			continue
		}
		return resp, err
	}
}

// StartTLS sends a STARTTLS command and starts TLS negotiation.
//
// The capabilities known so far are discarded, since the server may advertise
// different ones over TLS.
func (c *Client) StartTLS(config *tls.Config) error {
	if config == nil {
		config = c.options.TLSConfig
	}
	if config == nil {
		config = &tls.Config{}
	}

	if _, _, err := c.Execute(&imapwire.Command{Name: "STARTTLS"}); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n := c.dec.Buffered(); n > 0 {
		return fmt.Errorf("imapclient: server sent %v bytes before TLS negotiation", n)
	}

	tlsConn := tls.Client(c.conn, config)
	if err := tlsConn.Handshake(); err != nil {
		return &imap.ConnError{Op: "TLS handshake", Err: err}
	}
	c.setConn(tlsConn)
	c.caps = nil
	return nil
}

func uidCmdName(name string, numSet imap.NumSet) string {
	if _, ok := numSet.(imap.UIDSet); ok {
		return "UID " + name
	}
	return name
}

// readAll decodes the untagged data responses of the given type.
func readAll[T any](untagged []Response, typ string, read func(*DataResponse) (T, error)) ([]T, error) {
	var l []T
	for _, resp := range untagged {
		data, ok := resp.(*DataResponse)
		if !ok || data.Type != typ {
			continue
		}
		v, err := read(data)
		if err != nil {
			return l, err
		}
		l = append(l, v)
	}
	return l, nil
}

func (c *Client) execute(name string, args ...imapwire.Arg) ([]Response, *TaggedResponse, error) {
	return c.Execute(&imapwire.Command{Name: name, Args: args})
}

// Noop sends a NOOP command. The untagged responses sent by the server, for
// instance mailbox updates, are returned.
func (c *Client) Noop() ([]Response, error) {
	untagged, _, err := c.execute("NOOP")
	return untagged, err
}

// Logout sends a LOGOUT command and closes the connection.
func (c *Client) Logout() error {
	_, _, err := c.execute("LOGOUT")
	if closeErr := c.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Capability sends a CAPABILITY command.
func (c *Client) Capability() (imap.CapSet, error) {
	if _, _, err := c.execute("CAPABILITY"); err != nil {
		return nil, err
	}
	return c.Caps(), nil
}

// Login sends a LOGIN command.
func (c *Client) Login(username, password string) error {
	_, _, err := c.execute("LOGIN", imapwire.String(username), imapwire.String(password))
	return err
}
