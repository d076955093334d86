package imapclient

import (
	"io"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// Append sends an APPEND command. The message is read from r, which must
// provide exactly size bytes.
//
// The returned data is nil unless the server supports UIDPLUS.
//
// A nil options pointer is equivalent to a zero options value.
func (c *Client) Append(mailbox string, r io.Reader, size int64, options *imap.AppendOptions) (*imap.AppendUIDData, error) {
	if options == nil {
		options = &imap.AppendOptions{}
	}

	args := []imapwire.Arg{imapwire.Mailbox(mailbox)}
	if len(options.Flags) > 0 {
		flags := make(imapwire.List, len(options.Flags))
		for i, flag := range options.Flags {
			flags[i] = imapwire.Flag(flag)
		}
		args = append(args, flags)
	}
	if !options.Time.IsZero() {
		args = append(args, imapwire.Quoted(options.Time.Format(imap.DateTimeLayout)))
	}
	args = append(args, &imapwire.Literal{Size: size, R: r, Binary: options.Binary})

	_, tagged, err := c.execute("APPEND", args...)
	if err != nil {
		return nil, err
	}
	data, _ := tagged.AppendUID()
	return data, nil
}
