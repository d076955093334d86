package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// Copy sends a COPY command, or UID COPY if numSet is an imap.UIDSet.
//
// The returned data is nil unless the server supports UIDPLUS.
func (c *Client) Copy(numSet imap.NumSet, mailbox string) (*imap.CopyUIDData, error) {
	_, tagged, err := c.execute(uidCmdName("COPY", numSet), imapwire.NumSet{Set: numSet}, imapwire.Mailbox(mailbox))
	if err != nil {
		return nil, err
	}
	data, _ := tagged.CopyUID()
	return data, nil
}
