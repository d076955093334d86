package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// Expunge sends an EXPUNGE command. The sequence numbers of the expunged
// messages are returned in the order the server sent them.
func (c *Client) Expunge() ([]uint32, error) {
	untagged, _, err := c.execute("EXPUNGE")
	if err != nil {
		return nil, err
	}
	return readAll(untagged, "EXPUNGE", ReadNum)
}

// UIDExpunge sends a UID EXPUNGE command.
//
// This command requires support for IMAP4rev2 or the UIDPLUS extension.
func (c *Client) UIDExpunge(uids imap.UIDSet) ([]uint32, error) {
	untagged, _, err := c.execute("UID EXPUNGE", imapwire.NumSet{Set: uids})
	if err != nil {
		return nil, err
	}
	return readAll(untagged, "EXPUNGE", ReadNum)
}
