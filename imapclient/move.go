package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// MoveData contains the data returned by a MOVE command.
type MoveData struct {
	// UIDs assigned in the destination mailbox, requires UIDPLUS
	CopyUID *imap.CopyUIDData
	// Sequence numbers of the expunged messages, in the order the server
	// sent them
	Expunged []uint32
}

// Move sends a MOVE command, or UID MOVE if numSet is an imap.UIDSet.
//
// This command requires support for IMAP4rev2 or the MOVE extension.
func (c *Client) Move(numSet imap.NumSet, mailbox string) (*MoveData, error) {
	untagged, tagged, err := c.execute(uidCmdName("MOVE", numSet), imapwire.NumSet{Set: numSet}, imapwire.Mailbox(mailbox))
	if err != nil {
		return nil, err
	}

	var data MoveData
	// The COPYUID code is sent in an untagged OK response before the
	// expunges, or in the tagged response
	for _, resp := range untagged {
		if status, ok := resp.(*UntaggedStatusResponse); ok {
			if copyUID, ok := status.CopyUID(); ok {
				data.CopyUID = copyUID
			}
		}
	}
	if copyUID, ok := tagged.CopyUID(); ok {
		data.CopyUID = copyUID
	}
	if data.Expunged, err = readAll(untagged, "EXPUNGE", ReadNum); err != nil {
		return nil, err
	}
	return &data, nil
}
