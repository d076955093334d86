package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// Enable sends an ENABLE command. The capabilities the server actually
// enabled are returned.
//
// This command requires support for IMAP4rev2 or the ENABLE extension.
func (c *Client) Enable(caps ...imap.Cap) (*imap.EnabledData, error) {
	args := make([]imapwire.Arg, len(caps))
	for i, capability := range caps {
		args[i] = imapwire.Atom(capability)
	}
	untagged, _, err := c.execute("ENABLE", args...)
	if err != nil {
		return nil, err
	}

	data := &imap.EnabledData{Caps: make(imap.CapSet)}
	l, err := readAll(untagged, "ENABLED", ReadEnabled)
	for _, enabled := range l {
		for capability := range enabled.Caps {
			data.Caps.Add(capability)
		}
	}
	return data, err
}
