package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadMetadata decodes a METADATA response.
//
// In reply to GETMETADATA, the server sends a list of entry-value pairs and
// MetadataData.Entries is populated. Unsolicited responses list the entries
// whose value changed, in MetadataData.Changed.
func ReadMetadata(resp *DataResponse) (*imap.MetadataData, error) {
	if err := checkType(resp, "METADATA"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("metadata-resp", resp.Args)
	var data imap.MetadataData
	if !dec.ExpectMailbox(&data.Mailbox) {
		return nil, dec.Err()
	}

	if l, ok := dec.List("entry-values"); ok {
		if !dec.ExpectEnd() {
			return nil, dec.Err()
		}
		data.Entries = make(map[string]*[]byte)
		for l.More() {
			var (
				name string
				tok  imapwire.Token
			)
			if !l.ExpectString(&name) || !l.ExpectToken(&tok) {
				return nil, l.Err()
			}
			switch {
			case tok.IsNil():
				data.Entries[name] = nil
			case tok.IsText():
				b := append([]byte(nil), tok.Data...)
				data.Entries[name] = &b
			default:
				l.errorf("expected nstring for entry %q, got %v", name, tok)
				return nil, l.Err()
			}
		}
		return &data, nil
	}

	for dec.More() {
		var name string
		if !dec.ExpectString(&name) {
			return nil, dec.Err()
		}
		data.Changed = append(data.Changed, name)
	}
	if len(data.Changed) == 0 {
		return nil, malformedTokens(resp.Args, "in metadata-resp: expected entries")
	}
	return &data, nil
}

// GetMetadata sends a GETMETADATA command. An empty mailbox name designates
// server annotations.
//
// This command requires support for the METADATA or METADATA-SERVER
// extension.
func (c *Client) GetMetadata(mailbox string, entries []string) (*imap.MetadataData, error) {
	list := make(imapwire.List, len(entries))
	for i, entry := range entries {
		list[i] = imapwire.String(entry)
	}
	untagged, _, err := c.execute("GETMETADATA", imapwire.Mailbox(mailbox), list)
	if err != nil {
		return nil, err
	}
	l, err := readAll(untagged, "METADATA", ReadMetadata)
	if err != nil {
		return nil, err
	}

	data := &imap.MetadataData{Mailbox: mailbox, Entries: make(map[string]*[]byte)}
	for _, resp := range l {
		for name, value := range resp.Entries {
			data.Entries[name] = value
		}
	}
	return data, nil
}
