package imap

import (
	"github.com/emersion/go-imap-engine/internal/utf7"
)

// ListData is the mailbox data returned by a LIST, LSUB or XLIST response.
type ListData struct {
	Attrs MailboxAttrSet
	Delim rune // 0 if the server has no hierarchy (NIL delimiter)
	// Mailbox is the name as sent by the server, byte-exact. Use
	// DecodedMailbox to get the human-readable name.
	Mailbox string

	// Extended data
	ChildInfo *ListDataChildInfo
	OldName   string
}

// ListDataChildInfo is the CHILDINFO extended data item (RFC 5258).
type ListDataChildInfo struct {
	Subscribed bool
}

// DecodedMailbox returns the mailbox name decoded from modified UTF-7. If the
// name isn't valid modified UTF-7, it is returned unchanged.
func (data *ListData) DecodedMailbox() string {
	return decodeMailboxName(data.Mailbox)
}

func decodeMailboxName(name string) string {
	decoded, err := utf7.Encoding.NewDecoder().String(name)
	if err != nil {
		return name
	}
	return decoded
}
