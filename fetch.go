package imap

import (
	"time"

	"github.com/emersion/go-message/mail"
)

// Envelope is the envelope structure of a message.
//
// The subject and display names are decoded from RFC 2047 encoded-words.
type Envelope struct {
	Date      string // see ParsedDate
	Subject   string
	From      []Address
	Sender    []Address
	ReplyTo   []Address
	To        []Address
	Cc        []Address
	Bcc       []Address
	InReplyTo string
	MessageID string
}

// ParsedDate parses the Date field.
func (env *Envelope) ParsedDate() (time.Time, error) {
	return ParseMessageDateTime(env.Date)
}

// Address represents a sender or recipient of a message.
type Address struct {
	Name    string
	Mailbox string
	Host    string
}

// Addr returns the e-mail address in the form "foo@example.org".
//
// If the address is a start or end of group, the empty string is returned.
func (addr *Address) Addr() string {
	if addr.Mailbox == "" || addr.Host == "" {
		return ""
	}
	return addr.Mailbox + "@" + addr.Host
}

// MailAddress converts the address to a go-message address, suitable for
// formatting in a header field. Group markers convert to nil.
func (addr *Address) MailAddress() *mail.Address {
	if addr.IsGroupStart() || addr.IsGroupEnd() {
		return nil
	}
	return &mail.Address{Name: addr.Name, Address: addr.Addr()}
}

// IsGroupStart returns true if this address is a start of group marker.
//
// In that case, Mailbox contains the group name phrase.
func (addr *Address) IsGroupStart() bool {
	return addr.Host == "" && addr.Mailbox != ""
}

// IsGroupEnd returns true if this address is a end of group marker.
func (addr *Address) IsGroupEnd() bool {
	return addr.Host == "" && addr.Mailbox == ""
}

// MailAddressList converts a list of addresses, skipping group markers.
func MailAddressList(addrs []Address) []*mail.Address {
	var l []*mail.Address
	for i := range addrs {
		if a := addrs[i].MailAddress(); a != nil {
			l = append(l, a)
		}
	}
	return l
}
