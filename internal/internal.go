// Package internal contains helpers shared by the imap, imapwire and
// imapclient packages.
package internal

const (
	// DateLayout is the layout of an IMAP date (RFC 3501 date-text).
	DateLayout = "2-Jan-2006"
	// DateTimeLayout is the layout of an IMAP date-time, as used by
	// INTERNALDATE. The day may be padded with a space.
	DateTimeLayout = "_2-Jan-2006 15:04:05 -0700"
)
