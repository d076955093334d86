// Package imap contains the data model of the IMAP4rev1 client protocol
// engine: flags, mailbox attributes, response codes, number sets, body
// structures and the typed results of untagged data responses.
//
// IMAP4rev1 is defined in RFC 3501. The wire grammar lives in the imapwire
// package and the response decoding in the imapclient package.
package imap

import (
	"strings"
)

// MailboxAttr is a mailbox attribute.
//
// Mailbox attributes are defined in RFC 3501 section 7.2.2.
type MailboxAttr string

const (
	// Base attributes
	MailboxAttrNonExistent   MailboxAttr = "\\NonExistent"
	MailboxAttrNoInferiors   MailboxAttr = "\\Noinferiors"
	MailboxAttrNoSelect      MailboxAttr = "\\Noselect"
	MailboxAttrHasChildren   MailboxAttr = "\\HasChildren"
	MailboxAttrHasNoChildren MailboxAttr = "\\HasNoChildren"
	MailboxAttrMarked        MailboxAttr = "\\Marked"
	MailboxAttrUnmarked      MailboxAttr = "\\Unmarked"
	MailboxAttrSubscribed    MailboxAttr = "\\Subscribed"
	MailboxAttrRemote        MailboxAttr = "\\Remote"

	// Role (aka. "special-use") attributes
	MailboxAttrAll     MailboxAttr = "\\All"
	MailboxAttrArchive MailboxAttr = "\\Archive"
	MailboxAttrDrafts  MailboxAttr = "\\Drafts"
	MailboxAttrFlagged MailboxAttr = "\\Flagged"
	MailboxAttrJunk    MailboxAttr = "\\Junk"
	MailboxAttrSent    MailboxAttr = "\\Sent"
	MailboxAttrTrash   MailboxAttr = "\\Trash"

	// XLIST attributes (Gmail)
	MailboxAttrInbox     MailboxAttr = "\\Inbox"
	MailboxAttrAllMail   MailboxAttr = "\\AllMail"
	MailboxAttrImportant MailboxAttr = "\\Important"
	MailboxAttrSpam      MailboxAttr = "\\Spam"
	MailboxAttrStarred   MailboxAttr = "\\Starred"
)

var knownMailboxAttrs = func() map[string]MailboxAttr {
	m := make(map[string]MailboxAttr)
	for _, attr := range []MailboxAttr{
		MailboxAttrNonExistent, MailboxAttrNoInferiors, MailboxAttrNoSelect,
		MailboxAttrHasChildren, MailboxAttrHasNoChildren, MailboxAttrMarked,
		MailboxAttrUnmarked, MailboxAttrSubscribed, MailboxAttrRemote,
		MailboxAttrAll, MailboxAttrArchive, MailboxAttrDrafts, MailboxAttrFlagged,
		MailboxAttrJunk, MailboxAttrSent, MailboxAttrTrash,
		MailboxAttrInbox, MailboxAttrAllMail, MailboxAttrImportant,
		MailboxAttrSpam, MailboxAttrStarred,
	} {
		m[strings.ToLower(string(attr))] = attr
	}
	return m
}()

// CanonicalMailboxAttr returns the well-known spelling of attr if it is a
// known attribute (attributes are case-insensitive). Unknown attributes are
// returned unchanged.
func CanonicalMailboxAttr(attr string) MailboxAttr {
	if known, ok := knownMailboxAttrs[strings.ToLower(attr)]; ok {
		return known
	}
	return MailboxAttr(attr)
}

// MailboxAttrSet is an immutable set of mailbox attributes, as returned in a
// LIST response.
//
// The zero value is an empty set.
type MailboxAttrSet struct {
	attrs []MailboxAttr
}

// NewMailboxAttrSet creates a set from the provided attributes. Known
// attributes are canonicalized and duplicates are removed.
func NewMailboxAttrSet(attrs ...MailboxAttr) MailboxAttrSet {
	var set MailboxAttrSet
	for _, attr := range attrs {
		attr = CanonicalMailboxAttr(string(attr))
		if !set.Has(attr) {
			set.attrs = append(set.attrs, attr)
		}
	}
	return set
}

// Has checks whether the set contains an attribute. The comparison is
// case-insensitive.
func (set MailboxAttrSet) Has(attr MailboxAttr) bool {
	for _, a := range set.attrs {
		if strings.EqualFold(string(a), string(attr)) {
			return true
		}
	}
	return false
}

// Len returns the number of attributes in the set.
func (set MailboxAttrSet) Len() int {
	return len(set.attrs)
}

// Attrs returns a copy of the attributes, in wire order.
func (set MailboxAttrSet) Attrs() []MailboxAttr {
	l := make([]MailboxAttr, len(set.attrs))
	copy(l, set.attrs)
	return l
}

// Flag is a message flag.
//
// Message flags are defined in RFC 3501 section 2.3.2.
type Flag string

const (
	// System flags
	FlagSeen     Flag = "\\Seen"
	FlagAnswered Flag = "\\Answered"
	FlagFlagged  Flag = "\\Flagged"
	FlagDeleted  Flag = "\\Deleted"
	FlagDraft    Flag = "\\Draft"
	FlagRecent   Flag = "\\Recent"

	// Widely used flags
	FlagForwarded Flag = "$Forwarded"
	FlagMDNSent   Flag = "$MDNSent" // Message Disposition Notification sent
	FlagJunk      Flag = "$Junk"
	FlagNotJunk   Flag = "$NotJunk"
	FlagPhishing  Flag = "$Phishing"
	FlagImportant Flag = "$Important" // RFC 8457

	// Permanent flags
	FlagWildcard Flag = "\\*"
)

var systemFlags = map[string]Flag{
	"\\seen":     FlagSeen,
	"\\answered": FlagAnswered,
	"\\flagged":  FlagFlagged,
	"\\deleted":  FlagDeleted,
	"\\draft":    FlagDraft,
	"\\recent":   FlagRecent,
	"\\*":        FlagWildcard,
}

// CanonicalFlag returns the canonical form of a flag. System flags are
// case-insensitive, keywords are returned unchanged.
func CanonicalFlag(flag string) Flag {
	if f, ok := systemFlags[strings.ToLower(flag)]; ok {
		return f
	}
	return Flag(flag)
}

// UID is a message unique identifier.
type UID uint32
