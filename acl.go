package imap

import (
	"fmt"
	"strings"
)

// RightSet is a set of ACL rights (RFC 4314), one letter per right.
type RightSet string

// Right is an ACL right.
type Right byte

const (
	RightLookup     = Right('l') // mailbox is visible to LIST/LSUB commands
	RightRead       = Right('r') // SELECT the mailbox, perform CHECK, FETCH, SEARCH, COPY from mailbox
	RightSeen       = Right('s') // keep seen/unseen information across sessions (STORE SEEN flag)
	RightWrite      = Right('w') // STORE flags other than SEEN and DELETED
	RightInsert     = Right('i') // perform APPEND, COPY into mailbox
	RightPost       = Right('p') // send mail to submission address for mailbox
	RightCreate     = Right('k') // CREATE new sub-mailboxes
	RightDelete     = Right('x') // DELETE mailbox
	RightDeleteMsg  = Right('t') // STORE DELETED flag
	RightExpunge    = Right('e') // perform EXPUNGE
	RightAdminister = Right('a') // perform SETACL/DELETEACL/GETACL/LISTRIGHTS

	// AllRights contains the rights defined in RFC 4314.
	AllRights = RightSet("lrswipkxtea")
)

// Has checks whether the set contains a right.
func (rs RightSet) Has(r Right) bool {
	return strings.IndexByte(string(rs), byte(r)) >= 0
}

// Add returns the union of two sets.
func (rs RightSet) Add(rights RightSet) RightSet {
	for _, right := range rights {
		if !strings.ContainsRune(string(rs), right) {
			rs += RightSet(right)
		}
	}
	return rs
}

// Remove returns the set without the rights in the other set.
func (rs RightSet) Remove(rights RightSet) RightSet {
	var out RightSet
	for _, right := range rs {
		if !strings.ContainsRune(string(rights), right) {
			out += RightSet(right)
		}
	}
	return out
}

// ParseRightSet parses a rights string sent by a server. Rights unknown to
// this package, such as the obsolete "c" and "d" or digits reserved for
// extensions, are kept.
func ParseRightSet(s string) (RightSet, error) {
	for _, ch := range s {
		if !(ch >= 'a' && ch <= 'z') && !(ch >= '0' && ch <= '9') {
			return "", &ArgumentError{Name: "rights", Value: s, Err: fmt.Errorf("invalid right %q", ch)}
		}
	}
	return RightSet(s), nil
}

// RightsIdentifier is an ACL identifier: a user name, a group name or
// "anyone". A leading "-" designates negative rights.
type RightsIdentifier string

const RightsIdentifierAnyone = RightsIdentifier("anyone")

// RightModification specifies how SETACL alters rights.
type RightModification byte

const (
	RightModificationReplace = RightModification(0)
	RightModificationAdd     = RightModification('+')
	RightModificationRemove  = RightModification('-')
)

// MyRightsData is the data returned by a MYRIGHTS response.
type MyRightsData struct {
	Mailbox string
	Rights  RightSet
}

// ACLData is the data returned by an ACL response.
type ACLData struct {
	Mailbox string
	Rights  map[RightsIdentifier]RightSet
}
