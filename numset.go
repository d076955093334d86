package imap

import (
	"github.com/emersion/go-imap-engine/internal/imapnum"
)

// NumSet is a set of numbers identifying messages. NumSet is either a SeqSet
// or a UIDSet.
type NumSet interface {
	// String returns the IMAP representation of the message number set.
	String() string
	// Dynamic returns true if the set contains "*" or "n:*" ranges.
	Dynamic() bool
	// IsEmpty returns true if the set contains no numbers.
	IsEmpty() bool
}

var (
	_ NumSet = SeqSet(nil)
	_ NumSet = UIDSet(nil)
)

// SeqSet is a set of message sequence numbers.
type SeqSet imapnum.Set[uint32]

// SeqSetNum returns a new SeqSet containing the specified sequence numbers.
func SeqSetNum(nums ...uint32) SeqSet {
	var s SeqSet
	s.AddNum(nums...)
	return s
}

// ParseSeqSet parses a sequence-set such as "1:3,5,10:*".
//
// Ranges may be written in any order, overlapping ranges are coalesced.
func ParseSeqSet(s string) (SeqSet, error) {
	set, err := imapnum.ParseSet[uint32](s)
	if err != nil {
		return nil, &ArgumentError{Name: "sequence set", Value: s, Err: err}
	}
	return SeqSet(set), nil
}

func (s SeqSet) String() string {
	return imapnum.Set[uint32](s).String()
}

// Dynamic returns true if the set contains "*" or "n:*" values.
func (s SeqSet) Dynamic() bool {
	return imapnum.Set[uint32](s).Dynamic()
}

// IsEmpty returns true if the set contains no sequence numbers.
func (s SeqSet) IsEmpty() bool {
	return len(s) == 0
}

// Contains returns true if the non-zero sequence number is contained in the set.
func (s SeqSet) Contains(num uint32) bool {
	return imapnum.Set[uint32](s).Contains(num)
}

// Nums returns a slice of all sequence numbers contained in the set, in
// ascending order.
func (s SeqSet) Nums() ([]uint32, bool) {
	return imapnum.Set[uint32](s).Nums()
}

// Len returns the number of sequence numbers in a static set.
func (s SeqSet) Len() (uint64, bool) {
	return imapnum.Set[uint32](s).Len()
}

// Resolve replaces "*" with max, the number of messages in the mailbox.
func (s SeqSet) Resolve(max uint32) SeqSet {
	return SeqSet(imapnum.Set[uint32](s).Resolve(max))
}

// Intersect returns the sequence numbers contained in both s and other.
func (s SeqSet) Intersect(other SeqSet) SeqSet {
	return SeqSet(imapnum.Set[uint32](s).Intersect(imapnum.Set[uint32](other)))
}

// Difference returns the sequence numbers contained in s but not in other.
func (s SeqSet) Difference(other SeqSet) SeqSet {
	return SeqSet(imapnum.Set[uint32](s).Difference(imapnum.Set[uint32](other)))
}

// AddNum inserts new sequence numbers into the set. The value 0 represents "*".
func (s *SeqSet) AddNum(nums ...uint32) {
	(*imapnum.Set[uint32])(s).AddNum(nums...)
}

// AddRange inserts a new range into the set.
func (s *SeqSet) AddRange(start, stop uint32) {
	(*imapnum.Set[uint32])(s).AddRange(start, stop)
}

// AddSet inserts all sequence numbers from other into s.
func (s *SeqSet) AddSet(other SeqSet) {
	(*imapnum.Set[uint32])(s).AddSet(imapnum.Set[uint32](other))
}

// SeqRange is a range of message sequence numbers.
type SeqRange = imapnum.Range[uint32]

// UIDSet is a set of message UIDs.
type UIDSet imapnum.Set[UID]

// UIDSetNum returns a new UIDSet containing the specified UIDs.
func UIDSetNum(uids ...UID) UIDSet {
	var s UIDSet
	s.AddNum(uids...)
	return s
}

// ParseUIDSet parses a UID set such as "304,319:320".
func ParseUIDSet(s string) (UIDSet, error) {
	set, err := imapnum.ParseSet[UID](s)
	if err != nil {
		return nil, &ArgumentError{Name: "UID set", Value: s, Err: err}
	}
	return UIDSet(set), nil
}

func (s UIDSet) String() string {
	return imapnum.Set[UID](s).String()
}

// Dynamic returns true if the set contains "*" or "n:*" values.
func (s UIDSet) Dynamic() bool {
	return imapnum.Set[UID](s).Dynamic()
}

// IsEmpty returns true if the set contains no UIDs.
func (s UIDSet) IsEmpty() bool {
	return len(s) == 0
}

// Contains returns true if the non-zero UID is contained in the set.
func (s UIDSet) Contains(uid UID) bool {
	return imapnum.Set[UID](s).Contains(uid)
}

// Nums returns a slice of all UIDs contained in the set, in ascending order.
func (s UIDSet) Nums() ([]UID, bool) {
	return imapnum.Set[UID](s).Nums()
}

// Len returns the number of UIDs in a static set.
func (s UIDSet) Len() (uint64, bool) {
	return imapnum.Set[UID](s).Len()
}

// Resolve replaces "*" with max, the highest UID in use in the mailbox.
func (s UIDSet) Resolve(max UID) UIDSet {
	return UIDSet(imapnum.Set[UID](s).Resolve(max))
}

// Intersect returns the UIDs contained in both s and other.
func (s UIDSet) Intersect(other UIDSet) UIDSet {
	return UIDSet(imapnum.Set[UID](s).Intersect(imapnum.Set[UID](other)))
}

// Difference returns the UIDs contained in s but not in other.
func (s UIDSet) Difference(other UIDSet) UIDSet {
	return UIDSet(imapnum.Set[UID](s).Difference(imapnum.Set[UID](other)))
}

// AddNum inserts new UIDs into the set. The value 0 represents "*".
func (s *UIDSet) AddNum(uids ...UID) {
	(*imapnum.Set[UID])(s).AddNum(uids...)
}

// AddRange inserts a new range into the set.
func (s *UIDSet) AddRange(start, stop UID) {
	(*imapnum.Set[UID])(s).AddRange(start, stop)
}

// AddSet inserts all UIDs from other into s.
func (s *UIDSet) AddSet(other UIDSet) {
	(*imapnum.Set[UID])(s).AddSet(imapnum.Set[UID](other))
}

// UIDRange is a range of message UIDs.
type UIDRange = imapnum.Range[UID]
