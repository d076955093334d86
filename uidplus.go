package imap

import (
	"fmt"
)

// AppendUIDData is the data carried by an APPENDUID response code.
//
// UIDPLUS allows a server to assign several UIDs when MULTIAPPEND is in use.
type AppendUIDData struct {
	UIDValidity uint32
	UIDs        UIDSet
}

// CopyUIDData is the data carried by a COPYUID response code.
type CopyUIDData struct {
	UIDValidity uint32
	SourceUIDs  UIDSet
	DestUIDs    UIDSet
}

// UIDPair maps a source message UID to the UID assigned in the destination
// mailbox.
type UIDPair struct {
	Source UID
	Dest   UID
}

// Pairs matches source UIDs with destination UIDs. Both sets are enumerated
// in ascending order, as required by RFC 4315 section 3.
func (data *CopyUIDData) Pairs() ([]UIDPair, error) {
	src, ok := data.SourceUIDs.Nums()
	if !ok {
		return nil, fmt.Errorf("imap: COPYUID source set is dynamic")
	}
	dst, ok := data.DestUIDs.Nums()
	if !ok {
		return nil, fmt.Errorf("imap: COPYUID destination set is dynamic")
	}
	if len(src) != len(dst) {
		return nil, &MalformedError{
			Raw: data.SourceUIDs.String() + " " + data.DestUIDs.String(),
			Msg: "COPYUID source and destination sets differ in size",
		}
	}
	pairs := make([]UIDPair, len(src))
	for i := range src {
		pairs[i] = UIDPair{Source: src[i], Dest: dst[i]}
	}
	return pairs, nil
}
