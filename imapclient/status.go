package imapclient

import (
	"strings"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadStatus decodes a STATUS response. Unknown status items are skipped.
func ReadStatus(resp *DataResponse) (*imap.StatusData, error) {
	if err := checkType(resp, "STATUS"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("status", resp.Args)
	var data imap.StatusData
	if !dec.ExpectMailbox(&data.Mailbox) {
		return nil, dec.Err()
	}
	list, ok := dec.ExpectList("status-att-list")
	if !ok || !dec.ExpectEnd() {
		return nil, dec.Err()
	}
	for list.More() {
		if !readStatusAttVal(list, &data) {
			return nil, list.Err()
		}
	}
	return &data, nil
}

func readStatusAttVal(dec *tokenDecoder, data *imap.StatusData) bool {
	var name string
	if !dec.ExpectAtom(&name) {
		return false
	}

	switch strings.ToUpper(name) {
	case "MESSAGES":
		var num uint32
		data.NumMessages = &num
		return dec.ExpectNumber(&num)
	case "RECENT":
		var num uint32
		data.NumRecent = &num
		return dec.ExpectNumber(&num)
	case "UIDNEXT":
		var num uint32
		if !dec.ExpectNumber(&num) {
			return false
		}
		uid := imap.UID(num)
		data.UIDNext = &uid
		return true
	case "UIDVALIDITY":
		var num uint32
		data.UIDValidity = &num
		return dec.ExpectNumber(&num)
	case "UNSEEN":
		var num uint32
		data.NumUnseen = &num
		return dec.ExpectNumber(&num)
	case "DELETED":
		var num uint32
		data.NumDeleted = &num
		return dec.ExpectNumber(&num)
	case "SIZE":
		var size int64
		data.Size = &size
		return dec.ExpectNumber64(&size)
	case "APPENDLIMIT":
		// NIL means there is no limit
		if dec.Nil() {
			return true
		}
		var num uint32
		data.AppendLimit = &num
		return dec.ExpectNumber(&num)
	case "DELETED-STORAGE":
		var storage int64
		data.DeletedStorage = &storage
		return dec.ExpectNumber64(&storage)
	case "HIGHESTMODSEQ":
		var modSeq uint64
		data.HighestModSeq = &modSeq
		return dec.ExpectModSeq(&modSeq)
	default:
		return dec.Expect(dec.Skip(), "status-att value")
	}
}

// Status sends a STATUS command.
func (c *Client) Status(mailbox string, items ...imap.StatusItem) (*imap.StatusData, error) {
	list := make(imapwire.List, len(items))
	for i, item := range items {
		list[i] = imapwire.Atom(item)
	}
	untagged, _, err := c.execute("STATUS", imapwire.Mailbox(mailbox), list)
	if err != nil {
		return nil, err
	}
	l, err := readAll(untagged, "STATUS", ReadStatus)
	if err != nil {
		return nil, err
	} else if len(l) == 0 {
		return nil, &imap.MalformedError{Msg: "missing STATUS response"}
	}
	return l[len(l)-1], nil
}
