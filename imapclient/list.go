package imapclient

import (
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadList decodes a LIST, LSUB or XLIST response.
//
// Known mailbox attributes are canonicalized, other attributes are passed
// through. Unknown extended data items are ignored.
func ReadList(resp *DataResponse) (*imap.ListData, error) {
	if err := checkType(resp, "LIST", "LSUB", "XLIST"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("mailbox-list", resp.Args)
	var data imap.ListData

	attrList, ok := dec.ExpectList("mbx-list-flags")
	if !ok {
		return nil, dec.Err()
	}
	var attrs []imap.MailboxAttr
	for attrList.More() {
		var attr string
		if !attrList.ExpectAtom(&attr) {
			return nil, attrList.Err()
		}
		attrs = append(attrs, imap.CanonicalMailboxAttr(attr))
	}
	data.Attrs = imap.NewMailboxAttrSet(attrs...)

	if !readDelim(dec, &data.Delim) || !dec.ExpectMailbox(&data.Mailbox) {
		return nil, dec.Err()
	}

	if dec.More() {
		ext, ok := dec.ExpectList("mbox-list-extended")
		if !ok || !readListExtended(ext, &data) {
			dec.ExpectChild(ext)
			return nil, dec.Err()
		}
	}

	if !dec.ExpectEnd() {
		return nil, dec.Err()
	}
	return &data, nil
}

func readListExtended(dec *tokenDecoder, data *imap.ListData) bool {
	for dec.More() {
		var tag string
		if !dec.ExpectString(&tag) {
			return false
		}
		switch strings.ToUpper(tag) {
		case "CHILDINFO":
			opts, ok := dec.ExpectList("childinfo-extended-item")
			if !ok {
				return false
			}
			var childInfo imap.ListDataChildInfo
			for opts.More() {
				var opt string
				if !opts.ExpectString(&opt) {
					return dec.ExpectChild(opts)
				}
				if strings.EqualFold(opt, "SUBSCRIBED") {
					childInfo.Subscribed = true
				}
			}
			data.ChildInfo = &childInfo
		case "OLDNAME":
			l, ok := dec.ExpectList("oldname-extended-item")
			if !ok {
				return false
			}
			if !l.ExpectMailbox(&data.OldName) || !l.ExpectEnd() {
				return dec.ExpectChild(l)
			}
		default:
			// tagged-ext-val
			if !dec.Expect(dec.Skip(), "tagged-ext-val") {
				return false
			}
		}
	}
	return true
}

// readDelim reads a hierarchy delimiter: a single character, or NIL for a
// flat namespace. NIL is stored as zero.
func readDelim(dec *tokenDecoder, ptr *rune) bool {
	if dec.Nil() {
		*ptr = 0
		return true
	}
	var delim string
	if !dec.Expect(dec.String(&delim), "delimiter") {
		return false
	}
	r, size := utf8.DecodeRuneInString(delim)
	if r == utf8.RuneError || size != len(delim) {
		return dec.errorf("mailbox delimiter must be a single character, got %q", delim)
	}
	*ptr = r
	return true
}

// List sends a LIST command. The mailbox pattern may contain the wildcards
// "*" and "%".
func (c *Client) List(ref, pattern string) ([]*imap.ListData, error) {
	untagged, _, err := c.execute("LIST", imapwire.Mailbox(ref), imapwire.Mailbox(pattern))
	if err != nil {
		return nil, err
	}
	return readAll(untagged, "LIST", ReadList)
}
