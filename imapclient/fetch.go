package imapclient

import (
	"mime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/charset"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// wordDecoder decodes RFC 2047 encoded-words found in envelopes and body
// structure parameters.
var wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}

// decodeText decodes encoded-words. If decoding fails, the text is returned
// unchanged.
func decodeText(s string) string {
	dec, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return dec
}

// FetchBodySection is the data of a BODY[...] or BINARY[...] item.
type FetchBodySection struct {
	// Label is the section between brackets, in upper case, e.g. "1.2" or
	// "HEADER.FIELDS (FROM TO)". RFC822, RFC822.HEADER and RFC822.TEXT have
	// the labels "", "HEADER" and "TEXT".
	Label string
	// Partial is true if the server returned an origin octet, e.g.
	// "BODY[]<0>".
	Partial bool
	Offset  uint32
	// Data is nil if the server returned NIL.
	Data []byte
}

// FetchData is the data returned by a FETCH response.
//
// The fields are populated for the items present in the response. Unknown
// items are skipped.
type FetchData struct {
	SeqNum uint32

	UID           imap.UID
	Flags         []imap.Flag
	Envelope      *imap.Envelope
	InternalDate  time.Time
	RFC822Size    int64
	BodyStructure imap.BodyStructure // from BODY or BODYSTRUCTURE
	ModSeq        uint64             // requires CONDSTORE

	bodySections   map[string]*FetchBodySection
	binarySections map[string]*FetchBodySection
	binarySizes    map[string]uint32
}

// normalizeSectionLabel makes section labels comparable regardless of case
// and spacing, e.g. "header.fields ( From  To )" and "HEADER.FIELDS (FROM TO)".
func normalizeSectionLabel(label string) string {
	label = strings.Join(strings.Fields(label), " ")
	label = strings.ReplaceAll(label, "( ", "(")
	label = strings.ReplaceAll(label, " )", ")")
	return strings.ToUpper(label)
}

func sectionError(item, label string) error {
	return &imap.ArgumentError{Name: item + " section", Value: label, Err: errNoSuchSection}
}

var errNoSuchSection = &noSuchSectionError{}

type noSuchSectionError struct{}

func (*noSuchSectionError) Error() string {
	return "not present in FETCH response"
}

// BodySection returns the data of a BODY[label] item. The label is matched
// case-insensitively. An *imap.ArgumentError is returned if the response
// doesn't contain the section.
func (data *FetchData) BodySection(label string) ([]byte, error) {
	sec, ok := data.bodySections[normalizeSectionLabel(label)]
	if !ok {
		return nil, sectionError("BODY", label)
	}
	return sec.Data, nil
}

// BinarySection returns the data of a BINARY[label] item. An
// *imap.ArgumentError is returned if the response doesn't contain the
// section.
func (data *FetchData) BinarySection(label string) ([]byte, error) {
	sec, ok := data.binarySections[normalizeSectionLabel(label)]
	if !ok {
		return nil, sectionError("BINARY", label)
	}
	return sec.Data, nil
}

// BinarySize returns the value of a BINARY.SIZE[label] item. An
// *imap.ArgumentError is returned if the response doesn't contain the
// section.
func (data *FetchData) BinarySize(label string) (uint32, error) {
	size, ok := data.binarySizes[normalizeSectionLabel(label)]
	if !ok {
		return 0, sectionError("BINARY.SIZE", label)
	}
	return size, nil
}

// BodySections returns all BODY[...] items, sorted by label.
func (data *FetchData) BodySections() []FetchBodySection {
	return sortedSections(data.bodySections)
}

// BinarySections returns all BINARY[...] items, sorted by label.
func (data *FetchData) BinarySections() []FetchBodySection {
	return sortedSections(data.binarySections)
}

func sortedSections(m map[string]*FetchBodySection) []FetchBodySection {
	l := make([]FetchBodySection, 0, len(m))
	for _, sec := range m {
		l = append(l, *sec)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].Label < l[j].Label
	})
	return l
}

// ReadFetch decodes a FETCH response.
func ReadFetch(resp *DataResponse) (*FetchData, error) {
	if err := checkType(resp, "FETCH"); err != nil {
		return nil, err
	}
	if !resp.HasNum || resp.Num == 0 {
		return nil, malformedTokens(resp.Args, "in message-data: expected a non-zero sequence number before FETCH")
	}

	dec := newTokenDecoder("msg-att", resp.Args)
	list, ok := dec.ExpectList("msg-att")
	if !ok || !dec.ExpectEnd() {
		return nil, dec.Err()
	}

	data := &FetchData{SeqNum: resp.Num}
	for list.More() {
		if !readMsgAtt(list, data) {
			return nil, list.Err()
		}
	}
	return data, nil
}

func readMsgAtt(dec *tokenDecoder, data *FetchData) bool {
	var attName string
	if !dec.ExpectAtom(&attName) {
		return false
	}

	name, label, origin, hasSection := splitFetchItemName(attName)
	if hasSection {
		return readSectionAtt(dec, data, attName, name, label, origin)
	}

	switch name {
	case "UID":
		var uid uint32
		if !dec.ExpectNumber(&uid) {
			return false
		}
		data.UID = imap.UID(uid)
	case "FLAGS":
		var tok imapwire.Token
		if !dec.ExpectToken(&tok) {
			return false
		}
		flags, err := readFlagList(tok)
		if err != nil {
			return dec.returnErr(err)
		}
		data.Flags = flags
	case "ENVELOPE":
		l, ok := dec.ExpectList("envelope")
		if !ok {
			return false
		}
		env, ok := readEnvelope(l)
		if !ok {
			return dec.ExpectChild(l)
		}
		data.Envelope = env
	case "INTERNALDATE":
		var s string
		if !dec.ExpectString(&s) {
			return false
		}
		t, err := imap.ParseDateTime(s)
		if err != nil {
			return dec.errorf("in INTERNALDATE: %v", err)
		}
		data.InternalDate = t
	case "RFC822.SIZE":
		if !dec.ExpectNumber64(&data.RFC822Size) {
			return false
		}
	case "MODSEQ":
		l, ok := dec.ExpectList("permsg-modsequence")
		if !ok {
			return false
		}
		if !l.ExpectModSeq(&data.ModSeq) || !l.ExpectEnd() {
			return dec.ExpectChild(l)
		}
	case "BODY", "BODYSTRUCTURE":
		l, ok := dec.ExpectList("body")
		if !ok {
			return false
		}
		bs, ok := readBody(l)
		if !ok {
			return dec.ExpectChild(l)
		}
		data.BodyStructure = imap.NewBodyStructureTree(bs)
	case "RFC822":
		return readSectionAtt(dec, data, attName, "BODY", "", "")
	case "RFC822.HEADER":
		return readSectionAtt(dec, data, attName, "BODY", "HEADER", "")
	case "RFC822.TEXT":
		return readSectionAtt(dec, data, attName, "BODY", "TEXT", "")
	default:
		// Unknown item, skip its value
		return dec.Expect(dec.Skip(), attName+" value")
	}
	return true
}

// splitFetchItemName splits an item name such as "BODY[1.2]<0>" into its
// upper-case name, its section label and its origin.
func splitFetchItemName(s string) (name, label, origin string, hasSection bool) {
	i := strings.IndexByte(s, '[')
	if i < 0 {
		return strings.ToUpper(s), "", "", false
	}
	j := strings.LastIndexByte(s, ']')
	if j < i {
		return strings.ToUpper(s), "", "", false
	}
	return strings.ToUpper(s[:i]), s[i+1 : j], s[j+1:], true
}

func readSectionAtt(dec *tokenDecoder, data *FetchData, attName, name, label, origin string) bool {
	sec := &FetchBodySection{Label: normalizeSectionLabel(label)}
	if origin != "" {
		if !strings.HasPrefix(origin, "<") || !strings.HasSuffix(origin, ">") {
			return dec.errorf("invalid origin in %v", attName)
		}
		offset, err := strconv.ParseUint(origin[1:len(origin)-1], 10, 32)
		if err != nil {
			return dec.errorf("invalid origin in %v: %v", attName, err)
		}
		sec.Partial = true
		sec.Offset = uint32(offset)
	}

	switch name {
	case "BODY", "BINARY":
		var tok imapwire.Token
		if !dec.ExpectToken(&tok) {
			return false
		}
		switch {
		case tok.IsNil():
			// Data stays nil
		case tok.IsText():
			sec.Data = tok.Data
		default:
			return dec.errorf("expected nstring for %v, got %v", attName, tok)
		}
		if name == "BODY" {
			if data.bodySections == nil {
				data.bodySections = make(map[string]*FetchBodySection)
			}
			data.bodySections[sec.Label] = sec
		} else {
			if data.binarySections == nil {
				data.binarySections = make(map[string]*FetchBodySection)
			}
			data.binarySections[sec.Label] = sec
		}
	case "BINARY.SIZE":
		var size uint32
		if !dec.ExpectNumber(&size) {
			return false
		}
		if data.binarySizes == nil {
			data.binarySizes = make(map[string]uint32)
		}
		data.binarySizes[sec.Label] = size
	default:
		return dec.Expect(dec.Skip(), attName+" value")
	}
	return true
}

func readEnvelope(dec *tokenDecoder) (*imap.Envelope, bool) {
	var (
		env     imap.Envelope
		subject string
	)
	if !dec.ExpectNString(&env.Date) || !dec.ExpectNString(&subject) {
		return nil, false
	}
	env.Subject = decodeText(subject)

	addrLists := []struct {
		name string
		out  *[]imap.Address
	}{
		{"env-from", &env.From},
		{"env-sender", &env.Sender},
		{"env-reply-to", &env.ReplyTo},
		{"env-to", &env.To},
		{"env-cc", &env.Cc},
		{"env-bcc", &env.Bcc},
	}
	for _, addrList := range addrLists {
		l, ok := dec.ExpectNList(addrList.name)
		if !ok {
			return nil, false
		}
		if l == nil {
			continue
		}
		for l.More() {
			addr, ok := l.ExpectList("address")
			if !ok {
				return nil, dec.ExpectChild(l)
			}
			a, ok := readAddress(addr)
			if !ok {
				l.ExpectChild(addr)
				return nil, dec.ExpectChild(l)
			}
			*addrList.out = append(*addrList.out, *a)
		}
	}

	if !dec.ExpectNString(&env.InReplyTo) || !dec.ExpectNString(&env.MessageID) || !dec.ExpectEnd() {
		return nil, false
	}
	return &env, true
}

func readAddress(dec *tokenDecoder) (*imap.Address, bool) {
	var (
		addr     imap.Address
		name     string
		obsRoute string
	)
	ok := dec.ExpectNString(&name) &&
		dec.ExpectNString(&obsRoute) &&
		dec.ExpectNString(&addr.Mailbox) &&
		dec.ExpectNString(&addr.Host) &&
		dec.ExpectEnd()
	if !ok {
		return nil, false
	}
	addr.Name = decodeText(name)
	return &addr, true
}

// Fetch sends a FETCH command, or UID FETCH if numSet is an imap.UIDSet.
//
// Items are fetch attributes sent verbatim, e.g. "FLAGS" or
// "BODY.PEEK[HEADER.FIELDS (SUBJECT)]". The FETCH responses are returned in
// the order the server sent them.
func (c *Client) Fetch(numSet imap.NumSet, items ...string) ([]*FetchData, error) {
	list := make(imapwire.List, len(items))
	for i, item := range items {
		list[i] = imapwire.Raw(item)
	}
	untagged, _, err := c.execute(uidCmdName("FETCH", numSet), imapwire.NumSet{Set: numSet}, list)
	if err != nil {
		return nil, err
	}
	return readAll(untagged, "FETCH", ReadFetch)
}
