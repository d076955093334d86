package imapclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ResponseText is the text of a status response or continuation request: an
// optional bracketed response code followed by human-readable text.
//
// Known response codes are decoded when the response is read, their values
// are available via the accessors below. Unknown codes are kept as-is in
// Code and Args. So are known codes with invalid arguments: CodeErr reports
// those.
type ResponseText struct {
	// Code is empty if there is no response code.
	Code imap.ResponseCode
	Args []imapwire.Token
	Text string

	codeErr   error
	num       uint64
	flags     []imap.Flag
	caps      imap.CapSet
	appendUID *imap.AppendUIDData
	copyUID   *imap.CopyUIDData
	strs      []string
	referrals []*url.URL
	modified  string
	metadata  imap.MetadataCode
}

// newResponseText decodes the response code of a line. The response is never
// dropped because of its code: a tagged response must still complete its
// command.
func newResponseText(line *imapwire.Line) ResponseText {
	rt := ResponseText{Text: line.Text}
	if !line.HasCode {
		return rt
	}
	name, ok := line.Code[0].Atom()
	if !ok {
		rt.Args = line.Code
		rt.codeErr = &imap.MalformedError{Raw: imapwire.FormatTokens(line.Code), Msg: "invalid response code name"}
		return rt
	}
	rt.Code = imap.CanonicalResponseCode(name)
	rt.Args = line.Code[1:]
	if err := rt.decode(); err != nil {
		return ResponseText{Code: rt.Code, Args: rt.Args, Text: rt.Text, codeErr: err}
	}
	return rt
}

// CodeErr returns an *imap.MalformedError if the response code is known but
// its arguments are invalid. The accessors for the code report no value in
// that case.
func (rt *ResponseText) CodeErr() error {
	return rt.codeErr
}

func (rt *ResponseText) malformed(msg string) error {
	raw := string(rt.Code)
	if len(rt.Args) > 0 {
		raw += " " + imapwire.FormatTokens(rt.Args)
	}
	return &imap.MalformedError{Raw: raw, Msg: fmt.Sprintf("in response code %v: %v", rt.Code, msg)}
}

func (rt *ResponseText) decode() error {
	args := rt.Args
	switch rt.Code {
	case imap.ResponseCodeUIDNext, imap.ResponseCodeUIDValidity, imap.ResponseCodeUnseen:
		if len(args) != 1 {
			return rt.malformed("expected a number")
		}
		n, ok := args[0].Number()
		if !ok {
			return rt.malformed("expected a number")
		}
		rt.num = uint64(n)
	case imap.ResponseCodeHighestModSeq:
		if len(args) != 1 {
			return rt.malformed("expected a mod-sequence")
		}
		n, ok := args[0].ModSeq()
		if !ok {
			return rt.malformed("expected a mod-sequence")
		}
		rt.num = n
	case imap.ResponseCodePermanentFlags:
		if len(args) != 1 || !args[0].IsList() {
			return rt.malformed("expected a flag list")
		}
		flags, err := readFlagList(args[0])
		if err != nil {
			return rt.malformed(err.Error())
		}
		rt.flags = flags
	case imap.ResponseCodeCapability:
		caps, err := readCapabilities(args)
		if err != nil {
			return rt.malformed(err.Error())
		}
		rt.caps = caps
	case imap.ResponseCodeAppendUID:
		if len(args) != 2 {
			return rt.malformed("expected UID validity and UID set")
		}
		uidValidity, ok := args[0].Number()
		if !ok {
			return rt.malformed("invalid UID validity")
		}
		uids, err := readUIDSet(args[1])
		if err != nil {
			return rt.malformed(err.Error())
		}
		rt.appendUID = &imap.AppendUIDData{UIDValidity: uidValidity, UIDs: uids}
	case imap.ResponseCodeCopyUID:
		if len(args) != 3 {
			return rt.malformed("expected UID validity and two UID sets")
		}
		uidValidity, ok := args[0].Number()
		if !ok {
			return rt.malformed("invalid UID validity")
		}
		srcUIDs, err := readUIDSet(args[1])
		if err != nil {
			return rt.malformed(err.Error())
		}
		dstUIDs, err := readUIDSet(args[2])
		if err != nil {
			return rt.malformed(err.Error())
		}
		rt.copyUID = &imap.CopyUIDData{UIDValidity: uidValidity, SourceUIDs: srcUIDs, DestUIDs: dstUIDs}
	case imap.ResponseCodeBadCharset:
		// The charset list is optional
		if len(args) == 0 {
			rt.strs = []string{}
			break
		}
		if len(args) != 1 || !args[0].IsList() {
			return rt.malformed("expected a charset list")
		}
		rt.strs = make([]string, 0, len(args[0].List))
		for _, tok := range args[0].List {
			s, ok := tok.Str()
			if !ok {
				return rt.malformed("invalid charset")
			}
			rt.strs = append(rt.strs, s)
		}
	case imap.ResponseCodeReferral:
		var raw []string
		for _, tok := range args {
			s, ok := tok.Str()
			if !ok {
				return rt.malformed("invalid URL")
			}
			raw = append(raw, strings.Fields(s)...)
		}
		if len(raw) == 0 {
			return rt.malformed("expected at least one URL")
		}
		for _, s := range raw {
			u, err := url.Parse(s)
			if err != nil {
				return rt.malformed(err.Error())
			}
			rt.referrals = append(rt.referrals, u)
		}
	case imap.ResponseCodeModified:
		if len(args) != 1 {
			return rt.malformed("expected a sequence set")
		}
		s, ok := args[0].Atom()
		if !ok {
			return rt.malformed("expected a sequence set")
		}
		if _, err := imap.ParseSeqSet(s); err != nil {
			return rt.malformed(err.Error())
		}
		rt.modified = s
	case imap.ResponseCodeMetadata:
		if len(args) == 0 {
			return rt.malformed("expected an argument")
		}
		name, ok := args[0].Atom()
		if !ok {
			return rt.malformed("invalid argument")
		}
		rt.metadata = imap.MetadataCode(strings.ToUpper(name))
		switch rt.metadata {
		case imap.MetadataCodeLongEntries, imap.MetadataCodeMaxSize:
			if len(args) != 2 {
				return rt.malformed("expected a number")
			}
			n, ok := args[1].Number()
			if !ok {
				return rt.malformed("expected a number")
			}
			rt.num = uint64(n)
		}
	case imap.ResponseCodeUndefinedFilter:
		if len(args) != 1 {
			return rt.malformed("expected a filter name")
		}
		s, ok := args[0].Str()
		if !ok {
			return rt.malformed("expected a filter name")
		}
		rt.strs = []string{s}
	}
	return nil
}

// has reports whether the response code is code and was decoded.
func (rt *ResponseText) has(code imap.ResponseCode) bool {
	return rt.codeErr == nil && rt.Code == code
}

// UIDNext returns the argument of an UIDNEXT response code.
func (rt *ResponseText) UIDNext() (imap.UID, bool) {
	return imap.UID(rt.num), rt.has(imap.ResponseCodeUIDNext)
}

// UIDValidity returns the argument of an UIDVALIDITY response code.
func (rt *ResponseText) UIDValidity() (uint32, bool) {
	return uint32(rt.num), rt.has(imap.ResponseCodeUIDValidity)
}

// Unseen returns the argument of an UNSEEN response code: the sequence number
// of the first unseen message.
func (rt *ResponseText) Unseen() (uint32, bool) {
	return uint32(rt.num), rt.has(imap.ResponseCodeUnseen)
}

// HighestModSeq returns the argument of an HIGHESTMODSEQ response code.
func (rt *ResponseText) HighestModSeq() (uint64, bool) {
	return rt.num, rt.has(imap.ResponseCodeHighestModSeq)
}

// PermanentFlags returns the argument of a PERMANENTFLAGS response code.
func (rt *ResponseText) PermanentFlags() ([]imap.Flag, bool) {
	return rt.flags, rt.has(imap.ResponseCodePermanentFlags)
}

// Capabilities returns the argument of a CAPABILITY response code.
func (rt *ResponseText) Capabilities() (imap.CapSet, bool) {
	return rt.caps, rt.has(imap.ResponseCodeCapability)
}

// AppendUID returns the argument of an APPENDUID response code.
func (rt *ResponseText) AppendUID() (*imap.AppendUIDData, bool) {
	return rt.appendUID, rt.has(imap.ResponseCodeAppendUID)
}

// CopyUID returns the argument of a COPYUID response code.
func (rt *ResponseText) CopyUID() (*imap.CopyUIDData, bool) {
	return rt.copyUID, rt.has(imap.ResponseCodeCopyUID)
}

// BadCharsets returns the charsets listed by a BADCHARSET response code. The
// list may be empty.
func (rt *ResponseText) BadCharsets() ([]string, bool) {
	if !rt.has(imap.ResponseCodeBadCharset) {
		return nil, false
	}
	return rt.strs, true
}

// Referrals returns the URLs of a REFERRAL response code.
func (rt *ResponseText) Referrals() ([]*url.URL, bool) {
	return rt.referrals, rt.has(imap.ResponseCodeReferral)
}

// Modified returns the argument of a MODIFIED response code. The set contains
// sequence numbers, or UIDs if the response completes a UID command: use
// ModifiedUIDs in the latter case.
func (rt *ResponseText) Modified() (imap.SeqSet, bool) {
	if !rt.has(imap.ResponseCodeModified) {
		return nil, false
	}
	set, _ := imap.ParseSeqSet(rt.modified)
	return set, true
}

// ModifiedUIDs returns the argument of a MODIFIED response code as a UID set.
func (rt *ResponseText) ModifiedUIDs() (imap.UIDSet, bool) {
	if !rt.has(imap.ResponseCodeModified) {
		return nil, false
	}
	set, _ := imap.ParseUIDSet(rt.modified)
	return set, true
}

// MetadataCode returns the argument of a METADATA response code.
func (rt *ResponseText) MetadataCode() (imap.MetadataCode, bool) {
	return rt.metadata, rt.has(imap.ResponseCodeMetadata)
}

// MetadataLongEntries returns the size of the largest entry value which
// wasn't returned, for a METADATA LONGENTRIES response code.
func (rt *ResponseText) MetadataLongEntries() (uint32, bool) {
	ok := rt.has(imap.ResponseCodeMetadata) && rt.metadata == imap.MetadataCodeLongEntries
	return uint32(rt.num), ok
}

// MetadataMaxSize returns the maximum entry value size accepted by the
// server, for a METADATA MAXSIZE response code.
func (rt *ResponseText) MetadataMaxSize() (uint32, bool) {
	ok := rt.has(imap.ResponseCodeMetadata) && rt.metadata == imap.MetadataCodeMaxSize
	return uint32(rt.num), ok
}

// UndefinedFilter returns the filter name of an UNDEFINED-FILTER response
// code.
func (rt *ResponseText) UndefinedFilter() (string, bool) {
	if !rt.has(imap.ResponseCodeUndefinedFilter) || len(rt.strs) == 0 {
		return "", false
	}
	return rt.strs[0], true
}
