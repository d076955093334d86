package imap

import (
	"sort"
	"strconv"
	"strings"
)

// Cap represents an IMAP capability.
//
// Capability names are case-insensitive.
type Cap string

// Registered capabilities.
//
// See: https://www.iana.org/assignments/imap-capabilities/
const (
	CapIMAP4rev1 Cap = "IMAP4rev1" // RFC 3501
	CapIMAP4rev2 Cap = "IMAP4rev2" // RFC 9051

	CapStartTLS      Cap = "STARTTLS"
	CapLoginDisabled Cap = "LOGINDISABLED"

	// Folded in IMAP4rev2
	CapNamespace    Cap = "NAMESPACE"     // RFC 2342
	CapUnselect     Cap = "UNSELECT"      // RFC 3691
	CapUIDPlus      Cap = "UIDPLUS"       // RFC 4315
	CapESearch      Cap = "ESEARCH"       // RFC 4731
	CapSearchRes    Cap = "SEARCHRES"     // RFC 5182
	CapEnable       Cap = "ENABLE"        // RFC 5161
	CapIdle         Cap = "IDLE"          // RFC 2177
	CapSASLIR       Cap = "SASL-IR"       // RFC 4959
	CapListExtended Cap = "LIST-EXTENDED" // RFC 5258
	CapListStatus   Cap = "LIST-STATUS"   // RFC 5819
	CapMove         Cap = "MOVE"          // RFC 6851
	CapLiteralMinus Cap = "LITERAL-"      // RFC 7888
	CapStatusSize   Cap = "STATUS=SIZE"   // RFC 8438

	CapACL         Cap = "ACL"              // RFC 4314
	CapAppendLimit Cap = "APPENDLIMIT"      // RFC 7889
	CapBinary      Cap = "BINARY"           // RFC 3516
	CapChildren    Cap = "CHILDREN"         // RFC 3348
	CapCompress    Cap = "COMPRESS=DEFLATE" // RFC 4978
	CapCondStore   Cap = "CONDSTORE"        // RFC 7162
	CapESort       Cap = "ESORT"            // RFC 5267
	CapFilters     Cap = "FILTERS"          // RFC 5466
	CapI18NLevel2  Cap = "I18NLEVEL=2"      // RFC 5255
	CapID          Cap = "ID"               // RFC 2971
	CapLanguage    Cap = "LANGUAGE"         // RFC 5255
	CapLiteralPlus Cap = "LITERAL+"         // RFC 7888
	CapMetadata    Cap = "METADATA"         // RFC 5464
	CapMetadataSrv Cap = "METADATA-SERVER"  // RFC 5464
	CapQResync     Cap = "QRESYNC"          // RFC 7162
	CapQuota       Cap = "QUOTA"            // RFC 9208
	CapSort        Cap = "SORT"             // RFC 5256
	CapSpecialUse  Cap = "SPECIAL-USE"      // RFC 6154
	CapUTF8Accept  Cap = "UTF8=ACCEPT"      // RFC 6855
	CapUTF8Only    Cap = "UTF8=ONLY"        // RFC 6855
	CapXList       Cap = "XLIST"            // Gmail
)

// CapThreadPrefix is the prefix of THREAD=<algorithm> capabilities (RFC 5256).
const CapThreadPrefix = "THREAD="

var imap4rev2Caps = CapSet{
	CapNamespace:    {},
	CapUnselect:     {},
	CapUIDPlus:      {},
	CapESearch:      {},
	CapSearchRes:    {},
	CapEnable:       {},
	CapIdle:         {},
	CapSASLIR:       {},
	CapListExtended: {},
	CapListStatus:   {},
	CapMove:         {},
	CapLiteralMinus: {},
	CapStatusSize:   {},
}.canonical()

// AuthCap returns the capability name for an SASL authentication mechanism.
func AuthCap(mechanism string) Cap {
	return Cap("AUTH=" + mechanism)
}

// CapSet is a set of capabilities.
//
// Keys are stored in upper case. Use NewCapSet or Add to populate a set.
type CapSet map[Cap]struct{}

// NewCapSet creates a capability set from capability names.
func NewCapSet(caps ...Cap) CapSet {
	set := make(CapSet, len(caps))
	for _, c := range caps {
		set.Add(c)
	}
	return set
}

func (set CapSet) canonical() CapSet {
	out := make(CapSet, len(set))
	for c := range set {
		out.Add(c)
	}
	return out
}

// Add inserts a capability in the set.
func (set CapSet) Add(c Cap) {
	set[Cap(strings.ToUpper(string(c)))] = struct{}{}
}

func (set CapSet) has(c Cap) bool {
	_, ok := set[Cap(strings.ToUpper(string(c)))]
	return ok
}

// Has checks whether a capability is supported.
//
// Some capabilities are implied by others, as such Has may return true even if
// the capability is not in the map.
func (set CapSet) Has(c Cap) bool {
	if set.has(c) {
		return true
	}

	if set.has(CapIMAP4rev2) && imap4rev2Caps.has(c) {
		return true
	}

	if strings.EqualFold(string(c), string(CapLiteralMinus)) && set.has(CapLiteralPlus) {
		return true
	}
	if strings.EqualFold(string(c), string(CapCondStore)) && set.has(CapQResync) {
		return true
	}
	if strings.EqualFold(string(c), string(CapUTF8Accept)) && set.has(CapUTF8Only) {
		return true
	}
	if strings.EqualFold(string(c), string(CapAppendLimit)) {
		_, ok := set.AppendLimit()
		return ok
	}

	return false
}

// Caps returns the capabilities in the set, sorted.
func (set CapSet) Caps() []Cap {
	l := make([]Cap, 0, len(set))
	for c := range set {
		l = append(l, c)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i] < l[j]
	})
	return l
}

// AuthMechanisms returns the list of supported SASL mechanisms for
// authentication.
func (set CapSet) AuthMechanisms() []string {
	var l []string
	for _, c := range set.Caps() {
		if !strings.HasPrefix(string(c), "AUTH=") {
			continue
		}
		l = append(l, strings.TrimPrefix(string(c), "AUTH="))
	}
	return l
}

// AppendLimit checks the APPENDLIMIT capability.
//
// If the server supports APPENDLIMIT, ok is true. If the server doesn't have
// the same upload limit for all mailboxes, limit is nil and per-mailbox
// limits must be queried via STATUS.
func (set CapSet) AppendLimit() (limit *uint32, ok bool) {
	if set.has(CapAppendLimit) {
		return nil, true
	}

	for c := range set {
		if !strings.HasPrefix(string(c), "APPENDLIMIT=") {
			continue
		}

		limitStr := strings.TrimPrefix(string(c), "APPENDLIMIT=")
		limit64, err := strconv.ParseUint(limitStr, 10, 32)
		if err == nil && limit64 > 0 {
			limit32 := uint32(limit64)
			return &limit32, true
		}
	}

	return nil, false
}

// ThreadAlgorithms returns the list of supported threading algorithms.
func (set CapSet) ThreadAlgorithms() []ThreadAlgorithm {
	var l []ThreadAlgorithm
	for _, c := range set.Caps() {
		if !strings.HasPrefix(string(c), CapThreadPrefix) {
			continue
		}
		l = append(l, ThreadAlgorithm(strings.TrimPrefix(string(c), CapThreadPrefix)))
	}
	return l
}

// HasThread returns true if the server supports at least one threading
// algorithm.
func (set CapSet) HasThread() bool {
	return len(set.ThreadAlgorithms()) > 0
}
