package imap

import (
	"fmt"
	"strings"
)

// StatusResponseType is a generic status response type.
type StatusResponseType string

const (
	StatusResponseTypeOK      StatusResponseType = "OK"
	StatusResponseTypeNo      StatusResponseType = "NO"
	StatusResponseTypeBad     StatusResponseType = "BAD"
	StatusResponseTypePreAuth StatusResponseType = "PREAUTH"
	StatusResponseTypeBye     StatusResponseType = "BYE"
)

// ParseStatusResponseType returns the status condition named by s. The
// comparison is case-insensitive.
func ParseStatusResponseType(s string) (StatusResponseType, bool) {
	switch t := StatusResponseType(strings.ToUpper(s)); t {
	case StatusResponseTypeOK, StatusResponseTypeNo, StatusResponseTypeBad, StatusResponseTypePreAuth, StatusResponseTypeBye:
		return t, true
	default:
		return "", false
	}
}

// ResponseCode is a response code.
//
// The set of codes is open: codes not listed below are preserved by name.
// Codes are kept in upper case, use Equal to compare with a code received
// from elsewhere.
type ResponseCode string

const (
	// RFC 3501
	ResponseCodeAlert          ResponseCode = "ALERT"
	ResponseCodeBadCharset     ResponseCode = "BADCHARSET"
	ResponseCodeCapability     ResponseCode = "CAPABILITY"
	ResponseCodeParse          ResponseCode = "PARSE"
	ResponseCodePermanentFlags ResponseCode = "PERMANENTFLAGS"
	ResponseCodeReadOnly       ResponseCode = "READ-ONLY"
	ResponseCodeReadWrite      ResponseCode = "READ-WRITE"
	ResponseCodeTryCreate      ResponseCode = "TRYCREATE"
	ResponseCodeUIDNext        ResponseCode = "UIDNEXT"
	ResponseCodeUIDValidity    ResponseCode = "UIDVALIDITY"
	ResponseCodeUnseen         ResponseCode = "UNSEEN"

	// RFC 2221, RFC 2193
	ResponseCodeReferral ResponseCode = "REFERRAL"

	// UIDPLUS
	ResponseCodeAppendUID    ResponseCode = "APPENDUID"
	ResponseCodeCopyUID      ResponseCode = "COPYUID"
	ResponseCodeUIDNotSticky ResponseCode = "UIDNOTSTICKY"

	// CONDSTORE
	ResponseCodeHighestModSeq ResponseCode = "HIGHESTMODSEQ"
	ResponseCodeNoModSeq      ResponseCode = "NOMODSEQ"
	ResponseCodeModified      ResponseCode = "MODIFIED"

	// RFC 5530
	ResponseCodeAlreadyExists        ResponseCode = "ALREADYEXISTS"
	ResponseCodeAuthenticationFailed ResponseCode = "AUTHENTICATIONFAILED"
	ResponseCodeAuthorizationFailed  ResponseCode = "AUTHORIZATIONFAILED"
	ResponseCodeCannot               ResponseCode = "CANNOT"
	ResponseCodeClientBug            ResponseCode = "CLIENTBUG"
	ResponseCodeContactAdmin         ResponseCode = "CONTACTADMIN"
	ResponseCodeCorruption           ResponseCode = "CORRUPTION"
	ResponseCodeExpired              ResponseCode = "EXPIRED"
	ResponseCodeExpungeIssued        ResponseCode = "EXPUNGEISSUED"
	ResponseCodeInUse                ResponseCode = "INUSE"
	ResponseCodeLimit                ResponseCode = "LIMIT"
	ResponseCodeNonExistent          ResponseCode = "NONEXISTENT"
	ResponseCodeNoPerm               ResponseCode = "NOPERM"
	ResponseCodeOverQuota            ResponseCode = "OVERQUOTA"
	ResponseCodePrivacyRequired      ResponseCode = "PRIVACYREQUIRED"
	ResponseCodeServerBug            ResponseCode = "SERVERBUG"
	ResponseCodeUnavailable          ResponseCode = "UNAVAILABLE"

	// METADATA
	ResponseCodeMetadata ResponseCode = "METADATA"

	// FILTERS
	ResponseCodeUndefinedFilter ResponseCode = "UNDEFINED-FILTER"

	ResponseCodeUnknownCTE ResponseCode = "UNKNOWN-CTE"
)

// CanonicalResponseCode returns the canonical (upper case) form of a code
// name.
func CanonicalResponseCode(name string) ResponseCode {
	return ResponseCode(strings.ToUpper(name))
}

// Equal reports whether two response codes have the same name, ignoring
// case.
func (code ResponseCode) Equal(other ResponseCode) bool {
	return strings.EqualFold(string(code), string(other))
}

// Known returns true if the code is defined by one of the RFCs supported by
// this package.
func (code ResponseCode) Known() bool {
	_, ok := knownResponseCodes[CanonicalResponseCode(string(code))]
	return ok
}

var knownResponseCodes = map[ResponseCode]struct{}{
	ResponseCodeAlert: {}, ResponseCodeBadCharset: {}, ResponseCodeCapability: {},
	ResponseCodeParse: {}, ResponseCodePermanentFlags: {}, ResponseCodeReadOnly: {},
	ResponseCodeReadWrite: {}, ResponseCodeTryCreate: {}, ResponseCodeUIDNext: {},
	ResponseCodeUIDValidity: {}, ResponseCodeUnseen: {}, ResponseCodeReferral: {},
	ResponseCodeAppendUID: {}, ResponseCodeCopyUID: {}, ResponseCodeUIDNotSticky: {},
	ResponseCodeHighestModSeq: {}, ResponseCodeNoModSeq: {}, ResponseCodeModified: {},
	ResponseCodeAlreadyExists: {}, ResponseCodeAuthenticationFailed: {},
	ResponseCodeAuthorizationFailed: {}, ResponseCodeCannot: {}, ResponseCodeClientBug: {},
	ResponseCodeContactAdmin: {}, ResponseCodeCorruption: {}, ResponseCodeExpired: {},
	ResponseCodeExpungeIssued: {}, ResponseCodeInUse: {}, ResponseCodeLimit: {},
	ResponseCodeNonExistent: {}, ResponseCodeNoPerm: {}, ResponseCodeOverQuota: {},
	ResponseCodePrivacyRequired: {}, ResponseCodeServerBug: {}, ResponseCodeUnavailable: {},
	ResponseCodeMetadata: {}, ResponseCodeUndefinedFilter: {}, ResponseCodeUnknownCTE: {},
}

// MetadataCode is the argument of a METADATA response code.
type MetadataCode string

const (
	MetadataCodeLongEntries MetadataCode = "LONGENTRIES"
	MetadataCodeMaxSize     MetadataCode = "MAXSIZE"
	MetadataCodeTooMany     MetadataCode = "TOOMANY"
	MetadataCodeNoPrivate   MetadataCode = "NOPRIVATE"
)

// StatusResponse is a generic status response.
//
// See RFC 3501 section 7.1.
type StatusResponse struct {
	Type StatusResponseType
	Code ResponseCode
	Text string
}

// Error is an IMAP error caused by a status response.
type Error StatusResponse

var _ error = (*Error)(nil)

// Error implements the error interface.
func (err *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "imap: %v", err.Type)
	if err.Code != "" {
		fmt.Fprintf(&sb, " [%v]", err.Code)
	}
	text := err.Text
	if text == "" {
		text = "<unknown>"
	}
	fmt.Fprintf(&sb, " %v", text)
	return sb.String()
}
