package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// Response is a response sent by the server.
//
// A Response is one of *TaggedResponse, *UntaggedStatusResponse,
// *ContinuationResponse or *DataResponse.
type Response interface {
	response()
}

var (
	_ Response = (*TaggedResponse)(nil)
	_ Response = (*UntaggedStatusResponse)(nil)
	_ Response = (*ContinuationResponse)(nil)
	_ Response = (*DataResponse)(nil)
)

// TaggedResponse is the tagged status response which completes a command.
type TaggedResponse struct {
	Tag    string
	Status imap.StatusResponseType // OK, NO or BAD
	ResponseText
}

// Err returns nil if the command succeeded, an *imap.Error otherwise.
func (resp *TaggedResponse) Err() error {
	if resp.Status == imap.StatusResponseTypeOK {
		return nil
	}
	return &imap.Error{
		Type: resp.Status,
		Code: resp.Code,
		Text: resp.Text,
	}
}

// UntaggedStatusResponse is an untagged OK, NO, BAD, PREAUTH or BYE response.
type UntaggedStatusResponse struct {
	Status imap.StatusResponseType
	ResponseText
}

// ContinuationResponse is a command continuation request. For SASL
// exchanges, Text holds the base64-encoded challenge.
type ContinuationResponse struct {
	ResponseText
}

// DataResponse is an untagged data response, e.g. "* LIST ..." or
// "* 3 EXISTS".
//
// Args holds the tokens following the response type. Use the Read functions
// or Convert to get a typed value.
type DataResponse struct {
	// Type is the response type in upper case, e.g. "LIST" or "FETCH".
	Type string
	// Num is the number preceding the response type, for EXISTS, RECENT,
	// EXPUNGE and FETCH. HasNum reports whether there was one.
	Num    uint32
	HasNum bool
	Args   []imapwire.Token
}

// responseText returns the response text of a status response or
// continuation request, nil for data responses.
func responseText(resp Response) *ResponseText {
	switch resp := resp.(type) {
	case *TaggedResponse:
		return &resp.ResponseText
	case *UntaggedStatusResponse:
		return &resp.ResponseText
	case *ContinuationResponse:
		return &resp.ResponseText
	}
	return nil
}

func (*TaggedResponse) response()         {}
func (*UntaggedStatusResponse) response() {}
func (*ContinuationResponse) response()   {}
func (*DataResponse) response()           {}
