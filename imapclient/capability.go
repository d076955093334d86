package imapclient

import (
	"github.com/emersion/go-imap-engine"
)

// ReadCapability decodes a CAPABILITY response.
func ReadCapability(resp *DataResponse) (imap.CapSet, error) {
	if err := checkType(resp, "CAPABILITY"); err != nil {
		return nil, err
	}
	return readCapabilities(resp.Args)
}

// ReadEnabled decodes an ENABLED response.
func ReadEnabled(resp *DataResponse) (*imap.EnabledData, error) {
	if err := checkType(resp, "ENABLED"); err != nil {
		return nil, err
	}
	caps, err := readCapabilities(resp.Args)
	if err != nil {
		return nil, err
	}
	return &imap.EnabledData{Caps: caps}, nil
}
