package internal

import (
	"encoding/base64"
)

// EncodeSASL encodes a SASL response in base64. An empty response is encoded
// as "=" (RFC 4959).
func EncodeSASL(b []byte) string {
	if len(b) == 0 {
		return "="
	}
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeSASL decodes a base64 SASL challenge.
func DecodeSASL(s string) ([]byte, error) {
	if s == "=" || s == "" {
		// go-sasl treats nil as no challenge, so return a non-nil empty slice
		return []byte{}, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
