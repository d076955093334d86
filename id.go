package imap

import (
	"strings"
)

// IDData is the data returned by the ID response (RFC 2971).
//
// Well-known fields are decoded into named fields. A nil IDData means the
// server returned NIL.
type IDData struct {
	Name        string
	Version     string
	OS          string
	OSVersion   string
	Vendor      string
	SupportURL  string
	Address     string
	Date        string
	Command     string
	Arguments   string
	Environment string

	// Other contains the fields not listed above, keyed by lower-case name.
	Other map[string]string
}

// Set stores a field. Field names are case-insensitive. A NIL value should be
// stored as an empty string.
func (data *IDData) Set(key, value string) {
	switch strings.ToLower(key) {
	case "name":
		data.Name = value
	case "version":
		data.Version = value
	case "os":
		data.OS = value
	case "os-version":
		data.OSVersion = value
	case "vendor":
		data.Vendor = value
	case "support-url":
		data.SupportURL = value
	case "address":
		data.Address = value
	case "date":
		data.Date = value
	case "command":
		data.Command = value
	case "arguments":
		data.Arguments = value
	case "environment":
		data.Environment = value
	default:
		if data.Other == nil {
			data.Other = make(map[string]string)
		}
		data.Other[strings.ToLower(key)] = value
	}
}
