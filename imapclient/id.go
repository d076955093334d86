package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadID decodes an ID response. It returns nil if the server sent NIL.
func ReadID(resp *DataResponse) (*imap.IDData, error) {
	if err := checkType(resp, "ID"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("id-response", resp.Args)
	l, ok := dec.ExpectNList("id-params-list")
	if !ok || !dec.ExpectEnd() {
		return nil, dec.Err()
	}
	if l == nil {
		return nil, nil
	}

	var data imap.IDData
	for l.More() {
		var key, value string
		if !l.ExpectString(&key) || !l.ExpectNString(&value) {
			return nil, l.Err()
		}
		data.Set(key, value)
	}
	return &data, nil
}

// ID sends an ID command with the client's identification. It returns the
// server's identification, nil if the server didn't send any.
//
// This command requires support for the ID extension.
func (c *Client) ID(data *imap.IDData) (*imap.IDData, error) {
	var arg imapwire.Arg = imapwire.NIL
	if data != nil {
		arg = idParams(data)
	}
	untagged, _, err := c.execute("ID", arg)
	if err != nil {
		return nil, err
	}
	l, err := readAll(untagged, "ID", ReadID)
	if err != nil || len(l) == 0 {
		return nil, err
	}
	return l[0], nil
}

func idParams(data *imap.IDData) imapwire.List {
	var list imapwire.List
	add := func(key, value string) {
		if value != "" {
			list = append(list, imapwire.Quoted(key), imapwire.String(value))
		}
	}
	add("name", data.Name)
	add("version", data.Version)
	add("os", data.OS)
	add("os-version", data.OSVersion)
	add("vendor", data.Vendor)
	add("support-url", data.SupportURL)
	add("address", data.Address)
	add("date", data.Date)
	add("command", data.Command)
	add("arguments", data.Arguments)
	add("environment", data.Environment)
	for key, value := range data.Other {
		add(key, value)
	}
	if list == nil {
		list = imapwire.List{}
	}
	return list
}
