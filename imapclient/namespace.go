package imapclient

import (
	"github.com/emersion/go-imap-engine"
)

// ReadNamespace decodes a NAMESPACE response.
func ReadNamespace(resp *DataResponse) (*imap.NamespaceData, error) {
	if err := checkType(resp, "NAMESPACE"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("namespace-response", resp.Args)
	var data imap.NamespaceData
	for _, out := range []*[]imap.NamespaceDescriptor{&data.Personal, &data.Other, &data.Shared} {
		l, ok := dec.ExpectNList("namespace")
		if !ok {
			return nil, dec.Err()
		}
		if l == nil {
			continue
		}
		*out = []imap.NamespaceDescriptor{}
		for l.More() {
			descr, ok := l.ExpectList("namespace-descr")
			if !ok {
				return nil, l.Err()
			}
			nd, ok := readNamespaceDescr(descr)
			if !ok {
				return nil, descr.Err()
			}
			*out = append(*out, *nd)
		}
	}
	if !dec.ExpectEnd() {
		return nil, dec.Err()
	}
	return &data, nil
}

func readNamespaceDescr(dec *tokenDecoder) (*imap.NamespaceDescriptor, bool) {
	var descr imap.NamespaceDescriptor
	if !dec.ExpectString(&descr.Prefix) || !readDelim(dec, &descr.Delim) {
		return nil, false
	}

	// namespace-response-extensions
	for dec.More() {
		var name string
		if !dec.ExpectString(&name) {
			return nil, false
		}
		l, ok := dec.ExpectList("namespace-response-extension")
		if !ok {
			return nil, false
		}
		values := make([]string, 0, len(l.tokens))
		for l.More() {
			var v string
			if !l.ExpectString(&v) {
				return nil, dec.ExpectChild(l)
			}
			values = append(values, v)
		}
		if descr.Extensions == nil {
			descr.Extensions = make(map[string][]string)
		}
		descr.Extensions[name] = values
	}
	return &descr, true
}

// Namespace sends a NAMESPACE command.
//
// This command requires support for IMAP4rev2 or the NAMESPACE extension.
func (c *Client) Namespace() (*imap.NamespaceData, error) {
	untagged, _, err := c.execute("NAMESPACE")
	if err != nil {
		return nil, err
	}
	l, err := readAll(untagged, "NAMESPACE", ReadNamespace)
	if err != nil {
		return nil, err
	} else if len(l) == 0 {
		return nil, &imap.MalformedError{Msg: "missing NAMESPACE response"}
	}
	return l[0], nil
}
