package imapclient

import (
	"strings"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadQuota decodes a QUOTA response.
func ReadQuota(resp *DataResponse) (*imap.QuotaData, error) {
	if err := checkType(resp, "QUOTA"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("quota-response", resp.Args)
	data := imap.QuotaData{Resources: make(map[imap.QuotaResourceType]imap.QuotaResourceData)}
	if !dec.ExpectString(&data.Root) {
		return nil, dec.Err()
	}
	l, ok := dec.ExpectList("quota-list")
	if !ok || !dec.ExpectEnd() {
		return nil, dec.Err()
	}
	for l.More() {
		var (
			name string
			res  imap.QuotaResourceData
		)
		if !l.ExpectAtom(&name) || !l.ExpectNumber64(&res.Usage) || !l.ExpectNumber64(&res.Limit) {
			return nil, l.Err()
		}
		data.Resources[imap.QuotaResourceType(strings.ToUpper(name))] = res
	}
	return &data, nil
}

// ReadQuotaRoot decodes a QUOTAROOT response. A mailbox without quota roots
// has an empty list of roots.
func ReadQuotaRoot(resp *DataResponse) (*imap.QuotaRootData, error) {
	if err := checkType(resp, "QUOTAROOT"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("quotaroot-response", resp.Args)
	data := imap.QuotaRootData{Roots: []string{}}
	if !dec.ExpectMailbox(&data.Mailbox) {
		return nil, dec.Err()
	}
	for dec.More() {
		var root string
		if !dec.ExpectString(&root) {
			return nil, dec.Err()
		}
		data.Roots = append(data.Roots, root)
	}
	return &data, nil
}

// GetQuota sends a GETQUOTA command.
//
// This command requires support for the QUOTA extension.
func (c *Client) GetQuota(root string) (*imap.QuotaData, error) {
	untagged, _, err := c.execute("GETQUOTA", imapwire.String(root))
	if err != nil {
		return nil, err
	}
	l, err := readAll(untagged, "QUOTA", ReadQuota)
	if err != nil {
		return nil, err
	}
	for _, data := range l {
		if data.Root == root {
			return data, nil
		}
	}
	return nil, &imap.MalformedError{Msg: "missing QUOTA response"}
}

// GetQuotaRoot sends a GETQUOTAROOT command. The quota roots of the mailbox
// are returned along with their quotas.
//
// This command requires support for the QUOTA extension.
func (c *Client) GetQuotaRoot(mailbox string) (*imap.QuotaRootData, []*imap.QuotaData, error) {
	untagged, _, err := c.execute("GETQUOTAROOT", imapwire.Mailbox(mailbox))
	if err != nil {
		return nil, nil, err
	}
	roots, err := readAll(untagged, "QUOTAROOT", ReadQuotaRoot)
	if err != nil {
		return nil, nil, err
	}
	quotas, err := readAll(untagged, "QUOTA", ReadQuota)
	if err != nil {
		return nil, nil, err
	}
	root := &imap.QuotaRootData{Mailbox: mailbox, Roots: []string{}}
	if len(roots) > 0 {
		root = roots[0]
	}
	return root, quotas, nil
}
