package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadMyRights decodes a MYRIGHTS response.
func ReadMyRights(resp *DataResponse) (*imap.MyRightsData, error) {
	if err := checkType(resp, "MYRIGHTS"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("myrights-response", resp.Args)
	var (
		data   imap.MyRightsData
		rights string
	)
	if !dec.ExpectMailbox(&data.Mailbox) || !dec.ExpectString(&rights) || !dec.ExpectEnd() {
		return nil, dec.Err()
	}
	rs, err := imap.ParseRightSet(rights)
	if err != nil {
		dec.errorf("%v", err)
		return nil, dec.Err()
	}
	data.Rights = rs
	return &data, nil
}

// ReadACL decodes an ACL response.
func ReadACL(resp *DataResponse) (*imap.ACLData, error) {
	if err := checkType(resp, "ACL"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("acl-data", resp.Args)
	data := &imap.ACLData{Rights: make(map[imap.RightsIdentifier]imap.RightSet)}
	if !dec.ExpectMailbox(&data.Mailbox) {
		return nil, dec.Err()
	}
	for dec.More() {
		var id, rights string
		if !dec.ExpectString(&id) || !dec.ExpectString(&rights) {
			return nil, dec.Err()
		}
		rs, err := imap.ParseRightSet(rights)
		if err != nil {
			dec.errorf("%v", err)
			return nil, dec.Err()
		}
		data.Rights[imap.RightsIdentifier(id)] = rs
	}
	return data, nil
}

// MyRights sends a MYRIGHTS command.
//
// This command requires support for the ACL extension.
func (c *Client) MyRights(mailbox string) (*imap.MyRightsData, error) {
	untagged, _, err := c.execute("MYRIGHTS", imapwire.Mailbox(mailbox))
	if err != nil {
		return nil, err
	}
	l, err := readAll(untagged, "MYRIGHTS", ReadMyRights)
	if err != nil {
		return nil, err
	} else if len(l) == 0 {
		return nil, &imap.MalformedError{Msg: "missing MYRIGHTS response"}
	}
	return l[0], nil
}

// GetACL sends a GETACL command.
//
// This command requires support for the ACL extension.
func (c *Client) GetACL(mailbox string) (*imap.ACLData, error) {
	untagged, _, err := c.execute("GETACL", imapwire.Mailbox(mailbox))
	if err != nil {
		return nil, err
	}
	l, err := readAll(untagged, "ACL", ReadACL)
	if err != nil {
		return nil, err
	} else if len(l) == 0 {
		return nil, &imap.MalformedError{Msg: "missing ACL response"}
	}
	return l[0], nil
}

// SetACL sends a SETACL command.
//
// This command requires support for the ACL extension.
func (c *Client) SetACL(mailbox string, ri imap.RightsIdentifier, rm imap.RightModification, rs imap.RightSet) error {
	rights := string(rs)
	if rm != imap.RightModificationReplace {
		rights = string(rm) + rights
	}
	_, _, err := c.execute("SETACL", imapwire.Mailbox(mailbox), imapwire.String(ri), imapwire.String(rights))
	return err
}
