package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadFlags decodes a FLAGS response: the flags defined in the selected
// mailbox.
func ReadFlags(resp *DataResponse) ([]imap.Flag, error) {
	if err := checkType(resp, "FLAGS"); err != nil {
		return nil, err
	}
	if len(resp.Args) != 1 {
		return nil, malformedTokens(resp.Args, "in mailbox-data: expected a flag list")
	}
	return readFlagList(resp.Args[0])
}

// ReadNum decodes an EXISTS, RECENT or EXPUNGE response. It returns the
// message count for EXISTS and RECENT, and the sequence number of the
// expunged message for EXPUNGE.
func ReadNum(resp *DataResponse) (uint32, error) {
	if err := checkType(resp, "EXISTS", "RECENT", "EXPUNGE"); err != nil {
		return 0, err
	}
	if !resp.HasNum || len(resp.Args) != 0 {
		return 0, malformedTokens(resp.Args, "in message-data: expected a number before "+resp.Type)
	}
	if resp.Type == "EXPUNGE" && resp.Num == 0 {
		return 0, malformedTokens(resp.Args, "in message-data: sequence number must be non-zero")
	}
	return resp.Num, nil
}

// SelectData is the data returned by a SELECT or EXAMINE command.
type SelectData struct {
	// Flags defined for this mailbox
	Flags []imap.Flag
	// Flags that the client can change permanently, nil if the server didn't
	// send them
	PermanentFlags []imap.Flag
	// Number of messages in this mailbox (aka. "EXISTS")
	NumMessages uint32
	NumRecent   uint32 // IMAP4rev1 only
	UIDNext     imap.UID
	UIDValidity uint32
	// Sequence number of the first unseen message, IMAP4rev1 only
	FirstUnseen uint32
	ReadOnly    bool

	HighestModSeq uint64 // requires CONDSTORE
	NoModSeq      bool   // requires CONDSTORE
}

// ReadSelect collects the data returned by a SELECT or EXAMINE command.
func ReadSelect(untagged []Response, tagged *TaggedResponse) (*SelectData, error) {
	var data SelectData
	for _, resp := range untagged {
		switch resp := resp.(type) {
		case *DataResponse:
			var err error
			switch resp.Type {
			case "FLAGS":
				data.Flags, err = ReadFlags(resp)
			case "EXISTS":
				data.NumMessages, err = ReadNum(resp)
			case "RECENT":
				data.NumRecent, err = ReadNum(resp)
			}
			if err != nil {
				return nil, err
			}
		case *UntaggedStatusResponse:
			readSelectCode(&resp.ResponseText, &data)
		}
	}
	if tagged != nil {
		readSelectCode(&tagged.ResponseText, &data)
	}
	return &data, nil
}

func readSelectCode(rt *ResponseText, data *SelectData) {
	if flags, ok := rt.PermanentFlags(); ok {
		data.PermanentFlags = flags
	}
	if uid, ok := rt.UIDNext(); ok {
		data.UIDNext = uid
	}
	if uidValidity, ok := rt.UIDValidity(); ok {
		data.UIDValidity = uidValidity
	}
	if unseen, ok := rt.Unseen(); ok {
		data.FirstUnseen = unseen
	}
	if modSeq, ok := rt.HighestModSeq(); ok {
		data.HighestModSeq = modSeq
	}
	switch rt.Code {
	case imap.ResponseCodeReadOnly:
		data.ReadOnly = true
	case imap.ResponseCodeReadWrite:
		data.ReadOnly = false
	case imap.ResponseCodeNoModSeq:
		data.NoModSeq = true
	}
}

// Select sends a SELECT command, or EXAMINE if readOnly is true.
func (c *Client) Select(mailbox string, readOnly bool) (*SelectData, error) {
	name := "SELECT"
	if readOnly {
		name = "EXAMINE"
	}
	untagged, tagged, err := c.execute(name, imapwire.Mailbox(mailbox))
	if err != nil {
		return nil, err
	}
	return ReadSelect(untagged, tagged)
}

// Unselect sends an UNSELECT command.
//
// This command requires support for IMAP4rev2 or the UNSELECT extension.
func (c *Client) Unselect() error {
	_, _, err := c.execute("UNSELECT")
	return err
}
