package imapclient

import (
	"fmt"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// Store sends a STORE command, or UID STORE if numSet is an imap.UIDSet.
//
// Unless StoreFlags.Silent is set, the server will return the updated values
// as FETCH responses. Messages rejected because of UNCHANGEDSINCE are
// reported via the MODIFIED response code of the tagged response.
//
// A nil options pointer is equivalent to a zero options value.
func (c *Client) Store(numSet imap.NumSet, store *imap.StoreFlags, options *imap.StoreOptions) ([]*FetchData, *TaggedResponse, error) {
	args := []imapwire.Arg{imapwire.NumSet{Set: numSet}}
	if options != nil && options.UnchangedSince != 0 {
		args = append(args, imapwire.List{
			imapwire.Atom("UNCHANGEDSINCE"),
			imapwire.Raw(fmt.Sprint(options.UnchangedSince)),
		})
	}

	var item string
	switch store.Op {
	case imap.StoreFlagsSet:
		item = "FLAGS"
	case imap.StoreFlagsAdd:
		item = "+FLAGS"
	case imap.StoreFlagsDel:
		item = "-FLAGS"
	default:
		return nil, nil, &imap.ArgumentError{Name: "store flags op", Value: fmt.Sprint(store.Op)}
	}
	if store.Silent {
		item += ".SILENT"
	}

	flags := make(imapwire.List, len(store.Flags))
	for i, flag := range store.Flags {
		flags[i] = imapwire.Flag(flag)
	}
	args = append(args, imapwire.Atom(item), flags)

	untagged, tagged, err := c.execute(uidCmdName("STORE", numSet), args...)
	if err != nil {
		return nil, tagged, err
	}
	msgs, err := readAll(untagged, "FETCH", ReadFetch)
	return msgs, tagged, err
}
