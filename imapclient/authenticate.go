package imapclient

import (
	"fmt"

	"github.com/emersion/go-sasl"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
	"github.com/emersion/go-imap-engine/internal"
)

// Authenticate sends an AUTHENTICATE command and runs the SASL exchange.
//
// The initial response is sent along with the command if the server
// advertises SASL-IR. If the SASL client fails, the exchange is cancelled and
// the client error is returned.
func (c *Client) Authenticate(saslClient sasl.Client) error {
	mech, initialResp, err := saslClient.Start()
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	cmd := &imapwire.Command{
		Name: "AUTHENTICATE",
		Args: []imapwire.Arg{imapwire.Atom(mech)},
	}
	if initialResp != nil && c.caps.Has(imap.CapSASLIR) {
		cmd.Args = append(cmd.Args, imapwire.Atom(internal.EncodeSASL(initialResp)))
		initialResp = nil
	}

	var untagged []Response
	tag, tagged, err := c.send(cmd, &untagged)
	if err != nil {
		return err
	} else if tagged != nil {
		return tagged.Err()
	}

	var saslErr error
	_, err = c.waitTagged(tag, &untagged, func(resp *ContinuationResponse) error {
		if saslErr != nil {
			// Already cancelled
			return nil
		}

		if resp.Text == "" && initialResp != nil {
			b := initialResp
			initialResp = nil
			return c.sendContinuation(imapwire.Raw(internal.EncodeSASL(b)))
		}

		challenge, err := internal.DecodeSASL(resp.Text)
		if err != nil {
			saslErr = fmt.Errorf("imapclient: invalid SASL challenge: %w", err)
			return c.sendContinuation(imapwire.Raw("*"))
		}
		b, err := saslClient.Next(challenge)
		if err != nil {
			saslErr = err
			return c.sendContinuation(imapwire.Raw("*"))
		}
		return c.sendContinuation(imapwire.Raw(internal.EncodeSASL(b)))
	})
	if saslErr != nil {
		return saslErr
	}
	return err
}
