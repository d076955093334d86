package imapclient

import (
	"fmt"

	"github.com/emersion/go-imap-engine/imapwire"
)

// Idle sends an IDLE command.
//
// Unlike other commands, this method blocks until the server acknowledges it.
// On success, the IDLE command is running and other commands cannot be sent.
// The caller must invoke IdleCommand.Close to stop IDLE and unblock the
// client.
//
// This command requires support for IMAP4rev2 or the IDLE extension.
func (c *Client) Idle() (*IdleCommand, error) {
	c.mutex.Lock()

	var untagged []Response
	tag, tagged, err := c.send(&imapwire.Command{Name: "IDLE"}, &untagged)
	if err == nil && tagged == nil {
		tagged, err = c.waitContinuation(tag, &untagged)
	}
	if err != nil || tagged != nil {
		c.mutex.Unlock()
		if err == nil {
			err = fmt.Errorf("imapclient: server completed IDLE before accepting it")
		}
		return nil, err
	}

	return &IdleCommand{client: c, tag: tag, pending: untagged}, nil
}

// IdleCommand is an IDLE command.
//
// Initially, the IDLE command is running. The server may send unilateral
// data, which can be read with Next. The client cannot send any command while
// IDLE is running.
//
// Next and Close must not be called concurrently. To stop waiting for data,
// set a deadline on the connection.
type IdleCommand struct {
	client  *Client
	tag     string
	pending []Response
	tagged  *TaggedResponse
	closed  bool
}

// Next returns the next untagged response sent by the server.
//
// If the server terminates the command, Next returns a nil response and the
// command result.
func (cmd *IdleCommand) Next() (Response, error) {
	if cmd.closed {
		return nil, fmt.Errorf("imapclient: IDLE command closed")
	}
	if len(cmd.pending) > 0 {
		resp := cmd.pending[0]
		cmd.pending = cmd.pending[1:]
		return resp, nil
	}
	if cmd.tagged != nil {
		return nil, cmd.tagged.Err()
	}

	for {
		resp, err := cmd.client.nextResponse()
		if err != nil {
			return nil, err
		}
		switch resp := resp.(type) {
		case *TaggedResponse:
			if resp.Tag != cmd.tag {
				cmd.client.options.logger().Printf("imapclient: ignoring tagged response for unknown command %q", resp.Tag)
				continue
			}
			cmd.tagged = resp
			return nil, resp.Err()
		case *ContinuationResponse:
			cmd.client.options.logger().Printf("imapclient: ignoring unexpected continuation request")
		default:
			return resp, nil
		}
	}
}

// Close stops the IDLE command and waits for the server to complete it.
//
// The untagged responses which haven't been returned by Next yet are
// returned.
func (cmd *IdleCommand) Close() ([]Response, error) {
	if cmd.closed {
		return nil, fmt.Errorf("imapclient: IDLE command closed twice")
	}
	cmd.closed = true

	c := cmd.client
	defer c.mutex.Unlock()

	untagged := cmd.pending
	cmd.pending = nil
	if cmd.tagged != nil {
		return untagged, cmd.tagged.Err()
	}

	if err := c.sendContinuation(imapwire.Raw("DONE")); err != nil {
		return untagged, err
	}
	_, err := c.waitTagged(cmd.tag, &untagged, nil)
	return untagged, err
}
