package imapclient

import (
	"github.com/emersion/go-imap-engine/imapwire"
)

// Create sends a CREATE command.
func (c *Client) Create(mailbox string) error {
	_, _, err := c.execute("CREATE", imapwire.Mailbox(mailbox))
	return err
}

// Delete sends a DELETE command.
func (c *Client) Delete(mailbox string) error {
	_, _, err := c.execute("DELETE", imapwire.Mailbox(mailbox))
	return err
}

// Rename sends a RENAME command.
func (c *Client) Rename(mailbox, newName string) error {
	_, _, err := c.execute("RENAME", imapwire.Mailbox(mailbox), imapwire.Mailbox(newName))
	return err
}

// Subscribe sends a SUBSCRIBE command.
func (c *Client) Subscribe(mailbox string) error {
	_, _, err := c.execute("SUBSCRIBE", imapwire.Mailbox(mailbox))
	return err
}

// Unsubscribe sends an UNSUBSCRIBE command.
func (c *Client) Unsubscribe(mailbox string) error {
	_, _, err := c.execute("UNSUBSCRIBE", imapwire.Mailbox(mailbox))
	return err
}
