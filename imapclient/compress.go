package imapclient

import (
	"compress/flate"
	"fmt"

	"github.com/emersion/go-imap-engine/imapwire"
	"github.com/emersion/go-imap-engine/internal"
)

// Compress sends a COMPRESS DEFLATE command and compresses the connection
// once the server accepts it. Data written by the client is flushed after
// each command.
//
// This command requires support for the COMPRESS=DEFLATE extension.
func (c *Client) Compress() error {
	if _, _, err := c.execute("COMPRESS", imapwire.Atom("DEFLATE")); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n := c.dec.Buffered(); n > 0 {
		return fmt.Errorf("imapclient: server sent %v bytes before enabling compression", n)
	}

	conn, err := internal.NewDeflateConn(c.conn, flate.DefaultCompression)
	if err != nil {
		return err
	}
	c.setConn(conn)
	return nil
}
