package internal

import (
	"compress/flate"
	"io"
	"net"
)

// DeflateConn is a connection compressed with DEFLATE (RFC 4978). Written
// data is buffered by the compressor until Flush is called.
type DeflateConn struct {
	net.Conn

	r io.ReadCloser
	w *flate.Writer
}

// NewDeflateConn wraps a connection. Both directions are compressed from now
// on.
func NewDeflateConn(conn net.Conn, level int) (*DeflateConn, error) {
	w, err := flate.NewWriter(conn, level)
	if err != nil {
		return nil, err
	}
	return &DeflateConn{
		Conn: conn,
		r:    flate.NewReader(conn),
		w:    w,
	}, nil
}

func (c *DeflateConn) Read(b []byte) (int, error) {
	return c.r.Read(b)
}

func (c *DeflateConn) Write(b []byte) (int, error) {
	return c.w.Write(b)
}

// Flush writes the pending compressed data with a sync flush, so that the
// peer can decompress everything written so far.
func (c *DeflateConn) Flush() error {
	return c.w.Flush()
}

// Close closes the underlying connection. The final DEFLATE block isn't
// written: the peer may not be reading anymore.
func (c *DeflateConn) Close() error {
	err := c.Conn.Close()
	c.r.Close()
	return err
}
