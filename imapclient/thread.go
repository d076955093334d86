package imapclient

import (
	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadThread decodes a THREAD response into a forest of threads, in wire
// order.
//
// A thread starts with a chain of numbers, each being the parent of the next
// one. The nested threads following the chain are children of its last
// element. A thread made only of nested threads gets a placeholder root with
// Num set to zero.
func ReadThread(resp *DataResponse) ([]imap.ThreadNode, error) {
	if err := checkType(resp, "THREAD"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("thread-data", resp.Args)
	threads := make([]imap.ThreadNode, 0, len(resp.Args))
	for dec.More() {
		l, ok := dec.ExpectList("thread-list")
		if !ok {
			return nil, dec.Err()
		}
		node, ok := readThreadList(l)
		if !ok {
			return nil, l.Err()
		}
		threads = append(threads, node)
	}
	return threads, nil
}

func readThreadList(dec *tokenDecoder) (imap.ThreadNode, bool) {
	var chain []uint32
	for {
		var num uint32
		if !dec.Number(&num) {
			break
		}
		chain = append(chain, num)
	}

	var children []imap.ThreadNode
	for dec.More() {
		l, ok := dec.ExpectList("thread-list")
		if !ok {
			return imap.ThreadNode{}, false
		}
		child, ok := readThreadList(l)
		if !ok {
			dec.ExpectChild(l)
			return imap.ThreadNode{}, false
		}
		children = append(children, child)
	}

	if len(chain) == 0 {
		if len(children) == 0 {
			return imap.ThreadNode{}, dec.errorf("empty thread")
		}
		return imap.ThreadNode{Children: children}, true
	}

	node := imap.ThreadNode{Num: chain[len(chain)-1], Children: children}
	for i := len(chain) - 2; i >= 0; i-- {
		node = imap.ThreadNode{Num: chain[i], Children: []imap.ThreadNode{node}}
	}
	return node, true
}

// Thread sends a THREAD command, or UID THREAD if uid is true. The search
// criteria are sent verbatim.
//
// This command requires support for the THREAD extension.
func (c *Client) Thread(uid bool, algorithm imap.ThreadAlgorithm, charset, searchCriteria string) ([]imap.ThreadNode, error) {
	name := "THREAD"
	if uid {
		name = "UID THREAD"
	}
	untagged, _, err := c.execute(name, imapwire.Atom(algorithm), imapwire.Atom(charset), imapwire.Raw(searchCriteria))
	if err != nil {
		return nil, err
	}

	var threads []imap.ThreadNode
	l, err := readAll(untagged, "THREAD", ReadThread)
	for _, t := range l {
		threads = append(threads, t...)
	}
	return threads, err
}
