package imap

// ThreadAlgorithm is a threading algorithm.
type ThreadAlgorithm string

const (
	ThreadOrderedSubject ThreadAlgorithm = "ORDEREDSUBJECT"
	ThreadReferences     ThreadAlgorithm = "REFERENCES"
)

// ThreadNode is a node of a thread tree returned by the THREAD command.
//
// Children are kept in wire order. A node with Num == 0 is a placeholder for
// a missing parent: the server returned a thread whose first element is a
// nested list.
type ThreadNode struct {
	Num      uint32
	Children []ThreadNode
}

// Walk visits the node and its descendants in depth-first order, parents
// before children. Placeholder nodes are visited too.
func (node *ThreadNode) Walk(f func(node *ThreadNode)) {
	f(node)
	for i := range node.Children {
		node.Children[i].Walk(f)
	}
}

// WalkThreads visits all nodes of a thread forest in depth-first order.
func WalkThreads(threads []ThreadNode, f func(node *ThreadNode)) {
	for i := range threads {
		threads[i].Walk(f)
	}
}
