package imap

import (
	"strconv"
	"strings"
)

// BodyStructure describes the body structure of a message.
//
// A BodyStructure value is either a *BodyStructureSinglePart, a
// *BodyStructureMultiPart or a *BodyStructureMessageRFC822. Parts returned by
// NewBodyStructureTree belong to a tree: they know their section and their
// parent.
type BodyStructure interface {
	// MediaType returns the MIME type of this body structure, e.g. "text/plain".
	MediaType() string
	// Section returns the IMAP section path of the part, e.g. "2.1". The root
	// of the tree has an empty section.
	Section() string
	// Parent returns the enclosing part, or nil for the root.
	Parent() BodyStructure
	// Extended returns true if the part was sent with the extension data
	// returned by FETCH BODYSTRUCTURE (as opposed to FETCH BODY).
	Extended() bool
	// Walk walks the body structure tree, calling f for each part in the tree,
	// including the part itself. The parts are visited in DFS pre-order.
	Walk(f BodyStructureWalkFunc)
	// Parts returns the part and its descendants, in DFS pre-order.
	Parts() []BodyStructure
	// Find returns the first part with the given section, in DFS pre-order,
	// among the part and its descendants.
	Find(section string) (BodyStructure, bool)
	// Disposition returns the body structure disposition, if available.
	Disposition() *BodyStructureDisposition

	node() *bodyNode
}

var (
	_ BodyStructure = (*BodyStructureSinglePart)(nil)
	_ BodyStructure = (*BodyStructureMultiPart)(nil)
	_ BodyStructure = (*BodyStructureMessageRFC822)(nil)
)

// BodyStructureWalkFunc is a function called for each body structure visited
// by BodyStructure.Walk.
//
// The function should return true to visit all of the part's children or false
// to skip them.
type BodyStructureWalkFunc func(part BodyStructure) (walkChildren bool)

// bodyTree is the arena holding the parts of a body structure. Parts are
// stored in DFS pre-order, so the descendants of the part at index i are
// stored at [i+1, ends[i]).
type bodyTree struct {
	parts    []BodyStructure
	parents  []int // -1 for the root
	sections []string
	ends     []int
}

type bodyNode struct {
	tree *bodyTree
	id   int
}

func (n *bodyNode) node() *bodyNode {
	return n
}

func (n *bodyNode) Section() string {
	if n.tree == nil {
		return ""
	}
	return n.tree.sections[n.id]
}

func (n *bodyNode) Parent() BodyStructure {
	if n.tree == nil {
		return nil
	}
	p := n.tree.parents[n.id]
	if p < 0 {
		return nil
	}
	return n.tree.parts[p]
}

func (n *bodyNode) Walk(f BodyStructureWalkFunc) {
	if n.tree == nil {
		return
	}
	end := n.tree.ends[n.id]
	for i := n.id; i < end; {
		if f(n.tree.parts[i]) {
			i++
		} else {
			i = n.tree.ends[i]
		}
	}
}

func (n *bodyNode) Parts() []BodyStructure {
	if n.tree == nil {
		return nil
	}
	parts := n.tree.parts[n.id:n.tree.ends[n.id]]
	l := make([]BodyStructure, len(parts))
	copy(l, parts)
	return l
}

func (n *bodyNode) Find(section string) (BodyStructure, bool) {
	if n.tree == nil {
		return nil, false
	}
	for i := n.id; i < n.tree.ends[n.id]; i++ {
		if n.tree.sections[i] == section {
			return n.tree.parts[i], true
		}
	}
	return nil, false
}

// NewBodyStructureTree indexes a body structure built from nested parts: it
// numbers sections and records parents. It returns root.
//
// The body of a message/rfc822 part at section S is numbered S if it is a
// multipart, S.1 otherwise (RFC 3501 section 6.4.5).
func NewBodyStructureTree(root BodyStructure) BodyStructure {
	tree := new(bodyTree)
	tree.add(root, -1, "")
	return root
}

func (tree *bodyTree) add(part BodyStructure, parent int, section string) {
	id := len(tree.parts)
	tree.parts = append(tree.parts, part)
	tree.parents = append(tree.parents, parent)
	tree.sections = append(tree.sections, section)
	tree.ends = append(tree.ends, 0)

	n := part.node()
	n.tree = tree
	n.id = id

	switch part := part.(type) {
	case *BodyStructureMultiPart:
		for i, child := range part.Children {
			tree.add(child, id, childSection(section, i+1))
		}
	case *BodyStructureMessageRFC822:
		if part.Body != nil {
			s := section
			if _, ok := part.Body.(*BodyStructureMultiPart); !ok {
				s = childSection(section, 1)
			}
			tree.add(part.Body, id, s)
		}
	}

	tree.ends[id] = len(tree.parts)
}

func childSection(parent string, num int) string {
	if parent == "" {
		return strconv.Itoa(num)
	}
	return parent + "." + strconv.Itoa(num)
}

// BodyStructureFields contains the fields shared by non-multipart parts.
type BodyStructureFields struct {
	Type, Subtype string
	Params        Params
	ID            string
	Description   string
	Encoding      string
	Size          uint32
}

func (f *BodyStructureFields) mediaType() string {
	return strings.ToLower(f.Type) + "/" + strings.ToLower(f.Subtype)
}

// BodyStructureSinglePart is a body structure with a single part.
type BodyStructureSinglePart struct {
	bodyNode
	BodyStructureFields

	Text *BodyStructureText // only for "text/*"
	Ext  *BodyStructureSinglePartExt
}

func (bs *BodyStructureSinglePart) MediaType() string {
	return bs.mediaType()
}

func (bs *BodyStructureSinglePart) Extended() bool {
	return bs.Ext != nil
}

func (bs *BodyStructureSinglePart) Disposition() *BodyStructureDisposition {
	if bs.Ext == nil {
		return nil
	}
	return bs.Ext.Disposition
}

// Filename returns the body structure's filename, if any.
func (bs *BodyStructureSinglePart) Filename() string {
	return filename(bs.Params, bs.Ext)
}

func filename(params Params, ext *BodyStructureSinglePartExt) string {
	var name string
	if ext != nil && ext.Disposition != nil {
		name, _ = ext.Disposition.Params.Get("filename")
	}
	if name == "" {
		// Note: using "name" in Content-Type is discouraged
		name, _ = params.Get("name")
	}
	return name
}

// BodyStructureMessageRFC822 is a message/rfc822 part: it encapsulates a
// whole message, with its own envelope and body structure.
type BodyStructureMessageRFC822 struct {
	bodyNode
	BodyStructureFields

	Envelope *Envelope
	Body     BodyStructure
	NumLines int64

	Ext *BodyStructureSinglePartExt
}

func (bs *BodyStructureMessageRFC822) MediaType() string {
	return bs.mediaType()
}

func (bs *BodyStructureMessageRFC822) Extended() bool {
	return bs.Ext != nil
}

func (bs *BodyStructureMessageRFC822) Disposition() *BodyStructureDisposition {
	if bs.Ext == nil {
		return nil
	}
	return bs.Ext.Disposition
}

// Filename returns the body structure's filename, if any.
func (bs *BodyStructureMessageRFC822) Filename() string {
	return filename(bs.Params, bs.Ext)
}

type BodyStructureText struct {
	NumLines int64
}

type BodyStructureSinglePartExt struct {
	MD5         string
	Disposition *BodyStructureDisposition
	Language    []string
	Location    string
}

// BodyStructureMultiPart is a body structure with multiple parts.
type BodyStructureMultiPart struct {
	bodyNode

	Children []BodyStructure
	Subtype  string

	Ext *BodyStructureMultiPartExt
}

func (bs *BodyStructureMultiPart) MediaType() string {
	return "multipart/" + strings.ToLower(bs.Subtype)
}

func (bs *BodyStructureMultiPart) Extended() bool {
	return bs.Ext != nil
}

func (bs *BodyStructureMultiPart) Disposition() *BodyStructureDisposition {
	if bs.Ext == nil {
		return nil
	}
	return bs.Ext.Disposition
}

type BodyStructureMultiPartExt struct {
	Params      Params
	Disposition *BodyStructureDisposition
	Language    []string
	Location    string
}

type BodyStructureDisposition struct {
	Value  string
	Params Params
}

// Param is a MIME parameter.
type Param struct {
	Key, Value string
}

// Params is an ordered list of MIME parameters, in wire order.
type Params []Param

// Get returns the value of the first parameter named key. The comparison is
// case-insensitive.
func (params Params) Get(key string) (string, bool) {
	for _, p := range params {
		if strings.EqualFold(p.Key, key) {
			return p.Value, true
		}
	}
	return "", false
}

// Map returns the parameters as a map with lower-case keys. If a key is
// repeated, the first value wins.
func (params Params) Map() map[string]string {
	m := make(map[string]string, len(params))
	for _, p := range params {
		k := strings.ToLower(p.Key)
		if _, ok := m[k]; !ok {
			m[k] = p.Value
		}
	}
	return m
}
