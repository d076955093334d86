package imap

// NamespaceData is the data returned by the NAMESPACE command.
//
// A nil slice means the server returned NIL for that class of namespaces.
type NamespaceData struct {
	Personal []NamespaceDescriptor
	Other    []NamespaceDescriptor
	Shared   []NamespaceDescriptor
}

// NamespaceDescriptor describes a namespace.
type NamespaceDescriptor struct {
	Prefix string
	Delim  rune

	// Extensions maps namespace response extension names to their values
	// (RFC 2342 section 6).
	Extensions map[string][]string
}
