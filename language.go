package imap

// LanguageData is the data returned by a LANGUAGE response (RFC 5255).
type LanguageData struct {
	Tags []string
}

// ComparatorData is the data returned by a COMPARATOR response (RFC 5255).
type ComparatorData struct {
	Active   string
	Matching []string // set when the client asked for several comparators
}

// EnabledData is the data returned by an ENABLED response (RFC 5161).
type EnabledData struct {
	Caps CapSet
}
