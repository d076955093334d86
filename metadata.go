package imap

// MetadataData is the data returned by a METADATA response (RFC 5464).
//
// The server either returns entry values (in reply to GETMETADATA) or a list
// of entries whose value changed (unsolicited). In the former case Entries is
// populated, in the latter Changed.
type MetadataData struct {
	Mailbox string // empty for server annotations

	// Entries maps entry names to their value. A nil value means NIL.
	Entries map[string]*[]byte
	Changed []string
}
