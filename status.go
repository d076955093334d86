package imap

// StatusItem is a data item which can be requested by a STATUS command.
type StatusItem string

const (
	StatusItemNumMessages StatusItem = "MESSAGES"
	StatusItemNumRecent   StatusItem = "RECENT" // IMAP4rev1 only
	StatusItemUIDNext     StatusItem = "UIDNEXT"
	StatusItemUIDValidity StatusItem = "UIDVALIDITY"
	StatusItemNumUnseen   StatusItem = "UNSEEN"
	StatusItemNumDeleted  StatusItem = "DELETED" // requires IMAP4rev2 or QUOTA
	StatusItemSize        StatusItem = "SIZE"    // requires IMAP4rev2 or STATUS=SIZE

	StatusItemHighestModSeq  StatusItem = "HIGHESTMODSEQ"   // requires CONDSTORE
	StatusItemAppendLimit    StatusItem = "APPENDLIMIT"     // requires APPENDLIMIT
	StatusItemDeletedStorage StatusItem = "DELETED-STORAGE" // requires QUOTA=RES-STORAGE
)

// StatusData is the data returned by a STATUS response.
//
// The mailbox name is always populated. The remaining fields are optional,
// nil means the server didn't return the item.
type StatusData struct {
	Mailbox string

	NumMessages *uint32
	NumRecent   *uint32
	UIDNext     *UID
	UIDValidity *uint32
	NumUnseen   *uint32
	NumDeleted  *uint32
	Size        *int64

	HighestModSeq  *uint64
	AppendLimit    *uint32
	DeletedStorage *int64
}

// DecodedMailbox returns the mailbox name decoded from modified UTF-7.
func (data *StatusData) DecodedMailbox() string {
	return decodeMailboxName(data.Mailbox)
}
