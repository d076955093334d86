package imap

// SearchData is the data returned by a SEARCH, SORT or ESEARCH response.
//
// For SEARCH and SORT, All holds the matching numbers. SORT order is not
// preserved by All, see imapclient.SortData for the ordered list.
type SearchData struct {
	All NumSet

	// requires ESEARCH or IMAP4rev2
	Tag   string // correlator of the command which produced the result
	UID   bool
	Min   uint32
	Max   uint32
	Count uint32

	// requires CONDSTORE
	ModSeq uint64
}

// IsEmpty returns true if no message matched.
func (data *SearchData) IsEmpty() bool {
	if data.All != nil && !data.All.IsEmpty() {
		return false
	}
	return data.Count == 0 && data.Min == 0 && data.Max == 0
}

// AllSeqNums returns All as a slice of sequence numbers.
func (data *SearchData) AllSeqNums() []uint32 {
	seqSet, ok := data.All.(SeqSet)
	if !ok {
		return nil
	}
	// Note: a dynamic sequence set would be a server bug
	nums, _ := seqSet.Nums()
	return nums
}

// AllUIDs returns All as a slice of UIDs.
func (data *SearchData) AllUIDs() []UID {
	uidSet, ok := data.All.(UIDSet)
	if !ok {
		return nil
	}
	// Note: a dynamic sequence set would be a server bug
	uids, _ := uidSet.Nums()
	return uids
}
