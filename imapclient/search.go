package imapclient

import (
	"strings"

	"github.com/emersion/go-imap-engine"
	"github.com/emersion/go-imap-engine/imapwire"
)

// ReadSearch decodes a SEARCH response.
//
// The matching numbers are returned in SearchData.All as an imap.SeqSet. For
// a UID SEARCH command, the numbers are UIDs. No numbers is a valid empty
// result.
func ReadSearch(resp *DataResponse) (*imap.SearchData, error) {
	if err := checkType(resp, "SEARCH"); err != nil {
		return nil, err
	}
	nums, modSeq, err := readNumList("mailbox-data", resp)
	if err != nil {
		return nil, err
	}
	return &imap.SearchData{All: imap.SeqSetNum(nums...), ModSeq: modSeq}, nil
}

// SortData is the data returned by a SORT response.
type SortData struct {
	// Nums holds the matching numbers in sort order. For a UID SORT command,
	// the numbers are UIDs.
	Nums []uint32
	// ModSeq is the highest mod-sequence of the matching messages. It's only
	// returned if the search criteria include MODSEQ (CONDSTORE).
	ModSeq uint64
}

// SearchData returns the sorted numbers as an unordered set.
func (data *SortData) SearchData() *imap.SearchData {
	return &imap.SearchData{All: imap.SeqSetNum(data.Nums...), ModSeq: data.ModSeq}
}

// ReadSort decodes a SORT response.
func ReadSort(resp *DataResponse) (*SortData, error) {
	if err := checkType(resp, "SORT"); err != nil {
		return nil, err
	}
	nums, modSeq, err := readNumList("sort-data", resp)
	if err != nil {
		return nil, err
	}
	return &SortData{Nums: nums, ModSeq: modSeq}, nil
}

// readNumList reads a list of numbers optionally followed by a
// "(MODSEQ n)" item (RFC 7162 section 3.1.5).
func readNumList(name string, resp *DataResponse) (nums []uint32, modSeq uint64, err error) {
	dec := newTokenDecoder(name, resp.Args)
	for dec.More() {
		if l, ok := dec.List("search-sort-mod-seq"); ok {
			var key string
			if !l.ExpectAtom(&key) || !l.Expect(strings.EqualFold(key, "MODSEQ"), "MODSEQ") || !l.ExpectModSeq(&modSeq) || !l.ExpectEnd() {
				return nil, 0, l.Err()
			}
			if !dec.ExpectEnd() {
				return nil, 0, dec.Err()
			}
			break
		}

		var num uint32
		if !dec.ExpectNumber(&num) {
			return nil, 0, dec.Err()
		}
		nums = append(nums, num)
	}
	return nums, modSeq, nil
}

// ReadESearch decodes an ESEARCH response.
//
// SearchData.All is an imap.UIDSet if the response has the UID indicator, an
// imap.SeqSet otherwise. Unknown return data items are skipped.
func ReadESearch(resp *DataResponse) (*imap.SearchData, error) {
	if err := checkType(resp, "ESEARCH"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("esearch-response", resp.Args)
	data := &imap.SearchData{}

	if l, ok := dec.List("search-correlator"); ok {
		var correlator string
		if !l.ExpectAtom(&correlator) || !l.ExpectString(&data.Tag) || !l.ExpectEnd() {
			return nil, l.Err()
		}
		if !strings.EqualFold(correlator, "TAG") {
			l.errorf("name must be TAG, but got %q", correlator)
			return nil, l.Err()
		}
	}

	if tok, ok := dec.Peek(); ok && tok.IsAtom("UID") {
		dec.Skip()
		data.UID = true
	}

	for dec.More() {
		var name string
		if !dec.ExpectAtom(&name) {
			return nil, dec.Err()
		}

		var ok bool
		switch strings.ToUpper(name) {
		case "MIN":
			ok = dec.ExpectNumber(&data.Min)
		case "MAX":
			ok = dec.ExpectNumber(&data.Max)
		case "COUNT":
			ok = dec.ExpectNumber(&data.Count)
		case "MODSEQ":
			ok = dec.ExpectModSeq(&data.ModSeq)
		case "ALL":
			ok = readESearchAll(dec, data)
		default:
			// search-ret-data-ext
			ok = dec.Expect(dec.Skip(), "search-return-value")
		}
		if !ok {
			return nil, dec.Err()
		}
	}
	return data, nil
}

func readESearchAll(dec *tokenDecoder, data *imap.SearchData) bool {
	var tok imapwire.Token
	if !dec.ExpectToken(&tok) {
		return false
	}
	var err error
	if data.UID {
		data.All, err = readUIDSet(tok)
	} else {
		data.All, err = readSeqSet(tok)
	}
	if err != nil {
		return dec.errorf("in ALL: %v", err)
	}
	return true
}

// Search sends a SEARCH command, or UID SEARCH if uid is true. The criteria
// are sent verbatim, e.g. "UNSEEN SINCE 1-Feb-1994".
//
// ESEARCH responses are accepted too, for servers which always send them.
func (c *Client) Search(uid bool, criteria string) (*imap.SearchData, error) {
	name := "SEARCH"
	if uid {
		name = "UID SEARCH"
	}
	untagged, _, err := c.execute(name, imapwire.Raw(criteria))
	if err != nil {
		return nil, err
	}

	data := &imap.SearchData{UID: uid}
	var all []uint32
	for _, resp := range untagged {
		dataResp, ok := resp.(*DataResponse)
		if !ok {
			continue
		}
		switch dataResp.Type {
		case "SEARCH":
			l, modSeq, err := readNumList("mailbox-data", dataResp)
			if err != nil {
				return nil, err
			}
			all = append(all, l...)
			if modSeq > data.ModSeq {
				data.ModSeq = modSeq
			}
		case "ESEARCH":
			return ReadESearch(dataResp)
		}
	}
	if uid {
		uids := make([]imap.UID, len(all))
		for i, num := range all {
			uids[i] = imap.UID(num)
		}
		data.All = imap.UIDSetNum(uids...)
	} else {
		data.All = imap.SeqSetNum(all...)
	}
	return data, nil
}

// Sort sends a SORT command, or UID SORT if uid is true. The sort criteria
// and search criteria are sent verbatim.
//
// This command requires support for the SORT extension.
func (c *Client) Sort(uid bool, sortCriteria []string, charset, searchCriteria string) (*SortData, error) {
	name := "SORT"
	if uid {
		name = "UID SORT"
	}
	keys := make(imapwire.List, len(sortCriteria))
	for i, key := range sortCriteria {
		keys[i] = imapwire.Atom(key)
	}
	untagged, _, err := c.execute(name, keys, imapwire.Atom(charset), imapwire.Raw(searchCriteria))
	if err != nil {
		return nil, err
	}

	data := &SortData{}
	l, err := readAll(untagged, "SORT", ReadSort)
	for _, sortData := range l {
		data.Nums = append(data.Nums, sortData.Nums...)
		if sortData.ModSeq > data.ModSeq {
			data.ModSeq = sortData.ModSeq
		}
	}
	return data, err
}
