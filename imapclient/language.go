package imapclient

import (
	"github.com/emersion/go-imap-engine"
)

// ReadLanguage decodes a LANGUAGE response. The tags are either sent as a
// single list or as separate arguments, both forms are accepted.
func ReadLanguage(resp *DataResponse) (*imap.LanguageData, error) {
	if err := checkType(resp, "LANGUAGE"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("language-data", resp.Args)
	if len(resp.Args) == 1 && resp.Args[0].IsList() {
		dec, _ = dec.List("language-data")
	}

	var data imap.LanguageData
	for dec.More() {
		var tag string
		if !dec.ExpectString(&tag) {
			return nil, dec.Err()
		}
		data.Tags = append(data.Tags, tag)
	}
	if len(data.Tags) == 0 {
		return nil, malformedTokens(resp.Args, "in language-data: expected at least one language")
	}
	return &data, nil
}

// ReadComparator decodes a COMPARATOR response.
func ReadComparator(resp *DataResponse) (*imap.ComparatorData, error) {
	if err := checkType(resp, "COMPARATOR"); err != nil {
		return nil, err
	}

	dec := newTokenDecoder("comparator-data", resp.Args)
	var data imap.ComparatorData
	if !dec.ExpectString(&data.Active) {
		return nil, dec.Err()
	}
	if dec.More() {
		l, ok := dec.ExpectList("comparator-matching")
		if !ok || !dec.ExpectEnd() {
			return nil, dec.Err()
		}
		for l.More() {
			var name string
			if !l.ExpectString(&name) {
				return nil, l.Err()
			}
			data.Matching = append(data.Matching, name)
		}
	}
	return &data, nil
}
