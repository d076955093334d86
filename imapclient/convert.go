package imapclient

import (
	"github.com/emersion/go-imap-engine"
)

func checkType(resp *DataResponse, types ...string) error {
	for _, typ := range types {
		if resp.Type == typ {
			return nil
		}
	}
	return &imap.ArgumentError{Name: "response type", Value: resp.Type}
}

// requiredCaps lists the capabilities a server must advertise before sending
// a response type. Any of the listed capabilities is enough.
var requiredCaps = map[string][]imap.Cap{
	"ENABLED":    {imap.CapEnable},
	"XLIST":      {imap.CapXList},
	"SORT":       {imap.CapSort},
	"NAMESPACE":  {imap.CapNamespace},
	"ID":         {imap.CapID},
	"ESEARCH":    {imap.CapESearch},
	"QUOTA":      {imap.CapQuota},
	"QUOTAROOT":  {imap.CapQuota},
	"LANGUAGE":   {imap.CapLanguage},
	"COMPARATOR": {imap.CapI18NLevel2},
	"METADATA":   {imap.CapMetadata, imap.CapMetadataSrv},
	"MYRIGHTS":   {imap.CapACL},
	"ACL":        {imap.CapACL},
}

// CheckCaps checks that the server advertised the capability required by a
// data response. A nil capability set disables the check.
func CheckCaps(resp *DataResponse, caps imap.CapSet) error {
	if caps == nil {
		return nil
	}
	if resp.Type == "THREAD" {
		if !caps.HasThread() {
			return &imap.IncapableError{Cap: imap.CapThreadPrefix + "*", Op: "THREAD response"}
		}
		return nil
	}
	required, ok := requiredCaps[resp.Type]
	if !ok {
		return nil
	}
	for _, c := range required {
		if caps.Has(c) {
			return nil
		}
	}
	return &imap.IncapableError{Cap: required[0], Op: resp.Type + " response"}
}

// Convert decodes a data response into a typed value. The type of the value
// depends on the response type:
//
//   - CAPABILITY: imap.CapSet
//   - ENABLED: *imap.EnabledData
//   - LIST, LSUB, XLIST: *imap.ListData
//   - STATUS: *imap.StatusData
//   - SEARCH: *imap.SearchData
//   - SORT: *SortData
//   - ESEARCH: *imap.SearchData
//   - THREAD: []imap.ThreadNode
//   - FLAGS: []imap.Flag
//   - EXISTS, RECENT, EXPUNGE: uint32
//   - FETCH: *FetchData
//   - NAMESPACE: *imap.NamespaceData
//   - ID: *imap.IDData
//   - QUOTA: *imap.QuotaData
//   - QUOTAROOT: *imap.QuotaRootData
//   - LANGUAGE: *imap.LanguageData
//   - COMPARATOR: *imap.ComparatorData
//   - METADATA: *imap.MetadataData
//   - MYRIGHTS: *imap.MyRightsData
//   - ACL: *imap.ACLData
//
// Other response types are returned unchanged. If caps is non-nil, an
// *imap.IncapableError is returned for responses which require a capability
// missing from caps.
func Convert(resp *DataResponse, caps imap.CapSet) (interface{}, error) {
	if err := CheckCaps(resp, caps); err != nil {
		return nil, err
	}

	switch resp.Type {
	case "CAPABILITY":
		return ReadCapability(resp)
	case "ENABLED":
		return ReadEnabled(resp)
	case "LIST", "LSUB", "XLIST":
		return ReadList(resp)
	case "STATUS":
		return ReadStatus(resp)
	case "SEARCH":
		return ReadSearch(resp)
	case "SORT":
		return ReadSort(resp)
	case "ESEARCH":
		return ReadESearch(resp)
	case "THREAD":
		return ReadThread(resp)
	case "FLAGS":
		return ReadFlags(resp)
	case "EXISTS", "RECENT", "EXPUNGE":
		return ReadNum(resp)
	case "FETCH":
		return ReadFetch(resp)
	case "NAMESPACE":
		return ReadNamespace(resp)
	case "ID":
		return ReadID(resp)
	case "QUOTA":
		return ReadQuota(resp)
	case "QUOTAROOT":
		return ReadQuotaRoot(resp)
	case "LANGUAGE":
		return ReadLanguage(resp)
	case "COMPARATOR":
		return ReadComparator(resp)
	case "METADATA":
		return ReadMetadata(resp)
	case "MYRIGHTS":
		return ReadMyRights(resp)
	case "ACL":
		return ReadACL(resp)
	default:
		return resp, nil
	}
}
