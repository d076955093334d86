package imapclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-imap-engine"
)

func decodeOne(t *testing.T, s string) Response {
	t.Helper()
	dec := NewDecoder(nil)
	dec.Feed([]byte(s))
	resp, err := dec.Next()
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, s string) *DataResponse {
	t.Helper()
	resp := decodeOne(t, s)
	data, ok := resp.(*DataResponse)
	require.Truef(t, ok, "expected *DataResponse, got %T", resp)
	return data
}

func TestDecoder_responseKinds(t *testing.T) {
	dec := NewDecoder(nil)
	dec.Feed([]byte("* OK [UIDNEXT 4392] Predicted next UID\r\n" +
		"* 18 EXISTS\r\n" +
		"+ Ready for literal data\r\n" +
		"A142 NO [TRYCREATE] Mailbox doesn't exist\r\n"))

	resp, err := dec.Next()
	require.NoError(t, err)
	status, ok := resp.(*UntaggedStatusResponse)
	require.True(t, ok)
	assert.Equal(t, imap.StatusResponseTypeOK, status.Status)
	uidNext, ok := status.UIDNext()
	assert.True(t, ok)
	assert.Equal(t, imap.UID(4392), uidNext)
	assert.Equal(t, "Predicted next UID", status.Text)

	resp, err = dec.Next()
	require.NoError(t, err)
	data, ok := resp.(*DataResponse)
	require.True(t, ok)
	assert.Equal(t, "EXISTS", data.Type)
	assert.True(t, data.HasNum)
	num, err := ReadNum(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(18), num)

	resp, err = dec.Next()
	require.NoError(t, err)
	cont, ok := resp.(*ContinuationResponse)
	require.True(t, ok)
	assert.Equal(t, "Ready for literal data", cont.Text)

	resp, err = dec.Next()
	require.NoError(t, err)
	tagged, ok := resp.(*TaggedResponse)
	require.True(t, ok)
	assert.Equal(t, "A142", tagged.Tag)
	assert.Equal(t, imap.ResponseCodeTryCreate, tagged.Code)

	var imapErr *imap.Error
	require.True(t, errors.As(tagged.Err(), &imapErr))
	assert.Equal(t, imap.StatusResponseTypeNo, imapErr.Type)

	_, err = dec.Next()
	assert.Equal(t, ErrNeedMore, err)
}

func TestDecoder_byteByByte(t *testing.T) {
	raw := "* 12 FETCH (BODY[HEADER] {11}\r\nSubject: a\n FLAGS (\\Seen))\r\n"

	dec := NewDecoder(nil)
	var resp Response
	for i := 0; i < len(raw); i++ {
		dec.Feed([]byte{raw[i]})
		r, err := dec.Next()
		if err == ErrNeedMore {
			continue
		}
		require.NoError(t, err)
		require.Equal(t, len(raw)-1, i, "response returned before the end of the input")
		resp = r
	}
	require.NotNil(t, resp)

	data, err := ReadFetch(resp.(*DataResponse))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), data.SeqNum)
	assert.Equal(t, []imap.Flag{imap.FlagSeen}, data.Flags)
	header, err := data.BodySection("HEADER")
	require.NoError(t, err)
	assert.Equal(t, "Subject: a\n", string(header))
}

func TestDecoder_malformed(t *testing.T) {
	dec := NewDecoder(nil)
	dec.Feed([]byte("* 2 FETCH (FLAGS (\\Seen) X \"a\x01\")\r\n* 3 EXISTS\r\n"))

	_, err := dec.Next()
	assert.True(t, errors.Is(err, imap.ErrMalformed))

	// The next line is still decoded
	data, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "EXISTS", data.(*DataResponse).Type)
}

func TestDecoder_malformedCode(t *testing.T) {
	dec := NewDecoder(nil)
	dec.Feed([]byte("* OK [UIDNEXT abc] Oops\r\n"))

	resp, err := dec.Next()
	require.NoError(t, err)
	status, ok := resp.(*UntaggedStatusResponse)
	require.True(t, ok)
	assert.True(t, errors.Is(status.CodeErr(), imap.ErrMalformed))
	assert.Equal(t, "Oops", status.Text)
}

// A literal announced by a malformed line belongs to that line: its payload
// must not be decoded as responses.
func TestDecoder_malformedLineWithLiteral(t *testing.T) {
	dec := NewDecoder(nil)
	dec.Feed([]byte("* 1 FETCH (X \"a\tb\" BODY[] {27}\r\nHi\r\nT5 OK fake completion\r\n)\r\nT5 NO real\r\n"))

	_, err := dec.Next()
	require.True(t, errors.Is(err, imap.ErrMalformed))

	resp, err := dec.Next()
	require.NoError(t, err)
	tagged, ok := resp.(*TaggedResponse)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, "T5", tagged.Tag)
	assert.Equal(t, imap.StatusResponseTypeNo, tagged.Status)
	assert.Equal(t, "real", tagged.Text)

	_, err = dec.Next()
	assert.Equal(t, ErrNeedMore, err)
}

func TestDecoder_invalidTagged(t *testing.T) {
	dec := NewDecoder(nil)
	dec.Feed([]byte("A1 FOO bar\r\n"))
	_, err := dec.Next()
	assert.True(t, errors.Is(err, imap.ErrMalformed))
}

func TestReadList(t *testing.T) {
	data, err := ReadList(decodeData(t, `* LIST (\Noselect) "/" ~/Mail/foo`+"\r\n"))
	require.NoError(t, err)
	assert.True(t, data.Attrs.Has(imap.MailboxAttrNoSelect))
	assert.Equal(t, 1, data.Attrs.Len())
	assert.Equal(t, '/', data.Delim)
	assert.Equal(t, "~/Mail/foo", data.Mailbox)
	assert.Nil(t, data.ChildInfo)

	attrs := data.Attrs.Attrs()
	attrs[0] = imap.MailboxAttrMarked
	assert.True(t, data.Attrs.Has(imap.MailboxAttrNoSelect))
	assert.False(t, data.Attrs.Has(imap.MailboxAttrMarked))
	assert.Equal(t, []imap.MailboxAttr{imap.MailboxAttrNoSelect}, data.Attrs.Attrs())
}

func TestReadList_extended(t *testing.T) {
	raw := `* LIST (\HasChildren \NOSELECT \X-Custom) NIL "Entw&APw-rfe" ("CHILDINFO" ("SUBSCRIBED") "OLDNAME" ("Old") "X-UNKNOWN" 42)` + "\r\n"
	data, err := ReadList(decodeData(t, raw))
	require.NoError(t, err)
	assert.True(t, data.Attrs.Has(imap.MailboxAttrHasChildren))
	assert.True(t, data.Attrs.Has(imap.MailboxAttrNoSelect))
	assert.True(t, data.Attrs.Has(imap.MailboxAttr(`\X-Custom`)))
	assert.Equal(t, rune(0), data.Delim)
	assert.Equal(t, "Entw&APw-rfe", data.Mailbox)
	assert.Equal(t, "Entwürfe", data.DecodedMailbox())
	require.NotNil(t, data.ChildInfo)
	assert.True(t, data.ChildInfo.Subscribed)
	assert.Equal(t, "Old", data.OldName)
}

func TestReadList_invalidDelim(t *testing.T) {
	_, err := ReadList(decodeData(t, `* LIST () "ab" INBOX`+"\r\n"))
	assert.True(t, errors.Is(err, imap.ErrMalformed))
}

func TestReadStatus(t *testing.T) {
	data, err := ReadStatus(decodeData(t, "* STATUS blurdybloop (MESSAGES 231 UIDNEXT 44292 APPENDLIMIT NIL HIGHESTMODSEQ 7011231777 X-FOO 3)\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "blurdybloop", data.Mailbox)
	require.NotNil(t, data.NumMessages)
	assert.Equal(t, uint32(231), *data.NumMessages)
	require.NotNil(t, data.UIDNext)
	assert.Equal(t, imap.UID(44292), *data.UIDNext)
	assert.Nil(t, data.AppendLimit)
	require.NotNil(t, data.HighestModSeq)
	assert.Equal(t, uint64(7011231777), *data.HighestModSeq)
	assert.Nil(t, data.NumUnseen)
}

func TestReadNum(t *testing.T) {
	_, err := ReadNum(decodeData(t, "* 0 EXPUNGE\r\n"))
	assert.True(t, errors.Is(err, imap.ErrMalformed))

	_, err = ReadNum(decodeData(t, "* FLAGS ()\r\n"))
	assert.True(t, errors.Is(err, imap.ErrArgument))
}
