package imapclient

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-imap-engine"
)

func readFetch(t *testing.T, raw string) *FetchData {
	t.Helper()
	data, err := ReadFetch(decodeData(t, raw))
	require.NoError(t, err)
	return data
}

func TestReadFetch_multipart(t *testing.T) {
	raw := `* 1 FETCH (BODYSTRUCTURE (("TEXT" "PLAIN" ("CHARSET" "US-ASCII") NIL NIL "7BIT" 1152 23)` +
		`("TEXT" "PLAIN" ("CHARSET" "US-ASCII" "NAME" "cc.diff") "<960723163407.20117h@cac.washington.edu>" "Compiler diff" "BASE64" 4554 73) "MIXED"))` + "\r\n"
	data := readFetch(t, raw)

	root, ok := data.BodyStructure.(*imap.BodyStructureMultiPart)
	require.True(t, ok, "expected a multipart body structure")
	assert.Equal(t, "multipart/mixed", root.MediaType())
	assert.Equal(t, "", root.Section())
	assert.Nil(t, root.Parent())
	assert.False(t, root.Extended())
	require.Len(t, root.Children, 2)

	var sections []string
	for _, part := range root.Parts() {
		sections = append(sections, part.Section())
	}
	assert.Equal(t, []string{"", "1", "2"}, sections)

	part1 := root.Children[0].(*imap.BodyStructureSinglePart)
	assert.Equal(t, "text/plain", part1.MediaType())
	assert.Equal(t, uint32(1152), part1.Size)
	require.NotNil(t, part1.Text)
	assert.Equal(t, int64(23), part1.Text.NumLines)
	assert.Equal(t, root, part1.Parent())

	part2 := root.Children[1].(*imap.BodyStructureSinglePart)
	assert.Equal(t, "2", part2.Section())
	assert.Equal(t, "cc.diff", part2.Filename())
	assert.Equal(t, "Compiler diff", part2.Description)
	assert.Equal(t, "BASE64", part2.Encoding)
	charset, ok := part2.Params.Get("charset")
	assert.True(t, ok)
	assert.Equal(t, "US-ASCII", charset)

	found, ok := root.Find("2")
	require.True(t, ok)
	assert.Equal(t, part2, found)
}

func TestReadFetch_extendedBodyStructure(t *testing.T) {
	raw := `* 2 FETCH (BODYSTRUCTURE (("TEXT" "PLAIN" ("CHARSET" "UTF-8") NIL NIL "QUOTED-PRINTABLE" 50 2 NIL NIL NIL NIL)` +
		`("APPLICATION" "PDF" ("NAME" "=?UTF-8?Q?r=C3=A9sum=C3=A9.pdf?=") NIL NIL "BASE64" 1000 NIL ("ATTACHMENT" ("FILENAME" "=?UTF-8?Q?r=C3=A9sum=C3=A9.pdf?=")) "EN" NIL)` +
		` "MIXED" ("BOUNDARY" "xyz") NIL NIL NIL))` + "\r\n"
	data := readFetch(t, raw)

	root := data.BodyStructure.(*imap.BodyStructureMultiPart)
	assert.True(t, root.Extended())
	boundary, _ := root.Ext.Params.Get("boundary")
	assert.Equal(t, "xyz", boundary)

	pdf := root.Children[1].(*imap.BodyStructureSinglePart)
	assert.True(t, pdf.Extended())
	require.NotNil(t, pdf.Disposition())
	assert.Equal(t, "ATTACHMENT", pdf.Disposition().Value)
	assert.Equal(t, "résumé.pdf", pdf.Filename())
	assert.Equal(t, []string{"EN"}, pdf.Ext.Language)
}

func TestReadFetch_messageRFC822(t *testing.T) {
	raw := `* 3 FETCH (BODY (("TEXT" "PLAIN" NIL NIL NIL "7BIT" 10 1)` +
		`("MESSAGE" "RFC822" NIL NIL NIL "7BIT" 342 ("Mon, 7 Feb 1994 21:52:25 -0800" "Test" NIL NIL NIL NIL NIL NIL NIL "<x@y>")` +
		` ("TEXT" "PLAIN" NIL NIL NIL "7BIT" 20 1) 12) "MIXED"))` + "\r\n"
	data := readFetch(t, raw)

	var (
		sections []string
		types    []string
	)
	data.BodyStructure.Walk(func(part imap.BodyStructure) bool {
		sections = append(sections, part.Section())
		types = append(types, part.MediaType())
		return true
	})
	assert.Equal(t, []string{"", "1", "2", "2.1"}, sections)
	assert.Equal(t, []string{"multipart/mixed", "text/plain", "message/rfc822", "text/plain"}, types)

	msg := data.BodyStructure.(*imap.BodyStructureMultiPart).Children[1].(*imap.BodyStructureMessageRFC822)
	assert.Equal(t, "Test", msg.Envelope.Subject)
	assert.Equal(t, "<x@y>", msg.Envelope.MessageID)
	assert.Equal(t, int64(12), msg.NumLines)
	assert.Equal(t, msg, msg.Body.Parent())
}

func TestReadFetch_attributes(t *testing.T) {
	raw := `* 12 FETCH (FLAGS (\Seen $Forwarded) INTERNALDATE "17-Jul-1996 02:44:25 -0700" RFC822.SIZE 4286 UID 42 MODSEQ (12345)` +
		` ENVELOPE ("Wed, 17 Jul 1996 02:23:25 -0700 (PDT)" "=?ISO-8859-1?Q?Caf=E9?=" (("Terry Gray" NIL "gray" "cac.washington.edu"))` +
		` NIL NIL ((NIL NIL "imap" "cac.washington.edu")) NIL NIL NIL "<B27397-0100000@cac.washington.edu>")` +
		` X-UNKNOWN (a b) BODY[]<0> {5}` + "\r\nHello RFC822.TEXT NIL)\r\n"
	data := readFetch(t, raw)

	assert.Equal(t, uint32(12), data.SeqNum)
	assert.Equal(t, imap.UID(42), data.UID)
	assert.Equal(t, []imap.Flag{imap.FlagSeen, "$Forwarded"}, data.Flags)
	assert.Equal(t, int64(4286), data.RFC822Size)
	assert.Equal(t, uint64(12345), data.ModSeq)
	assert.True(t, data.InternalDate.Equal(time.Date(1996, time.July, 17, 9, 44, 25, 0, time.UTC)))

	env := data.Envelope
	require.NotNil(t, env)
	assert.Equal(t, "Café", env.Subject)
	require.Len(t, env.From, 1)
	assert.Equal(t, "Terry Gray", env.From[0].Name)
	assert.Equal(t, "gray@cac.washington.edu", env.From[0].Addr())
	assert.Nil(t, env.Sender)
	require.Len(t, env.To, 1)
	assert.Equal(t, "imap", env.To[0].Mailbox)

	body, err := data.BodySection("")
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(body))
	sections := data.BodySections()
	require.Len(t, sections, 2)
	assert.Equal(t, "", sections[0].Label)
	assert.True(t, sections[0].Partial)
	assert.Equal(t, uint32(0), sections[0].Offset)

	text, err := data.BodySection("text")
	require.NoError(t, err)
	assert.Nil(t, text)
}

func TestReadFetch_binary(t *testing.T) {
	data := readFetch(t, "* 4 FETCH (UID 7 BINARY.SIZE[1.1] 12 BINARY[1.1] ~{3}\r\nabc)\r\n")

	size, err := data.BinarySize("1.1")
	require.NoError(t, err)
	assert.Equal(t, uint32(12), size)

	b, err := data.BinarySection("1.1")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))

	_, err = data.BinarySize("2")
	var argErr *imap.ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.True(t, errors.Is(err, imap.ErrArgument))

	_, err = data.BodySection("1.1")
	assert.True(t, errors.Is(err, imap.ErrArgument))
}

func TestReadFetch_sectionLabels(t *testing.T) {
	data := readFetch(t, "* 5 FETCH (BODY[header.fields (FROM)] {8}\r\nFrom: a\n RFC822.HEADER {4}\r\nX: y)\r\n")

	b, err := data.BodySection("HEADER.FIELDS (FROM)")
	require.NoError(t, err)
	assert.Equal(t, "From: a\n", string(b))

	b, err = data.BodySection("header")
	require.NoError(t, err)
	assert.Equal(t, "X: y", string(b))
}

func TestReadFetch_sectionLabelSpacing(t *testing.T) {
	data := readFetch(t, "* 6 FETCH (BODY[HEADER.FIELDS (FROM  TO)] {3}\r\nX: )\r\n")

	for _, label := range []string{
		"HEADER.FIELDS (FROM TO)",
		"header.fields (from  to)",
		" HEADER.FIELDS ( FROM TO ) ",
	} {
		b, err := data.BodySection(label)
		require.NoError(t, err, label)
		assert.Equal(t, "X: ", string(b), label)
	}

	_, err := data.BodySection("HEADER.FIELDS (FROMTO)")
	assert.True(t, errors.Is(err, imap.ErrArgument))
}

func TestReadFetch_malformed(t *testing.T) {
	for _, raw := range []string{
		"* 1 FETCH (UID abc)\r\n",
		"* 1 FETCH (BODYSTRUCTURE ())\r\n",
		"* 1 FETCH UID 1\r\n",
		"* FETCH (UID 1)\r\n",
		`* 1 FETCH (INTERNALDATE "yesterday")` + "\r\n",
	} {
		_, err := ReadFetch(decodeData(t, raw))
		assert.Truef(t, errors.Is(err, imap.ErrMalformed), "ReadFetch(%q) = %v", raw, err)
	}
}
