package imap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cst             = time.FixedZone("", -6*60*60)
	wantDateTime    = time.Date(2009, time.November, 2, 23, 0, 0, 0, cst)
	wantDateTimeSec = time.Date(2009, time.November, 2, 23, 0, 42, 0, cst)
	wantDate        = time.Date(2009, time.November, 2, 0, 0, 0, 0, time.UTC)
)

func TestMessageDateTimeLayouts(t *testing.T) {
	require.Len(t, messageDateTimeLayouts, 48)
	assert.Equal(t, MessageDateTimeLayout, messageDateTimeLayouts[0])

	seen := make(map[string]bool)
	for _, layout := range messageDateTimeLayouts {
		assert.False(t, seen[layout], "duplicate layout %q", layout)
		seen[layout] = true
	}
}

func TestParseMessageDateTime(t *testing.T) {
	for _, in := range []string{
		"2 Nov 2009 23:00 -0600",
		"02 Nov 09 23:00 -0600",
		"Mon, 2 Nov 2009 23:00:00 -0600",
		"Mon, 02 Nov 2009 23:00:00 -0600 (CST)",
		" 2 Nov 2009 23:00 -0600 ",
		"Mon,  2 Nov 2009 23:00:00 -0600",
	} {
		got, err := ParseMessageDateTime(in)
		if assert.NoError(t, err, in) {
			assert.True(t, got.Equal(wantDateTime), "ParseMessageDateTime(%q) = %v", in, got)
		}
	}

	got, err := ParseMessageDateTime("Mon, 2 Nov 2009 23:00:42 -0600")
	require.NoError(t, err)
	assert.True(t, got.Equal(wantDateTimeSec))

	for _, in := range []string{
		"",
		"abc10 Nov 2009 23:00 -0600123",
		"10.Nov.2009 11:00:00 -9900",
		"2009-11-02T23:00:00-06:00",
	} {
		_, err := ParseMessageDateTime(in)
		assert.Error(t, err, in)
	}
}

func TestParseDateTime(t *testing.T) {
	for _, in := range []string{
		"02-Nov-2009 23:00:42 -0600",
		" 2-Nov-2009 23:00:42 -0600",
		"2-Nov-2009 23:00:42 -0600",
	} {
		got, err := ParseDateTime(in)
		if assert.NoError(t, err, in) {
			assert.True(t, got.Equal(wantDateTimeSec), "ParseDateTime(%q) = %v", in, got)
		}
	}

	for _, in := range []string{"02-Nov-2009", "02-Nov-2009 23:00 -0600", "2-Foo-2009 23:00:42 -0600"} {
		_, err := ParseDateTime(in)
		assert.Error(t, err, in)
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2-Nov-2009", "02-Nov-2009", " 2-Nov-2009"} {
		got, err := ParseDate(in)
		if assert.NoError(t, err, in) {
			assert.True(t, got.Equal(wantDate), "ParseDate(%q) = %v", in, got)
		}
	}

	_, err := ParseDate("2009-11-02")
	assert.Error(t, err)
}
