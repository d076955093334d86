package imap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeqSet(t *testing.T) {
	set, err := ParseSeqSet("5,1:3,10:*")
	require.NoError(t, err)
	assert.Equal(t, "1:3,5,10:*", set.String())
	_, ok := set.Nums()
	assert.False(t, ok)

	for _, s := range []string{"", "0", "1:0", "1,,2", "a:b", ":3"} {
		_, err := ParseSeqSet(s)
		var argErr *ArgumentError
		require.Truef(t, errors.As(err, &argErr), "ParseSeqSet(%q) = %v", s, err)
		assert.True(t, errors.Is(err, ErrArgument))
		assert.Equal(t, "sequence set", argErr.Name)
		assert.Equal(t, s, argErr.Value)
	}
}

func TestParseUIDSet(t *testing.T) {
	set, err := ParseUIDSet("304,319:320")
	require.NoError(t, err)
	uids, ok := set.Nums()
	require.True(t, ok)
	assert.Equal(t, []UID{304, 319, 320}, uids)

	for _, s := range []string{"", "1:0", "4294967296"} {
		_, err := ParseUIDSet(s)
		assert.Truef(t, errors.Is(err, ErrArgument), "ParseUIDSet(%q) = %v", s, err)
	}
}
