// Package imapwire implements the IMAP wire grammar: a resumable response
// parser which turns received bytes into tokens, and a command encoder which
// pauses at synchronizing literals.
//
// Neither the parser nor the encoder performs I/O on their own initiative:
// the caller feeds received bytes and supplies the writer, and decides when
// to block. The IMAP wire protocol is defined in RFC 3501 section 4 and
// section 9.
package imapwire

import (
	"errors"
	"unicode"
)

var (
	// ErrNeedMore is returned by Parser.Next when the buffered bytes don't
	// contain a complete line yet.
	ErrNeedMore = errors.New("imapwire: need more data")
	// ErrWaitContinuation is returned by CommandEncoder.Encode when a
	// synchronizing literal header has been written: the server must send a
	// continuation request before the encoder can proceed.
	ErrWaitContinuation = errors.New("imapwire: waiting for continuation request")
)

// IsAtomChar returns true if ch is an ATOM-CHAR.
func IsAtomChar(ch byte) bool {
	switch ch {
	case '(', ')', '{', ' ', '%', '*', '"', '\\', ']':
		return false
	default:
		return !unicode.IsControl(rune(ch))
	}
}

func isASCIIAtom(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if ch := s[i]; ch > unicode.MaxASCII || !IsAtomChar(ch) {
			return false
		}
	}
	return true
}

// isValidFlag checks whether the provided string satisfies
// flag-keyword / flag-extension.
func isValidFlag(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' {
			if i != 0 {
				return false
			}
		} else {
			if !IsAtomChar(ch) {
				return false
			}
		}
	}
	return len(s) > 0
}
