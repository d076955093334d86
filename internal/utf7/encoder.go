package utf7

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

type encoder struct{}

func (e *encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for i := 0; i < len(src); {
		var b []byte
		if ch := src[i]; min <= ch && ch <= max {
			b = []byte{ch}
			if ch == '&' {
				b = append(b, '-')
			}
			i++
		} else {
			start := i
			// Find the next printable ASCII code point
			for i++; i < len(src) && (src[i] < min || src[i] > max); i++ {
			}
			if !atEOF && i == len(src) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			b = encodeBase64(src[start:i])
		}

		if nDst+len(b) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], b)
		nSrc = i
	}
	return nDst, nSrc, nil
}

func (e *encoder) Reset() {}

// encodeBase64 converts UTF-8 to UTF-16BE, encodes the result as base64
// without padding and adds the UTF-7 shift characters.
func encodeBase64(s []byte) []byte {
	u := make([]byte, 0, 2*len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRune(s)
		s = s[size:]
		if r1, r2 := utf16.EncodeRune(r); r1 != repl {
			u = append(u, byte(r1>>8), byte(r1))
			r = r2
		}
		u = append(u, byte(r>>8), byte(r))
	}

	out := make([]byte, 0, b64Enc.EncodedLen(len(u))+2)
	out = append(out, '&')
	encoded := make([]byte, b64Enc.EncodedLen(len(u)))
	b64Enc.Encode(encoded, u)
	for len(encoded) > 0 && encoded[len(encoded)-1] == '=' {
		encoded = encoded[:len(encoded)-1]
	}
	out = append(out, encoded...)
	return append(out, '-')
}
