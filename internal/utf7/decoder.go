package utf7

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

type decoder struct {
	// ascii is false right after a base64 segment: two consecutive base64
	// segments are forbidden.
	ascii bool
}

func (d *decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if ch < min || ch > max {
			return nDst, nSrc, ErrInvalidUTF7
		}

		if ch != '&' {
			if nDst+1 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = ch
			nDst++
			nSrc++
			d.ascii = true
			continue
		}

		// Find the end of the base64 or "&-" segment
		start := i + 1
		for i++; i < len(src) && src[i] != '-'; i++ {
			// the base64 package ignores CR and LF
			if src[i] == '\r' || src[i] == '\n' {
				return nDst, nSrc, ErrInvalidUTF7
			}
		}
		if i == len(src) {
			if atEOF {
				return nDst, nSrc, ErrInvalidUTF7 // implicit shift
			}
			return nDst, nSrc, transform.ErrShortSrc
		}

		var b []byte
		if i == start {
			b = []byte{'&'}
			d.ascii = true
		} else {
			if !d.ascii {
				return nDst, nSrc, ErrInvalidUTF7
			}
			b = decodeBase64(src[start:i])
			d.ascii = false
		}
		if len(b) == 0 {
			return nDst, nSrc, ErrInvalidUTF7
		}

		if nDst+len(b) > len(dst) {
			d.ascii = true
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], b)
		nSrc = i + 1
	}

	if atEOF {
		d.ascii = true
	}
	return nDst, nSrc, nil
}

func (d *decoder) Reset() {
	d.ascii = true
}

// decodeBase64 extracts UTF-16BE code units from unpadded base64 data and
// converts them to UTF-8. It returns nil if the data is invalid.
func decodeBase64(s []byte) []byte {
	if s[len(s)-1] == '=' {
		return nil // padding must be stripped
	}
	padded := make([]byte, 0, len(s)+3)
	padded = append(padded, s...)
	for len(padded)%4 != 0 {
		padded = append(padded, '=')
	}

	b := make([]byte, b64Enc.DecodedLen(len(padded)))
	n, err := b64Enc.Decode(b, padded)
	if err != nil || n%2 == 1 {
		return nil
	}
	b = b[:n]

	out := make([]byte, 0, n*3/2)
	for i := 0; i < n; i += 2 {
		r := rune(b[i])<<8 | rune(b[i+1])
		if utf16.IsSurrogate(r) {
			if i += 2; i == n {
				return nil
			}
			r2 := rune(b[i])<<8 | rune(b[i+1])
			if r = utf16.DecodeRune(r, r2); r == repl {
				return nil
			}
		} else if min <= r && r <= max {
			// printable ASCII must not be base64-encoded
			return nil
		}
		out = utf8.AppendRune(out, r)
	}
	return out
}
