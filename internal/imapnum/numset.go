// Package imapnum implements the range-compressed number sets used for IMAP
// sequence sets and UID sets.
package imapnum

import (
	"fmt"
	"strconv"
	"strings"
)

// Num is the type of a set element: a message sequence number or a UID.
type Num interface {
	~uint32
}

// Range represents a single seq-number or seq-range value (RFC 3501 ABNF). Values
// may be static (e.g. "1", "2:4") or dynamic (e.g. "*", "1:*"). A seq-number is
// represented by setting Start = Stop. Zero is used to represent "*", which is
// safe because seq-number uses nz-number rule. The order of values is always
// Start <= Stop, except when representing "n:*", where Start = n and Stop = 0.
type Range[T Num] struct {
	Start, Stop T
}

// Contains returns true if the seq-number q is contained in range value s.
// The dynamic value "*" contains only other "*" values, the dynamic range "n:*"
// contains "*" and all numbers >= n.
func (s Range[T]) Contains(q T) bool {
	if q == 0 {
		return s.Stop == 0 // "*" is contained only in "*" and "n:*"
	}
	return s.Start != 0 && s.Start <= q && (q <= s.Stop || s.Stop == 0)
}

// Less returns true if s precedes and does not contain seq-number q.
func (s Range[T]) Less(q T) bool {
	return (s.Stop < q || q == 0) && s.Stop != 0
}

// Merge combines range values s and t into a single union if the two
// intersect or one is a superset of the other. The order of s and t does not
// matter. If the values cannot be merged, s is returned unmodified and ok is
// set to false.
func (s Range[T]) Merge(t Range[T]) (union Range[T], ok bool) {
	union = s
	if s == t {
		return s, true
	}
	if s.Start != 0 && t.Start != 0 {
		// s and t are any combination of "n", "n:m", or "n:*"
		if s.Start > t.Start {
			s, t = t, s
		}
		// s starts at or before t, check where it ends
		if (s.Stop >= t.Stop && t.Stop != 0) || s.Stop == 0 {
			return s, true // s is a superset of t
		}
		// s is "n" or "n:m", if m == ^T(0) then t is "n:*"
		if s.Stop+1 >= t.Start || s.Stop == ^T(0) {
			return Range[T]{s.Start, t.Stop}, true // s intersects or touches t
		}
		return union, false
	}
	// exactly one of s and t is "*"
	if s.Start == 0 {
		if t.Stop == 0 {
			return t, true // s is "*", t is "n:*"
		}
	} else if s.Stop == 0 {
		return s, true // s is "n:*", t is "*"
	}
	return union, false
}

// Dynamic returns true if the range contains "*".
func (s Range[T]) Dynamic() bool {
	return s.Stop == 0
}

// String returns range value s as a seq-number or seq-range string.
func (s Range[T]) String() string {
	if s.Start == s.Stop {
		if s.Start == 0 {
			return "*"
		}
		return strconv.FormatUint(uint64(s.Start), 10)
	}
	b := strconv.AppendUint(make([]byte, 0, 24), uint64(s.Start), 10)
	if s.Stop == 0 {
		return string(append(b, ':', '*'))
	}
	return string(strconv.AppendUint(append(b, ':'), uint64(s.Stop), 10))
}

func (s Range[T]) append(nums []T) (out []T, ok bool) {
	if s.Start == 0 || s.Stop == 0 {
		return nil, false
	}
	for n := uint64(s.Start); n <= uint64(s.Stop); n++ {
		nums = append(nums, T(n))
	}
	return nums, true
}

// bounds returns the range as a closed interval where "*" maps to the
// largest representable value.
func (s Range[T]) bounds() (lo, hi uint64) {
	lo, hi = uint64(s.Start), uint64(s.Stop)
	if hi == 0 {
		hi = uint64(^T(0))
	}
	if lo == 0 {
		lo = hi
	}
	return lo, hi
}

func rangeFromBounds[T Num](lo, hi uint64) Range[T] {
	if hi == uint64(^T(0)) {
		if lo == hi {
			return Range[T]{0, 0}
		}
		return Range[T]{T(lo), 0}
	}
	return Range[T]{T(lo), T(hi)}
}

// Set is used to represent a set of message sequence numbers or UIDs (see
// sequence-set ABNF rule). The zero value is an empty set.
type Set[T Num] []Range[T]

// AddNum inserts new numbers into the set. The value 0 represents "*".
func (s *Set[T]) AddNum(q ...T) {
	for _, v := range q {
		s.insert(Range[T]{v, v})
	}
}

// AddRange inserts a new range into the set.
func (s *Set[T]) AddRange(start, stop T) {
	if (stop < start && stop != 0) || start == 0 {
		s.insert(Range[T]{stop, start})
	} else {
		s.insert(Range[T]{start, stop})
	}
}

// AddSet inserts all values from t into s.
func (s *Set[T]) AddSet(t Set[T]) {
	for _, v := range t {
		s.insert(v)
	}
}

// Dynamic returns true if the set contains "*" or "n:*" values.
func (s Set[T]) Dynamic() bool {
	return len(s) > 0 && s[len(s)-1].Stop == 0
}

// IsEmpty returns true if the set has no elements.
func (s Set[T]) IsEmpty() bool {
	return len(s) == 0
}

// Len returns the number of values in a static set. ok is false if the set is
// dynamic.
func (s Set[T]) Len() (n uint64, ok bool) {
	for _, r := range s {
		if r.Start == 0 || r.Stop == 0 {
			return 0, false
		}
		n += uint64(r.Stop-r.Start) + 1
	}
	return n, true
}

// Contains returns true if the non-zero sequence number or UID q is contained
// in the set. The dynamic range "n:*" contains all q >= n. It is the caller's
// responsibility to handle the special case where q is the maximum UID in the
// mailbox and q < n (i.e. the set cannot match UIDs against "*:n" or "*" since
// it doesn't know what the maximum value is).
func (s Set[T]) Contains(q T) bool {
	if _, ok := s.search(q); ok {
		return q != 0
	}
	return false
}

// Nums returns a slice of all numbers contained in the set, in strictly
// ascending order. ok is false if the set is dynamic.
func (s Set[T]) Nums() (nums []T, ok bool) {
	for _, v := range s {
		nums, ok = v.append(nums)
		if !ok {
			return nil, false
		}
	}
	return nums, true
}

// Resolve returns a static copy of the set where "*" is replaced by max, the
// largest number currently in use in the mailbox.
func (s Set[T]) Resolve(max T) Set[T] {
	var out Set[T]
	for _, r := range s {
		start, stop := r.Start, r.Stop
		if start == 0 {
			start = max
		}
		if stop == 0 {
			stop = max
		}
		if start == 0 || stop == 0 {
			continue // empty mailbox, "*" matches nothing
		}
		out.AddRange(start, stop)
	}
	return out
}

// Intersect returns the values contained in both s and t.
func (s Set[T]) Intersect(t Set[T]) Set[T] {
	var out Set[T]
	for _, a := range s {
		alo, ahi := a.bounds()
		for _, b := range t {
			blo, bhi := b.bounds()
			lo, hi := alo, ahi
			if blo > lo {
				lo = blo
			}
			if bhi < hi {
				hi = bhi
			}
			if lo <= hi {
				out.insert(rangeFromBounds[T](lo, hi))
			}
		}
	}
	return out
}

// Difference returns the values contained in s but not in t.
func (s Set[T]) Difference(t Set[T]) Set[T] {
	var out Set[T]
	for _, a := range s {
		pending := [][2]uint64{{}}
		pending[0][0], pending[0][1] = a.bounds()
		for _, b := range t {
			blo, bhi := b.bounds()
			var next [][2]uint64
			for _, p := range pending {
				if bhi < p[0] || blo > p[1] {
					next = append(next, p)
					continue
				}
				if blo > p[0] {
					next = append(next, [2]uint64{p[0], blo - 1})
				}
				if bhi < p[1] {
					next = append(next, [2]uint64{bhi + 1, p[1]})
				}
			}
			pending = next
		}
		for _, p := range pending {
			out.insert(rangeFromBounds[T](p[0], p[1]))
		}
	}
	return out
}

// String returns a sorted representation of all contained number values.
func (s Set[T]) String() string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, 0, 64)
	for _, v := range s {
		b = append(b, ',')
		if v.Start == 0 {
			b = append(b, '*')
			continue
		}
		b = strconv.AppendUint(b, uint64(v.Start), 10)
		if v.Start != v.Stop {
			if v.Stop == 0 {
				b = append(b, ':', '*')
				continue
			}
			b = strconv.AppendUint(append(b, ':'), uint64(v.Stop), 10)
		}
	}
	return string(b[1:])
}

// insert adds range value v to the set.
func (ptr *Set[T]) insert(v Range[T]) {
	s := *ptr
	defer func() {
		*ptr = s
	}()

	i, _ := s.search(v.Start)
	merged := false
	if i > 0 {
		// try merging with the preceding entry (e.g. "1,4".insert(2), i == 1)
		s[i-1], merged = s[i-1].Merge(v)
	}
	if i == len(s) {
		// v was either merged with the last entry or needs to be appended
		if !merged {
			s.insertAt(i, v)
		}
		return
	} else if merged {
		i--
	} else if s[i], merged = s[i].Merge(v); !merged {
		s.insertAt(i, v) // insert in the middle (e.g. "1,5".insert(3), i == 1)
		return
	}
	// v was merged with s[i], continue trying to merge until the end
	for j := i + 1; j < len(s); j++ {
		if s[i], merged = s[i].Merge(s[j]); !merged {
			if j > i+1 {
				// cut out all entries between i and j that were merged
				s = append(s[:i+1], s[j:]...)
			}
			return
		}
	}
	// everything after s[i] was merged
	s = s[:i+1]
}

// insertAt inserts a new range value v at index i, resizing s.Set as needed.
func (ptr *Set[T]) insertAt(i int, v Range[T]) {
	s := *ptr
	defer func() {
		*ptr = s
	}()

	if n := len(s); i == n {
		// insert at the end
		s = append(s, v)
		return
	} else if n < cap(s) {
		// enough space, shift everything at and after i to the right
		s = s[:n+1]
		copy(s[i+1:], s[i:])
	} else {
		// allocate new slice and copy everything, n is at least 1
		set := make([]Range[T], n+1, n*2)
		copy(set, s[:i])
		copy(set[i+1:], s[i:])
		s = set
	}
	s[i] = v
}

// search attempts to find the index of the range set value that contains q.
// If no values contain q, the returned index is the position where q should be
// inserted and ok is set to false.
func (s Set[T]) search(q T) (i int, ok bool) {
	min, max := 0, len(s)-1
	for min < max {
		if mid := (min + max) >> 1; s[mid].Less(q) {
			min = mid + 1
		} else {
			max = mid
		}
	}
	if max < 0 || s[min].Less(q) {
		return len(s), false // q is the new largest value
	}
	return min, s[min].Contains(q)
}

// BadSetError is used to report problems with the format of a number set
// value.
type BadSetError string

func (err BadSetError) Error() string {
	return fmt.Sprintf("imap: bad number set value %q", string(err))
}

// parseNum parses a single seq-number value (non-zero uint32 or "*").
func parseNum[T Num](v string) (T, error) {
	if n, err := strconv.ParseUint(v, 10, 32); err == nil && v[0] != '0' {
		return T(n), nil
	} else if v == "*" {
		return 0, nil
	}
	return 0, BadSetError(v)
}

// parseNumRange creates a new seq instance by parsing strings in the format
// "n" or "n:m", where n and/or m may be "*". An error is returned for invalid
// values.
func parseNumRange[T Num](v string) (Range[T], error) {
	var (
		r   Range[T]
		err error
	)
	if v == "" {
		return r, BadSetError(v)
	}
	if sep := strings.IndexRune(v, ':'); sep < 0 {
		r.Start, err = parseNum[T](v)
		r.Stop = r.Start
		return r, err
	} else if sep == 0 || sep == len(v)-1 {
		return r, BadSetError(v)
	} else if r.Start, err = parseNum[T](v[:sep]); err == nil {
		if r.Stop, err = parseNum[T](v[sep+1:]); err == nil {
			if (r.Stop < r.Start && r.Stop != 0) || r.Start == 0 {
				r.Start, r.Stop = r.Stop, r.Start
			}
			return r, nil
		}
	}
	return r, BadSetError(v)
}

// ParseSet returns a new Set after parsing the set string.
func ParseSet[T Num](set string) (Set[T], error) {
	if set == "" {
		return nil, BadSetError(set)
	}
	var s Set[T]
	for _, sv := range strings.Split(set, ",") {
		r, err := parseNumRange[T](sv)
		if err != nil {
			return nil, err
		}
		s.AddRange(r.Start, r.Stop)
	}
	return s, nil
}
