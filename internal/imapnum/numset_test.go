package imapnum

import (
	"reflect"
	"testing"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		in   string
		out  string
		nums []uint32
	}{
		{"1", "1", []uint32{1}},
		{"3:1", "1:3", []uint32{1, 2, 3}},
		{"1,2,3", "1:3", []uint32{1, 2, 3}},
		{"5,1:2,4", "1:2,4:5", []uint32{1, 2, 4, 5}},
		{"4:19,21,28", "4:19,21,28", nil},
		{"2:5,3:7,1", "1:7", []uint32{1, 2, 3, 4, 5, 6, 7}},
		{"10,9,8", "8:10", []uint32{8, 9, 10}},
		{"1:*", "1:*", nil},
		{"*:4", "4:*", nil},
		{"*", "*", nil},
		{"3,*", "3,*", nil},
		{"3:*,5", "3:*", nil},
	}
	for _, tc := range tests {
		s, err := ParseSet[uint32](tc.in)
		if err != nil {
			t.Errorf("ParseSet(%q) = %v", tc.in, err)
			continue
		}
		if got := s.String(); got != tc.out {
			t.Errorf("ParseSet(%q).String() = %q, want %q", tc.in, got, tc.out)
		}
		if tc.nums != nil {
			nums, ok := s.Nums()
			if !ok || !reflect.DeepEqual(nums, tc.nums) {
				t.Errorf("ParseSet(%q).Nums() = %v, %v, want %v", tc.in, nums, ok, tc.nums)
			}
		}

		// Re-parsing the canonical form must yield the same set
		again, err := ParseSet[uint32](s.String())
		if err != nil || !reflect.DeepEqual(again, s) {
			t.Errorf("ParseSet(%q) round-trip = %v, %v", tc.in, again, err)
		}
	}
}

func TestParseSet_invalid(t *testing.T) {
	for _, in := range []string{"", ",", "0", "1,", ":3", "3:", "1:0", "a", "01", "1::2", "-1", "4294967296"} {
		if s, err := ParseSet[uint32](in); err == nil {
			t.Errorf("ParseSet(%q) = %v, want error", in, s)
		}
	}
}

func TestSet_NumsAscending(t *testing.T) {
	s, err := ParseSet[uint32]("28,4:19,21,19:7,5")
	if err != nil {
		t.Fatal(err)
	}
	nums, ok := s.Nums()
	if !ok {
		t.Fatal("Nums() on static set returned !ok")
	}
	if len(nums) != 18 {
		t.Errorf("len(Nums()) = %v, want 18", len(nums))
	}
	for i := 1; i < len(nums); i++ {
		if nums[i] <= nums[i-1] {
			t.Fatalf("Nums() not strictly ascending at %v: %v", i, nums)
		}
	}
	if n, ok := s.Len(); !ok || n != 18 {
		t.Errorf("Len() = %v, %v, want 18", n, ok)
	}
}

func TestSet_Contains(t *testing.T) {
	s, _ := ParseSet[uint32]("2:4,10:*")
	for q, want := range map[uint32]bool{1: false, 2: true, 4: true, 5: false, 10: true, 5000: true} {
		if got := s.Contains(q); got != want {
			t.Errorf("Contains(%v) = %v, want %v", q, got, want)
		}
	}
	if !s.Dynamic() {
		t.Errorf("Dynamic() = false")
	}
	if _, ok := s.Nums(); ok {
		t.Errorf("Nums() on dynamic set returned ok")
	}
}

func TestSet_Resolve(t *testing.T) {
	s, _ := ParseSet[uint32]("2,7:*")
	if got := s.Resolve(9).String(); got != "2,7:9" {
		t.Errorf("Resolve(9) = %q", got)
	}
	if got := s.Resolve(5).String(); got != "2,5:7" {
		t.Errorf("Resolve(5) = %q", got)
	}
	star, _ := ParseSet[uint32]("*")
	if got := star.Resolve(0); !got.IsEmpty() {
		t.Errorf("Resolve(0) of \"*\" = %q, want empty", got.String())
	}
}

func TestSet_Intersect(t *testing.T) {
	tests := []struct{ a, b, want string }{
		{"1:10", "5:15", "5:10"},
		{"1:3,7:9", "2,8:20", "2,8:9"},
		{"1:3", "4:6", ""},
		{"5:*", "1:7", "5:7"},
		{"5:*", "10:*", "10:*"},
	}
	for _, tc := range tests {
		a, _ := ParseSet[uint32](tc.a)
		b, _ := ParseSet[uint32](tc.b)
		if got := a.Intersect(b).String(); got != tc.want {
			t.Errorf("%q ∩ %q = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSet_Difference(t *testing.T) {
	tests := []struct{ a, b, want string }{
		{"1:10", "5:15", "1:4"},
		{"1:10", "3,5:6", "1:2,4,7:10"},
		{"1:3", "4:6", "1:3"},
		{"1:*", "3:*", "1:2"},
		{"2:4", "1:10", ""},
	}
	for _, tc := range tests {
		a, _ := ParseSet[uint32](tc.a)
		b, _ := ParseSet[uint32](tc.b)
		if got := a.Difference(b).String(); got != tc.want {
			t.Errorf("%q - %q = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSet_AddSet(t *testing.T) {
	var s Set[uint32]
	s.AddNum(1, 3, 5)
	other, _ := ParseSet[uint32]("2,4")
	s.AddSet(other)
	if got := s.String(); got != "1:5" {
		t.Errorf("AddSet = %q, want \"1:5\"", got)
	}
}
