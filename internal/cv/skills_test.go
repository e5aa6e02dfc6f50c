package cv

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSkills(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"Math, Logic", []string{"Math", "Logic"}},
		{" Go ,, Rust ,", []string{"Go", "Rust"}},
		{"a,a, a", []string{"a", "a", "a"}},
		{"  ,  ", []string{}},
		{"Newsletter Writing,Canva", []string{"Newsletter Writing", "Canva"}},
	}
	for _, tc := range cases {
		if got := SplitSkills(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitSkills(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSkills(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{" Math ", "", "   ", "Logic"}, []string{"Math", "Logic"}},
		{[]string{"Go", "Go"}, []string{"Go", "Go"}},
		{[]string{"\tNewsletter Writing\n"}, []string{"Newsletter Writing"}},
	}
	for _, tc := range cases {
		if got := NormalizeSkills(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("NormalizeSkills(%#v) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestSplitJoinIsIdempotent(t *testing.T) {
	inputs := []string{
		"Math, Logic",
		"  spaced  ,tokens,, ,end ",
		"one",
		",leading,trailing,",
		"dup, dup,dup",
		strings.Repeat("x,", 20),
	}
	for _, in := range inputs {
		first := SplitSkills(in)
		second := SplitSkills(JoinSkills(first))
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("split/join not idempotent for %q: %#v vs %#v", in, first, second)
		}
	}
}
