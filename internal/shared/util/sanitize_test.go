package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Ada_Lovelace.pdf", want: "Ada_Lovelace.pdf"},
		{in: " spaced.doc ", want: "spaced.doc"},
		{in: "a/b\\c.doc", want: "a_b_c.doc"},
		{in: "Engineer: Acme?", want: "Engineer_ Acme_"},
		{in: "tab\tname.pdf", want: "tabname.pdf"},
		{in: "trailing. ", want: "trailing"},
		{in: "../secret", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
