package core

import "testing"

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "ascii", in: []byte("Number,Last,First"), want: "Number,Last,First"},
		{name: "valid utf8", in: []byte("Muñoz"), want: "Muñoz"},
		{name: "latin1 byte", in: []byte("Mu\xf1oz"), want: "Mu\ufffdoz"},
		{name: "truncated sequence", in: []byte("ab\xe2\x82"), want: "ab\ufffd"},
		{name: "run of bad bytes", in: []byte("Jos\xe9\xe9 Ram\xedrez"), want: "Jos\ufffd Ram\ufffdrez"},
		{name: "empty", in: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeUTF8(tt.in); got != tt.want {
				t.Errorf("sanitizeUTF8() = %q, want %q", got, tt.want)
			}
		})
	}
}
