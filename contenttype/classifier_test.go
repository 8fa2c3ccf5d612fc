package contenttype

import "testing"

func TestIsJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"blank", "", true},
		{"whitespace only", "   ", true},
		{"exact match", "application/json", true},
		{"case insensitive", "Application/JSON", true},
		{"with params", "application/json; charset=utf-8", true},
		{"subtype json", "text/json", true},
		{"subtype plus json", "application/vnd.api+json", true},
		{"subtype plus json uppercase", "application/vnd.api+JSON", true},
		{"plain text", "text/plain", false},
		{"no slash", "json", false},
		{"multiple slashes", "application/vnd/json", false},
		{"trailing slash", "application/", false},
		{"suffix but not plus json", "application/xjson", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsJSON(tc.in); got != tc.want {
				t.Errorf("IsJSON(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
