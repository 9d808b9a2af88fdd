package utils

import "testing"

func TestSanitizeJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n[{\"a\":1}]\n```", "[{\"a\":1}]"},
		{"```\n{}\n```", "{}"},
		{"  {\"b\":2}  ", "{\"b\":2}"},
		{"[]", "[]"},
	}
	for _, c := range cases {
		if got := SanitizeJSON(c.in); got != c.want {
			t.Errorf("SanitizeJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
