package compat

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"CAT-1R-0750", "cat-1r-0750"},
		{" cat-1r-0750 ", "cat-1r-0750"},
		{"  Komatsu  ", "komatsu"},
		{"", ""},
		{"   ", ""},
		{"PC210LC-11", "pc210lc-11"},
	}
	for _, c := range cases {
		if got := Normalize(c.raw); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"CAT-1R-0750", " Wix 57090 ", "already normal"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
