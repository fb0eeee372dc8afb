package ui

import "testing"

func TestClipboardURL(t *testing.T) {
	tests := map[string]string{
		"https://youtu.be/abc":                  "https://youtu.be/abc",
		"  https://youtu.be/abc \n":             "https://youtu.be/abc",
		"\n\n https://a.example/v\nsecond line": "https://a.example/v",
		"   \n\t":                               "",
		"":                                      "",
	}
	for in, expected := range tests {
		if got := clipboardURL(in); got != expected {
			t.Errorf("clipboardURL(%q) = %q, expected %q", in, got, expected)
		}
	}
}
