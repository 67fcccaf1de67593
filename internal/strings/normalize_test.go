package strings

import "testing"

func TestIsBlank(t *testing.T) {
	for _, value := range []string{"", " ", "\t\n", "\r\n  "} {
		if !IsBlank(value) {
			t.Fatalf("expected %q to be blank", value)
		}
	}
	for _, value := range []string{"x", "  buy milk ", " ."} {
		if IsBlank(value) {
			t.Fatalf("expected %q not to be blank", value)
		}
	}
}

func TestNormalizeLowerTrimSpace(t *testing.T) {
	got := NormalizeLowerTrimSpace("  Urgent-Important\n")
	if got != "urgent-important" {
		t.Fatalf("expected urgent-important, got %q", got)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"plain":               "plain",
		"one\r\ntwo":          "one\ntwo",
		"one\rtwo\r\nthree\n": "one\ntwo\nthree\n",
	}
	for input, want := range cases {
		if got := NormalizeNewlines(input); got != want {
			t.Fatalf("NormalizeNewlines(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTrimTrailingNewlines(t *testing.T) {
	if got := TrimTrailingNewlines("notes\r\n\n"); got != "notes" {
		t.Fatalf("expected notes, got %q", got)
	}
	if got := TrimTrailingNewlines("\nkeep leading"); got != "\nkeep leading" {
		t.Fatalf("expected leading newline kept, got %q", got)
	}
}

func TestIndentBlock(t *testing.T) {
	cases := []struct {
		name   string
		value  string
		spaces int
		want   string
	}{
		{name: "no indent", value: "a\nb", spaces: 0, want: "a\nb"},
		{name: "empty", value: "", spaces: 2, want: ""},
		{name: "every line", value: "a\nb", spaces: 2, want: "  a\n  b"},
		{name: "skips blank lines", value: "first\n\nsecond\n", spaces: 4, want: "    first\n\n    second\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IndentBlock(tc.value, tc.spaces); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
