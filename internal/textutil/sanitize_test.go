package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  my reel  ":        "my reel",
		"a/b\\c:d*e":         "a-b-c-d-e",
		`what?"<>|`:          "what",
		"..hidden":           "hidden",
		"":                   "",
		"Daily Quote 2026-1": "Daily Quote 2026-1",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Morning Motivation": "morning_motivation",
		"  Café  Crème ":     "cafe_creme",
		"AI & the future!!":  "ai_the_future",
		"self-help":          "self-help",
		"???":                "unknown",
		"":                   "unknown",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
