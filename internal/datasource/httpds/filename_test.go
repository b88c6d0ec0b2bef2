package httpds

import (
	"strings"
	"testing"
)

func TestLocalName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://example.com/data/eu_life_expectancy_raw.tsv": "eu_life_expectancy_raw.tsv",
		"https://example.com/dl/life%20exp.zip?token=abc":     "life_exp.zip",
		"http://example.com/api/v1/life_expectancy.json#top":  "life_expectancy.json",
	}
	for in, want := range cases {
		if got := LocalName(in); got != want {
			t.Errorf("LocalName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalName_HashFallback(t *testing.T) {
	t.Parallel()

	a := LocalName("https://example.com/")
	b := LocalName("https://example.com/")
	if a != b {
		t.Fatalf("not stable: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "download-") {
		t.Fatalf("LocalName = %q, want download- prefix", a)
	}
	if LocalName("https://example.org/") == a {
		t.Fatalf("different URLs share a name")
	}
}
