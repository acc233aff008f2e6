package semver_test

import (
	"testing"

	"simtagger/internal/semver"
)

func TestParseCanonicalizesSeparatorsAndPadding(t *testing.T) {
	want := semver.Triple{Major: 1, Minor: 2, Patch: 0}
	for _, raw := range []string{"1.2", "v1.2.0", "1_2_0", "V1-2", "1.2.0", " 1.2 "} {
		got, ok := semver.Parse(raw)
		if !ok {
			t.Fatalf("Parse(%q) failed", raw)
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseTruncatesBeyondThreeComponents(t *testing.T) {
	got, ok := semver.Parse("1.2.3.4")
	if !ok {
		t.Fatal("Parse(1.2.3.4) failed")
	}
	if want := (semver.Triple{Major: 1, Minor: 2, Patch: 3}); got != want {
		t.Errorf("Parse(1.2.3.4) = %v, want %v", got, want)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "1.x.3", "1..x"} {
		if _, ok := semver.Parse(raw); ok {
			t.Errorf("Parse(%q) succeeded, want failure", raw)
		}
	}
}

func TestEqualAcrossFormats(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"1.2", "v1_2_0", true},
		{"2.0.0", "2", true},
		{"1.2.3", "1.2.4", false},
		{"", "1.0.0", false},
	}
	for _, tc := range cases {
		if got := semver.Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got, ok := semver.Normalize("v2_1")
	if !ok || got != "2.1.0" {
		t.Fatalf("Normalize(v2_1) = %q, %v; want 2.1.0, true", got, ok)
	}
}

func TestFromTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
		ok    bool
	}{
		{"KLAX Los Angeles v1.2.0", "1.2.0", true},
		{"Some Airport 2-1", "2.1.0", true},
		{"VTBU Pattaya v1_0", "1.0.0", true},
		{"No version here", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := semver.FromTitle(tc.title)
		if ok != tc.ok || got != tc.want {
			t.Errorf("FromTitle(%q) = %q, %v; want %q, %v", tc.title, got, ok, tc.want, tc.ok)
		}
	}
}
