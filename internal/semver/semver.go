package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Triple is the canonical comparable form of a version string.
type Triple struct {
	Major int
	Minor int
	Patch int
}

// String renders the triple in canonical "major.minor.patch" form.
func (t Triple) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// titlePattern locates a version token inside free-form title text, e.g.
// "Some Airport v1.2-3" or "KLAX 2.0".
var titlePattern = regexp.MustCompile(`(?i)(?:^|[\s\-_])v?(\d+(?:[.\-_]\d+){0,3})(?:\b|$)`)

// Parse canonicalizes a raw version string. It reports false when the input
// is empty or any of the first three components is not an integer.
func Parse(raw string) (Triple, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Triple{}, false
	}
	trimmed = strings.TrimLeft(trimmed, "vV")
	trimmed = strings.ReplaceAll(trimmed, "_", ".")
	trimmed = strings.ReplaceAll(trimmed, "-", ".")

	var nums []int
	for _, part := range strings.Split(trimmed, ".") {
		if part == "" {
			continue
		}
		if len(nums) == 3 {
			break
		}
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return Triple{}, false
		}
		nums = append(nums, value)
	}
	for len(nums) < 3 {
		nums = append(nums, 0)
	}
	return Triple{Major: nums[0], Minor: nums[1], Patch: nums[2]}, true
}

// Normalize returns the canonical "major.minor.patch" rendering of raw.
func Normalize(raw string) (string, bool) {
	triple, ok := Parse(raw)
	if !ok {
		return "", false
	}
	return triple.String(), true
}

// Equal reports whether two raw version strings normalize to the same triple.
func Equal(a, b string) bool {
	ta, okA := Parse(a)
	tb, okB := Parse(b)
	return okA && okB && ta == tb
}

// FromTitle extracts and normalizes the first version token found in a feed
// entry title.
func FromTitle(title string) (string, bool) {
	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return Normalize(m[1])
}
