package moddef

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidVersion is wrapped by ConfigError when a version constraint or
// the host version is not a dotted numeric version.
var ErrInvalidVersion = errors.New("invalid dotted version")

// dottedRegex matches one or more dot-separated numeric segments.
var dottedRegex = regexp.MustCompile(`^\d+(?:\.\d+)*$`)

// Version is a dotted numeric version such as "1.9" or "1.2.3.4".
type Version struct {
	Segments []int
	Original string
}

// ParseVersion parses a dotted numeric version. Surrounding whitespace is
// ignored; anything else that is not digits and dots is rejected.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if !dottedRegex.MatchString(trimmed) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	parts := strings.Split(trimmed, ".")
	v := Version{Segments: make([]int, len(parts)), Original: s}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: segment %q: %v", ErrInvalidVersion, p, err)
		}
		v.Segments[i] = n
	}
	return v, nil
}

// String returns the version as it was written.
func (v Version) String() string {
	return v.Original
}

// Compare compares two versions segment by segment, treating missing
// trailing segments as zero.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	n := max(len(v.Segments), len(other.Segments))
	for i := 0; i < n; i++ {
		a, b := segment(v.Segments, i), segment(other.Segments, i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

func segment(s []int, i int) int {
	if i < len(s) {
		return s[i]
	}
	return 0
}
