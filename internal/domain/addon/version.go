package addon

import (
	"regexp"
	"strings"
)

// tokenPattern splits a version string into runs of digits or ASCII letters.
// Everything else (dots, dashes, "~", "+", etc.) is a separator and is dropped,
// so "1.0.0" and "1-0-0" parse identically and suffixes like "~alpha" or
// "+meta" contribute extra tokens that sort after the bare version.
var tokenPattern = regexp.MustCompile(`[0-9]+|[A-Za-z]+`)

// versionToken is a single comparable unit of a version string.
type versionToken struct {
	// digits holds a numeric run with leading zeros trimmed; empty for letter runs.
	digits string
	// text holds a lowercased letter run; empty for numeric runs.
	text string
}

// isNumeric reports whether the token is a digit run.
func (t versionToken) isNumeric() bool {
	return t.text == ""
}

// compare orders two tokens: numeric runs compare by value and sort before
// letter runs at the same position, letter runs compare case-insensitively.
func (t versionToken) compare(other versionToken) int {
	if t.isNumeric() != other.isNumeric() {
		if t.isNumeric() {
			return -1
		}

		return 1
	}

	if t.isNumeric() {
		// Leading zeros are already trimmed, so a longer run is a bigger number.
		if len(t.digits) != len(other.digits) {
			if len(t.digits) < len(other.digits) {
				return -1
			}

			return 1
		}

		return strings.Compare(t.digits, other.digits)
	}

	return strings.Compare(t.text, other.text)
}

// Version is the parsed, comparable form of an add-on version string.
// The zero value compares equal to an empty version.
type Version struct {
	// raw is the original version string as found in the descriptor.
	raw string
	// tokens is the normalized token sequence used for ordering.
	tokens []versionToken
}

// ParseVersion normalizes a version string into its comparable form.
// Parsing never fails: a string without digits or letters yields a version
// that sorts below every non-empty one.
func ParseVersion(raw string) Version {
	runs := tokenPattern.FindAllString(raw, -1)
	tokens := make([]versionToken, 0, len(runs))

	for _, run := range runs {
		if run[0] >= '0' && run[0] <= '9' {
			trimmed := strings.TrimLeft(run, "0")
			if trimmed == "" {
				// All zeros still counts as the number zero.
				trimmed = "0"
			}

			tokens = append(tokens, versionToken{digits: trimmed})

			continue
		}

		tokens = append(tokens, versionToken{text: strings.ToLower(run)})
	}

	return Version{
		raw:    raw,
		tokens: tokens,
	}
}

// String returns the original version string.
func (v Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or 1 ordering v against other token by token.
// A version that is a strict prefix of another sorts before it, so
// "1.0.0" < "1.0.0~alpha". The ordering is total and transitive.
func (v Version) Compare(other Version) int {
	limit := len(v.tokens)
	if len(other.tokens) < limit {
		limit = len(other.tokens)
	}

	for i := 0; i < limit; i++ {
		if c := v.tokens[i].compare(other.tokens[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(v.tokens) < len(other.tokens):
		return -1
	case len(v.tokens) > len(other.tokens):
		return 1
	default:
		return 0
	}
}

// Newer reports whether v compares strictly greater than other.
func (v Version) Newer(other Version) bool {
	return v.Compare(other) > 0
}
