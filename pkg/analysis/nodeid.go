package analysis

import (
	"strconv"
)

// ValidLetter reports whether s is a single lowercase ASCII letter, the only
// form a layer letter can take.
func ValidLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'a' && s[0] <= 'z'
}

// ParseNodeID splits a node ID of the form <letter><index> ("b3") into its
// letter and numeric index. ok is false for any other shape: empty IDs,
// uppercase or multi-letter prefixes, missing or non-numeric suffixes, signs,
// leading zeros ("a01") and indexes that overflow int. Every accepted ID is
// exactly what [FormatNodeID] returns for its parts.
func ParseNodeID(id string) (letter string, index int, ok bool) {
	if len(id) < 2 || !ValidLetter(id[:1]) {
		return "", 0, false
	}
	digits := id[1:]
	if len(digits) > 1 && digits[0] == '0' {
		return "", 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, false
	}
	return id[:1], n, true
}

// FormatNodeID is the inverse of [ParseNodeID].
func FormatNodeID(letter string, index int) string {
	return letter + strconv.Itoa(index)
}
