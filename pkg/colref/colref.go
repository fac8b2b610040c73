// Package colref converts spreadsheet column letters to zero-based indexes
// and back ("A" -> 0, "Z" -> 25, "AA" -> 26).
package colref

import (
	"errors"
	"strings"
)

var ErrInvalidIdentifier = errors.New("invalid column identifier")

// ToIndex decodes a column letter into a zero-based index.
func ToIndex(letter string) (int, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return 0, ErrInvalidIdentifier
	}

	index := 0
	for _, r := range letter {
		if r < 'A' || r > 'Z' {
			return 0, ErrInvalidIdentifier
		}
		index = index*26 + int(r-'A'+1)
	}
	return index - 1, nil
}

// FromIndex encodes a zero-based index back into a column letter.
func FromIndex(index int) (string, error) {
	if index < 0 {
		return "", ErrInvalidIdentifier
	}

	var b []byte
	n := index + 1
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b), nil
}

// MustIndex is ToIndex for compile-time constant letters; it panics on bad
// input and is meant for the fixed ledger schema columns only.
func MustIndex(letter string) int {
	i, err := ToIndex(letter)
	if err != nil {
		panic("colref: bad column constant " + letter)
	}
	return i
}
