// SPDX-License-Identifier: MPL-2.0

package versionkey

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Fragments is the number of version fragments a key encodes.
	Fragments = 4
	// FieldWidth is the width of one encoded fragment.
	FieldWidth = 8
	// Width is the length of every key produced by Encode.
	Width = 1 + Fragments*FieldWidth

	numericDigits = FieldWidth - 1
	sentinel      = 'Z'
	pad           = '0'

	markerUnversioned = '0'
	markerVersioned   = '1'
)

// ErrInvalidKey is the sentinel error wrapped by InvalidKeyError.
var ErrInvalidKey = errors.New("invalid version key")

type (
	// Key is a fixed-width comparable version key. Two keys compare with plain
	// string comparison.
	Key string

	// InvalidKeyError is returned when a Key does not have the encoded shape.
	InvalidKeyError struct {
		Value Key
	}
)

// Error implements the error interface.
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid version key %q (want %d characters)", e.Value, Width)
}

// Unwrap returns ErrInvalidKey so callers can use errors.Is.
func (e *InvalidKeyError) Unwrap() error { return ErrInvalidKey }

// IsValid returns whether the key has the width and marker of an encoded key.
func (k Key) IsValid() (bool, []error) {
	if len(k) != Width || (k[0] != markerUnversioned && k[0] != markerVersioned) {
		return false, []error{&InvalidKeyError{Value: k}}
	}
	return true, nil
}

// Versioned reports whether the key was produced from a version string.
func (k Key) Versioned() bool {
	return len(k) > 0 && k[0] == markerVersioned
}

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// Encode returns the key for an optional raw version. ok=false means the file
// name carried no version; such keys sort below every versioned key.
func Encode(raw string, ok bool) Key {
	if !ok {
		return Unversioned()
	}
	return EncodeVersion(raw)
}

// EncodeVersion returns the key for a raw version string such as "2.3.1-SNAPSHOT".
func EncodeVersion(raw string) Key {
	return encode(markerVersioned, Split(raw))
}

// Unversioned returns the key used for archives without a version suffix.
func Unversioned() Key {
	return encode(markerUnversioned, nil)
}

// Split breaks a raw version into exactly Fragments fragments. Missing
// fragments default to "0"; fragments past the fourth are dropped.
func Split(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '.' || r == '-' })
	out := make([]string, Fragments)
	for i := range out {
		if i < len(parts) {
			out[i] = parts[i]
		} else {
			out[i] = "0"
		}
	}
	return out
}

// Compare returns -1, 0 or +1 following plain string order.
func Compare(a, b Key) int {
	return strings.Compare(string(a), string(b))
}

func encode(marker byte, fragments []string) Key {
	var sb strings.Builder
	sb.Grow(Width)
	sb.WriteByte(marker)
	for i := range Fragments {
		frag := "0"
		if i < len(fragments) {
			frag = fragments[i]
		}
		sb.WriteString(field(frag))
	}
	return Key(sb.String())
}

// field encodes one fragment into exactly FieldWidth characters.
func field(frag string) string {
	if isNumeric(frag) {
		digits := strings.TrimLeft(frag, "0")
		if len(digits) > numericDigits {
			digits = strings.Repeat("9", numericDigits)
		}
		return string(sentinel) + leftPad(digits, numericDigits)
	}

	text := strings.ToUpper(frag)
	if len(text) > FieldWidth {
		text = text[:FieldWidth]
	}
	return leftPad(text, FieldWidth)
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
