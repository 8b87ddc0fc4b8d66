// Package uuid generates RFC 4122 version 4 (random) UUIDs.
package uuid

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
)

var ErrBadFormat = errors.New("uuid: malformed input")

// New returns a random UUID in the dashed 8-4-4-4-12 form, e.g.
// "550e8400-e29b-41d4-a716-446655440000".
func New() (string, error) {
	raw, err := random16()
	if err != nil {
		return "", err
	}
	compact := hex.EncodeToString(raw)
	return addDashes(compact), nil
}

// NewCompact returns a random UUID as 32 hex characters without dashes.
func NewCompact() (string, error) {
	raw, err := random16()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Short returns an 8-character random hex ID. Not a UUID; collisions are
// far more likely, but it is convenient where a full UUID is overkill.
func Short() (string, error) {
	var b [4]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// Valid reports whether s is a well-formed UUID, with or without dashes.
func Valid(s string) bool {
	switch len(s) {
	case 36:
		for i := 0; i < 36; i++ {
			if i == 8 || i == 13 || i == 18 || i == 23 {
				if s[i] != '-' {
					return false
				}
				continue
			}
			if !isHex(s[i]) {
				return false
			}
		}
		return true
	case 32:
		for i := 0; i < 32; i++ {
			if !isHex(s[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AddDashes converts a 32-character compact UUID to the dashed form.
func AddDashes(s string) (string, error) {
	if len(s) != 32 || !Valid(s) {
		return "", ErrBadFormat
	}
	return addDashes(s), nil
}

// RemoveDashes converts a dashed UUID to the 32-character compact form.
func RemoveDashes(s string) (string, error) {
	if len(s) != 36 || !Valid(s) {
		return "", ErrBadFormat
	}
	return s[0:8] + s[9:13] + s[14:18] + s[19:23] + s[24:36], nil
}

func random16() ([]byte, error) {
	b := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
	return b, nil
}

func addDashes(s string) string {
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
