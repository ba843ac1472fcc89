// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
)

var ErrInvalidRoomCode = errors.New("invalid room code")

const (
	roomCodeLetters = "abcdefghijklmnopqrstuvwxyz"
	roomCodeDigits  = "0123456789"
)

// go-nanoid's CustomASCII needs a length of at least 5 to make progress, so
// the generators draw 5 characters and GenerateRoomCode slices them.
const generatorLength = 5

var (
	codeLetters = mustGenerator(roomCodeLetters, generatorLength)
	codeDigits  = mustGenerator(roomCodeDigits, generatorLength)

	roomCodePattern = regexp.MustCompile(`^[a-z]{3}-[0-9]{4}$`)
)

func mustGenerator(alphabet string, length int) func() string {
	gen, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		panic(fmt.Sprintf("auth: room code generator: %v", err))
	}
	return gen
}

// GenerateRoomCode returns a short shareable code such as "abc-1234".
// The space holds 26^3 * 10^4 codes; callers must still check for collisions.
func GenerateRoomCode() string {
	return codeLetters()[:3] + "-" + codeDigits()[:4]
}

// NormalizeRoomCode trims and lowercases a code typed by a user and checks its shape
func NormalizeRoomCode(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !roomCodePattern.MatchString(code) {
		return "", ErrInvalidRoomCode
	}
	return code, nil
}

// NewGuestID issues a random identity for a guest participant.
// Identities are self-asserted: the server trusts whatever id a client presents.
func NewGuestID() string {
	return uuid.NewString()
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
