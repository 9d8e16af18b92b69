// Package id generates opaque identifiers for journal entries and requests.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a 26-character lowercase base32 rendering of a random UUID.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// NewRequestID returns a request id, falling back to prefix when the random
// source fails.
func NewRequestID(prefix string) string {
	value, err := NewID()
	if err != nil {
		return prefix
	}
	if prefix == "" {
		return value
	}
	return prefix + "-" + value
}
