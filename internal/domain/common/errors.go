package common

import (
	"errors"
	"strings"
)

// Errors shared by every protocol component. Component-specific errors live in
// their own domain packages.
var (
	ErrZeroAmount         = errors.New("amount must be positive")
	ErrZeroAddress        = errors.New("zero address")
	ErrUnauthorizedCaller = errors.New("unauthorized caller")
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// IsZeroAddress reports whether addr is empty or the canonical zero address.
func IsZeroAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	return addr == "" || strings.EqualFold(addr, zeroAddress)
}
