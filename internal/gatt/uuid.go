package gatt

import (
	"fmt"
	"strconv"
	"strings"

	"tinygo.org/x/bluetooth"
)

// CCCDUUID is the client characteristic configuration descriptor.
var CCCDUUID = bluetooth.New16BitUUID(0x2902).String()

// NormalizeUUID returns the canonical lower-case, dashed 128-bit form of s.
// 16 and 32-bit short forms are expanded against the Bluetooth base UUID,
// and the undashed 32-digit form used by some stacks is accepted.
func NormalizeUUID(s string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.TrimPrefix(raw, "0x")
	switch hex := strings.ReplaceAll(raw, "-", ""); len(hex) {
	case 4:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidUUID, s)
		}
		return bluetooth.New16BitUUID(uint16(v)).String(), nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidUUID, s)
		}
		return bluetooth.New32BitUUID(uint32(v)).String(), nil
	case 32:
		dashed := hex[0:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:32]
		u, err := bluetooth.ParseUUID(dashed)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidUUID, s)
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUUID, s)
	}
}

// EqualUUID compares two UUID strings case-insensitively, treating short
// and long forms of the same UUID as equal. Empty strings never match.
func EqualUUID(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.EqualFold(a, b) {
		return true
	}
	na, err := NormalizeUUID(a)
	if err != nil {
		return false
	}
	nb, err := NormalizeUUID(b)
	if err != nil {
		return false
	}
	return na == nb
}
