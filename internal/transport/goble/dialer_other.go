//go:build !linux

package goble

import "github.com/pkg/errors"

// NewDefaultDialer is only available on Linux, where go-ble talks to the
// HCI socket directly.
func NewDefaultDialer(adapterID string) (Dialer, func() error, error) {
	if _, err := hciIndex(adapterID); err != nil {
		return nil, nil, err
	}
	return nil, nil, errors.New("goble: no HCI transport on this platform")
}
