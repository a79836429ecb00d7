//go:build linux

package goble

import (
	"context"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/pkg/errors"
)

// NewDefaultDialer opens the HCI adapter named by adapterID and returns a
// Dialer that connects through it, plus a func that releases the adapter.
func NewDefaultDialer(adapterID string) (Dialer, func() error, error) {
	id, err := hciIndex(adapterID)
	if err != nil {
		return nil, nil, err
	}
	dev, err := linux.NewDevice(ble.OptDeviceID(id))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "goble: open %s", adapterID)
	}
	dial := func(ctx context.Context, addr string) (Client, error) {
		cln, err := dev.Dial(ctx, ble.NewAddr(addr))
		if err != nil {
			return nil, err
		}
		return cln, nil
	}
	return dial, dev.Stop, nil
}
