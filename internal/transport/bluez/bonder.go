// Package bluez pairs and unpairs devices through the BlueZ D-Bus API.
package bluez

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName          = "org.bluez"
	adapterInterface = "org.bluez.Adapter1"
	deviceInterface  = "org.bluez.Device1"

	errAlreadyExists = "org.bluez.Error.AlreadyExists"
	errDoesNotExist  = "org.bluez.Error.DoesNotExist"
)

// DefaultAdapter is used when no adapter id is configured.
const DefaultAdapter = "hci0"

// bus is the part of *dbus.Conn the bonder needs.
type bus interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Bonder manages pairings on one BlueZ adapter.
type Bonder struct {
	bus     bus
	adapter string
}

// NewBonder returns a Bonder for adapterID ("hci0" if empty) on conn,
// usually the system bus.
func NewBonder(conn *dbus.Conn, adapterID string) *Bonder {
	if adapterID == "" {
		adapterID = DefaultAdapter
	}
	return &Bonder{bus: conn, adapter: adapterID}
}

// AdapterPath returns the object path of an adapter, e.g. /org/bluez/hci0.
func AdapterPath(adapterID string) dbus.ObjectPath {
	return dbus.ObjectPath("/org/bluez/" + adapterID)
}

// DevicePath returns the object path BlueZ assigns to the device with
// MAC address addr on adapterID.
func DevicePath(adapterID, addr string) dbus.ObjectPath {
	mac := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(addr)), ":", "_")
	return dbus.ObjectPath(fmt.Sprintf("%s/dev_%s", AdapterPath(adapterID), mac))
}

// Paired reports whether BlueZ holds a bond for addr.
func (b *Bonder) Paired(addr string) (bool, error) {
	obj := b.bus.Object(busName, DevicePath(b.adapter, addr))
	var paired bool
	if err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, deviceInterface, "Paired").Store(&paired); err != nil {
		return false, fmt.Errorf("bluez: read Paired for %s: %w", addr, err)
	}
	return paired, nil
}

// Pair pairs with addr. It blocks until BlueZ finishes; an existing bond
// is not an error.
func (b *Bonder) Pair(addr string) error {
	obj := b.bus.Object(busName, DevicePath(b.adapter, addr))
	err := obj.Call(deviceInterface+".Pair", 0).Err
	if errorName(err) == errAlreadyExists {
		slog.Debug("[BLUEZ] already paired", "addr", addr)
		return nil
	}
	if err != nil {
		return fmt.Errorf("bluez: pair %s: %w", addr, err)
	}
	slog.Info("[BLUEZ] paired", "addr", addr)
	return nil
}

// RemoveDevice drops the bond and cached data for addr. Removing an
// unknown device is not an error.
func (b *Bonder) RemoveDevice(addr string) error {
	obj := b.bus.Object(busName, AdapterPath(b.adapter))
	err := obj.Call(adapterInterface+".RemoveDevice", 0, DevicePath(b.adapter, addr)).Err
	if errorName(err) == errDoesNotExist {
		slog.Debug("[BLUEZ] device already removed", "addr", addr)
		return nil
	}
	if err != nil {
		return fmt.Errorf("bluez: remove %s: %w", addr, err)
	}
	slog.Info("[BLUEZ] device removed", "addr", addr)
	return nil
}

// errorName returns the D-Bus error name carried by err, if any.
func errorName(err error) string {
	if err == nil {
		return ""
	}
	var e dbus.Error
	if errors.As(err, &e) {
		return e.Name
	}
	var pe *dbus.Error
	if errors.As(err, &pe) {
		return pe.Name
	}
	return ""
}
