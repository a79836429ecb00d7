package main

import (
	"fmt"
	"log/slog"

	"github.com/chaz8081/gattlink/internal/gatt"
)

// logListener prints client events through slog.
type logListener struct {
	log *slog.Logger
}

var _ gatt.Listener = logListener{}

func (l logListener) OnServiceStateChanged(state gatt.State) {
	l.log.Info("State changed", "state", state)
}

func (l logListener) OnServicesDiscovered(services []gatt.Service) {
	l.log.Info("Services discovered", "count", len(services))
}

func (l logListener) OnCharacteristicsDiscovered(service gatt.Service, chars []gatt.Characteristic) {
	for _, c := range chars {
		l.log.Debug("Characteristic", "service", service.UUID, "uuid", c.UUID, "props", fmt.Sprintf("%#x", uint8(c.Properties)))
	}
}

func (l logListener) OnReadData(c gatt.Characteristic, value []byte, status gatt.Status) {
	l.log.Info("Read", "uuid", c.UUID, "value", fmt.Sprintf("%x", value), "status", status)
}

func (l logListener) OnWriteData(c gatt.Characteristic, status gatt.Status) {
	l.log.Info("Written", "uuid", c.UUID, "status", status)
}

func (l logListener) OnDataChanged(c gatt.Characteristic, value []byte) {
	l.log.Info("Notification", "uuid", c.UUID, "value", fmt.Sprintf("%x", value))
}

func (l logListener) OnBond() {
	l.log.Info("Bonded")
}

func (l logListener) OnUnBond() {
	l.log.Info("Bond removed")
}

func (l logListener) OnError(err error) {
	l.log.Error("Client error", "error", err)
}
