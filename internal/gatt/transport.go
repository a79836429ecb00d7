// Package gatt provides the BLE GATT client core: connection lifecycle,
// characteristic role resolution, and dispatch of asynchronous
// read/write/notify traffic to a single registered listener.
package gatt

//go:generate mockgen -destination=mock_gatt/mock_transport.go -package=mock_gatt . Handle,Transport,Unbonder

// Property is the GATT characteristic property octet.
type Property uint8

// Characteristic property flags (Bluetooth Core Vol 3, Part G, 3.3.1.1).
const (
	PropBroadcast       Property = 0x01
	PropRead            Property = 0x02
	PropWriteNoResponse Property = 0x04
	PropWrite           Property = 0x08
	PropNotify          Property = 0x10
	PropIndicate        Property = 0x20
)

// Status is the ATT status reported by the transport for an operation.
// The client passes it through to the listener unchanged.
type Status int

const (
	StatusSuccess Status = 0
	StatusFailure Status = 0x101
)

// LinkState is the connection state reported by the radio.
type LinkState int

const (
	LinkDisconnected LinkState = iota
	LinkConnecting
	LinkConnected
	LinkDisconnecting
)

// BondState is the pairing state between the local adapter and the peer.
type BondState int

const (
	BondNone BondState = iota
	BondBonding
	BondBonded
)

func (b BondState) String() string {
	switch b {
	case BondNone:
		return "none"
	case BondBonding:
		return "bonding"
	case BondBonded:
		return "bonded"
	default:
		return "unknown"
	}
}

// EnableNotificationValue is written to the client characteristic
// configuration descriptor to turn on server-side notifications.
var EnableNotificationValue = []byte{0x01, 0x00}

// Device identifies a remote peripheral.
type Device struct {
	Name    string
	Address string
}

// Descriptor is a discovered characteristic descriptor.
type Descriptor struct {
	UUID               string
	CharacteristicUUID string
	// Ref is the transport's native descriptor object.
	Ref any
}

// Characteristic is a snapshot of a discovered characteristic.
type Characteristic struct {
	UUID        string
	ServiceUUID string
	Properties  Property
	Descriptors []Descriptor
	// Ref is the transport's native characteristic object.
	Ref any
}

// Readable reports whether the characteristic supports reads.
func (c Characteristic) Readable() bool { return c.Properties&PropRead != 0 }

// Writable reports whether the characteristic supports write or
// write-without-response.
func (c Characteristic) Writable() bool {
	return c.Properties&(PropWrite|PropWriteNoResponse) != 0
}

// Notifiable reports whether the characteristic supports notifications.
func (c Characteristic) Notifiable() bool { return c.Properties&PropNotify != 0 }

// Descriptor returns the descriptor with the given UUID.
func (c Characteristic) Descriptor(uuid string) (Descriptor, bool) {
	for _, d := range c.Descriptors {
		if EqualUUID(d.UUID, uuid) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Service is a discovered primary service and its characteristics.
type Service struct {
	UUID            string
	Characteristics []Characteristic
}

// Characteristic returns the characteristic with the given UUID.
func (s Service) Characteristic(uuid string) (Characteristic, bool) {
	for _, c := range s.Characteristics {
		if EqualUUID(c.UUID, uuid) {
			return c, true
		}
	}
	return Characteristic{}, false
}

// Handle is an open transport connection object.
type Handle interface {
	Device() Device
}

// Event is a transport event. The set of implementations is closed.
type Event interface {
	isEvent()
}

// ConnectionStateChanged reports a link state change.
type ConnectionStateChanged struct {
	State LinkState
}

// ServicesDiscovered reports the result of a service discovery.
type ServicesDiscovered struct {
	Status   Status
	Services []Service
}

// CharacteristicRead reports the completion of a characteristic read.
type CharacteristicRead struct {
	Characteristic Characteristic
	Value          []byte
	Status         Status
}

// CharacteristicWritten reports the completion of a characteristic write.
type CharacteristicWritten struct {
	Characteristic Characteristic
	Status         Status
}

// CharacteristicChanged carries a notification from the peripheral.
type CharacteristicChanged struct {
	Characteristic Characteristic
	Value          []byte
}

// BondStateChanged reports a change in pairing state.
type BondStateChanged struct {
	State BondState
}

func (ConnectionStateChanged) isEvent() {}
func (ServicesDiscovered) isEvent()     {}
func (CharacteristicRead) isEvent()     {}
func (CharacteristicWritten) isEvent()  {}
func (CharacteristicChanged) isEvent()  {}
func (BondStateChanged) isEvent()       {}

// EventHandler receives transport events. Implementations of Transport
// must call it serially for a given handle, in arrival order.
type EventHandler func(h Handle, ev Event)

// Transport abstracts the platform radio for the GATT client.
// Results of asynchronous operations are delivered through the EventHandler
// passed to Connect.
type Transport interface {
	// Connect opens a connection object for device and starts connecting.
	Connect(device Device, autoReconnect bool, events EventHandler) (Handle, error)
	// Reconnect asks the transport to re-establish the link on h.
	Reconnect(h Handle) error
	// Disconnect requests link teardown without releasing h.
	Disconnect(h Handle) error
	// Close releases h. No events are delivered for h afterwards.
	Close(h Handle) error
	DiscoverServices(h Handle) error
	ReadCharacteristic(h Handle, c Characteristic) error
	// WriteCharacteristic reports whether the write was submitted.
	WriteCharacteristic(h Handle, c Characteristic, data []byte) bool
	// SetNotify reports whether the local subscription state was changed.
	SetNotify(h Handle, c Characteristic, enabled bool) bool
	WriteDescriptor(h Handle, d Descriptor, value []byte) error
	BondState(h Handle) BondState
	CreateBond(h Handle) error
}

// Unbonder is implemented by transports that can remove an existing
// pairing. Removal is a privileged platform operation and is not
// available everywhere.
type Unbonder interface {
	RemoveBond(device Device) error
}
