// Package goble implements gatt.Transport on top of github.com/go-ble/ble.
package goble

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/pkg/errors"

	"github.com/chaz8081/gattlink/internal/gatt"
)

// ErrBondingUnsupported is returned by CreateBond when the transport was
// built without a Bonder.
var ErrBondingUnsupported = errors.New("goble: bonding not supported")

// Client is the part of ble.Client used by the transport.
type Client interface {
	Addr() ble.Addr
	DiscoverProfile(force bool) (*ble.Profile, error)
	ReadCharacteristic(c *ble.Characteristic) ([]byte, error)
	WriteCharacteristic(c *ble.Characteristic, value []byte, noRsp bool) error
	WriteDescriptor(d *ble.Descriptor, value []byte) error
	Subscribe(c *ble.Characteristic, ind bool, h ble.NotificationHandler) error
	Unsubscribe(c *ble.Characteristic, ind bool) error
	ClearSubscriptions() error
	CancelConnection() error
	Disconnected() <-chan struct{}
}

// Dialer opens a GATT connection to the device at addr.
type Dialer func(ctx context.Context, addr string) (Client, error)

// Bonder manages pairing outside of go-ble, which has no bonding API.
type Bonder interface {
	Paired(addr string) (bool, error)
	Pair(addr string) error
	RemoveDevice(addr string) error
}

// Options configures a Transport.
type Options struct {
	DialTimeout  time.Duration // per dial attempt; zero means no timeout
	ReconnectMax int           // max reconnect backoff in seconds
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DialTimeout:  10 * time.Second,
		ReconnectMax: 30,
	}
}

// Transport is a gatt.Transport backed by go-ble.
type Transport struct {
	dial   Dialer
	opts   Options
	bonder Bonder
}

// New creates a Transport that opens connections through dial.
func New(dial Dialer, opts Options) *Transport {
	return &Transport{dial: dial, opts: opts}
}

// BondingTransport is a Transport with a Bonder. Unlike Transport, it
// implements gatt.Unbonder.
type BondingTransport struct {
	*Transport
}

// WithBonder returns a copy of t that pairs and unpairs through b.
func (t *Transport) WithBonder(b Bonder) *BondingTransport {
	cp := *t
	cp.bonder = b
	return &BondingTransport{Transport: &cp}
}

// RemoveBond removes the pairing with device.
func (t *BondingTransport) RemoveBond(device gatt.Device) error {
	if err := t.bonder.RemoveDevice(device.Address); err != nil {
		return errors.Wrapf(err, "goble: remove bond %s", device.Address)
	}
	return nil
}

// Connect returns a handle immediately and connects in the background.
func (t *Transport) Connect(device gatt.Device, autoReconnect bool, events gatt.EventHandler) (gatt.Handle, error) {
	if events == nil {
		return nil, errors.New("goble: nil event handler")
	}
	if t.dial == nil {
		return nil, errors.Wrap(gatt.ErrTransportUnavailable, "goble: no dialer")
	}
	h := &handle{
		t:       t,
		device:  device,
		auto:    autoReconnect,
		handler: events,
		events:  newQueue(),
		ops:     newQueue(),
	}
	h.start()
	return h, nil
}

func (t *Transport) Reconnect(gh gatt.Handle) error {
	h, err := t.handle(gh, "reconnect")
	if err != nil {
		return err
	}
	if !h.restart() {
		slog.Debug("[GOBLE] reconnect ignored, link already active", "addr", h.device.Address)
	}
	return nil
}

// Disconnect drops the link. Auto-reconnect stays off until Reconnect.
func (t *Transport) Disconnect(gh gatt.Handle) error {
	h, err := t.handle(gh, "disconnect")
	if err != nil {
		return err
	}
	h.stopLink()
	return nil
}

func (t *Transport) Close(gh gatt.Handle) error {
	h, ok := gh.(*handle)
	if !ok {
		return errors.Errorf("goble: close: foreign handle %T", gh)
	}
	h.close()
	return nil
}

func (t *Transport) DiscoverServices(gh gatt.Handle) error {
	h, cln, err := t.connected(gh, "discover services")
	if err != nil {
		return err
	}
	ok := h.ops.push(func() {
		p, err := cln.DiscoverProfile(true)
		if err != nil {
			slog.Warn("[GOBLE] discover profile failed", "addr", h.device.Address, "error", err)
			h.emit(gatt.ServicesDiscovered{Status: statusOf(err)})
			return
		}
		h.emit(gatt.ServicesDiscovered{Status: gatt.StatusSuccess, Services: convertProfile(p)})
	})
	if !ok {
		return errors.Wrap(gatt.ErrTransportUnavailable, "goble: discover services")
	}
	return nil
}

func (t *Transport) ReadCharacteristic(gh gatt.Handle, c gatt.Characteristic) error {
	h, cln, err := t.connected(gh, "read")
	if err != nil {
		return err
	}
	bc, ok := c.Ref.(*ble.Characteristic)
	if !ok {
		return errors.Wrapf(gatt.ErrCharacteristicNotFound, "goble: read %s", c.UUID)
	}
	ok = h.ops.push(func() {
		v, err := cln.ReadCharacteristic(bc)
		if err != nil {
			slog.Warn("[GOBLE] read failed", "uuid", c.UUID, "error", err)
		}
		h.emit(gatt.CharacteristicRead{Characteristic: c, Value: v, Status: statusOf(err)})
	})
	if !ok {
		return errors.Wrap(gatt.ErrTransportUnavailable, "goble: read")
	}
	return nil
}

// WriteCharacteristic queues a write. Characteristics without PropWrite
// are written without response.
func (t *Transport) WriteCharacteristic(gh gatt.Handle, c gatt.Characteristic, data []byte) bool {
	h, cln, err := t.connected(gh, "write")
	if err != nil {
		slog.Debug("[GOBLE] write not submitted", "uuid", c.UUID, "error", err)
		return false
	}
	bc, ok := c.Ref.(*ble.Characteristic)
	if !ok {
		return false
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	noRsp := c.Properties&gatt.PropWrite == 0

	return h.ops.push(func() {
		err := cln.WriteCharacteristic(bc, buf, noRsp)
		if err != nil {
			slog.Warn("[GOBLE] write failed", "uuid", c.UUID, "error", err)
		}
		h.emit(gatt.CharacteristicWritten{Characteristic: c, Status: statusOf(err)})
	})
}

// SetNotify subscribes or unsubscribes synchronously. go-ble writes the
// CCCD itself as part of Subscribe.
func (t *Transport) SetNotify(gh gatt.Handle, c gatt.Characteristic, enabled bool) bool {
	h, cln, err := t.connected(gh, "set notify")
	if err != nil {
		return false
	}
	bc, ok := c.Ref.(*ble.Characteristic)
	if !ok {
		return false
	}
	ind := c.Properties&gatt.PropNotify == 0 && c.Properties&gatt.PropIndicate != 0

	if !enabled {
		err = cln.Unsubscribe(bc, ind)
	} else {
		err = cln.Subscribe(bc, ind, func(req []byte) {
			v := make([]byte, len(req))
			copy(v, req)
			h.emit(gatt.CharacteristicChanged{Characteristic: c, Value: v})
		})
	}
	if err != nil {
		slog.Warn("[GOBLE] set notify failed", "uuid", c.UUID, "enabled", enabled, "error", err)
		return false
	}
	return true
}

func (t *Transport) WriteDescriptor(gh gatt.Handle, d gatt.Descriptor, value []byte) error {
	_, cln, err := t.connected(gh, "write descriptor")
	if err != nil {
		return err
	}
	bd, ok := d.Ref.(*ble.Descriptor)
	if !ok {
		return errors.Wrapf(gatt.ErrCharacteristicNotFound, "goble: descriptor %s", d.UUID)
	}
	if err := cln.WriteDescriptor(bd, value); err != nil {
		return errors.Wrapf(err, "goble: write descriptor %s", d.UUID)
	}
	return nil
}

func (t *Transport) BondState(gh gatt.Handle) gatt.BondState {
	h, err := t.handle(gh, "bond state")
	if err != nil || t.bonder == nil {
		return gatt.BondNone
	}
	paired, err := t.bonder.Paired(h.device.Address)
	if err != nil {
		slog.Warn("[GOBLE] bond state query failed", "addr", h.device.Address, "error", err)
		return gatt.BondNone
	}
	if paired {
		return gatt.BondBonded
	}
	return gatt.BondNone
}

// CreateBond starts pairing in the background. Progress arrives as
// BondStateChanged events.
func (t *Transport) CreateBond(gh gatt.Handle) error {
	h, err := t.handle(gh, "create bond")
	if err != nil {
		return err
	}
	if t.bonder == nil {
		return ErrBondingUnsupported
	}
	h.emit(gatt.BondStateChanged{State: gatt.BondBonding})
	go func() {
		if err := t.bonder.Pair(h.device.Address); err != nil {
			slog.Warn("[GOBLE] pairing failed", "addr", h.device.Address, "error", err)
			h.emit(gatt.BondStateChanged{State: gatt.BondNone})
			return
		}
		slog.Info("[GOBLE] paired", "addr", h.device.Address)
		h.emit(gatt.BondStateChanged{State: gatt.BondBonded})
	}()
	return nil
}

// handle resolves gh to an open handle.
func (t *Transport) handle(gh gatt.Handle, op string) (*handle, error) {
	h, ok := gh.(*handle)
	if !ok {
		return nil, errors.Errorf("goble: %s: foreign handle %T", op, gh)
	}
	if h.isClosed() {
		return nil, errors.Wrapf(gatt.ErrTransportUnavailable, "goble: %s", op)
	}
	return h, nil
}

// connected resolves gh to an open handle with a live link.
func (t *Transport) connected(gh gatt.Handle, op string) (*handle, Client, error) {
	h, err := t.handle(gh, op)
	if err != nil {
		return nil, nil, err
	}
	cln := h.client()
	if cln == nil {
		return nil, nil, errors.Wrapf(gatt.ErrTransportUnavailable, "goble: %s: not connected", op)
	}
	return h, cln, nil
}

// handle is one connection object. Events for it are delivered in order
// on the events queue; GATT requests run in order on the ops queue.
type handle struct {
	t       *Transport
	device  gatt.Device
	auto    bool
	handler gatt.EventHandler
	events  *queue
	ops     *queue

	mu      sync.Mutex
	cln     Client
	cancel  context.CancelFunc
	running bool
	closed  bool
	// stopping is set by Disconnect while the link goroutine winds down;
	// relaunch asks that goroutine to start a new one on its way out.
	stopping bool
	relaunch bool
}

func (h *handle) Device() gatt.Device { return h.device }

func (h *handle) emit(ev gatt.Event) {
	h.events.push(func() { h.handler(h, ev) })
}

func (h *handle) client() Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cln
}

func (h *handle) setClient(c Client) {
	h.mu.Lock()
	h.cln = c
	h.mu.Unlock()
}

func (h *handle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// start launches the link goroutine unless one is running. It reports
// whether a new one was started.
func (h *handle) start() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startLocked()
}

func (h *handle) startLocked() bool {
	if h.closed || h.running {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.running = true
	h.stopping = false
	go h.link(ctx)
	return true
}

// restart starts the link goroutine, or, when a disconnect is still in
// progress, schedules a new one for when the current goroutine exits. It
// reports false only when the link is already active.
func (h *handle) restart() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.running && h.stopping {
		h.relaunch = true
		return true
	}
	return h.startLocked()
}

// stopLink cancels the link goroutine, dropping the connection.
func (h *handle) stopLink() {
	h.mu.Lock()
	cancel := h.cancel
	if h.running {
		h.stopping = true
	}
	h.relaunch = false
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// exit marks the link goroutine as done so Reconnect can start another.
// The link is reported down when report is set. A Reconnect that arrived
// while the link was stopping starts a fresh goroutine. Both happen under
// h.mu so the new link's events always follow the disconnect.
func (h *handle) exit(report bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = false
	h.cancel = nil
	h.stopping = false
	relaunch := h.relaunch
	h.relaunch = false
	if report {
		h.emit(gatt.ConnectionStateChanged{State: gatt.LinkDisconnected})
	}
	if relaunch {
		h.startLocked()
	}
}

func (h *handle) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	cancel := h.cancel
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.ops.stop()
	h.events.stop()
	slog.Debug("[GOBLE] handle closed", "addr", h.device.Address)
}

// link dials, waits for the link to drop and, with auto-reconnect, dials
// again with exponential backoff. The first redial after a drop is
// immediate.
func (h *handle) link(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt-1, h.t.opts.ReconnectMax)
			slog.Info("[GOBLE] reconnect backoff", "addr", h.device.Address, "attempt", attempt+1, "delay", delay)
			if !sleepCtx(ctx, delay) {
				h.exit(false)
				return
			}
		}

		h.emit(gatt.ConnectionStateChanged{State: gatt.LinkConnecting})
		cln, err := h.dial(ctx)
		if err != nil {
			retry := ctx.Err() == nil && h.auto
			slog.Warn("[GOBLE] connect failed", "addr", h.device.Address, "error", err, "attempt", attempt+1)
			if !retry {
				h.exit(true)
				return
			}
			h.emit(gatt.ConnectionStateChanged{State: gatt.LinkDisconnected})
			continue
		}

		h.setClient(cln)
		slog.Info("[GOBLE] connected", "addr", h.device.Address)
		h.emit(gatt.ConnectionStateChanged{State: gatt.LinkConnected})

		requested := h.watch(ctx, cln)
		h.setClient(nil)
		retry := !requested && h.auto
		if requested {
			slog.Info("[GOBLE] disconnected", "addr", h.device.Address)
		} else {
			slog.Warn("[GOBLE] link lost", "addr", h.device.Address, "reconnect", retry)
		}
		if !retry {
			h.exit(true)
			return
		}
		h.emit(gatt.ConnectionStateChanged{State: gatt.LinkDisconnected})
		attempt = -1
	}
}

func (h *handle) dial(ctx context.Context) (Client, error) {
	if h.t.opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.t.opts.DialTimeout)
		defer cancel()
	}
	cln, err := h.t.dial(ctx, h.device.Address)
	if err != nil {
		return nil, errors.Wrapf(err, "goble: dial %s", h.device.Address)
	}
	return cln, nil
}

// watch blocks until the link drops or ctx is cancelled. It reports
// whether the drop was requested locally.
func (h *handle) watch(ctx context.Context, cln Client) bool {
	select {
	case <-cln.Disconnected():
		return ctx.Err() != nil
	case <-ctx.Done():
		if err := cln.ClearSubscriptions(); err != nil {
			slog.Debug("[GOBLE] clear subscriptions", "error", err)
		}
		if err := cln.CancelConnection(); err != nil {
			slog.Warn("[GOBLE] cancel connection failed", "addr", h.device.Address, "error", err)
		}
		return true
	}
}

// statusOf maps a go-ble error onto an ATT status.
func statusOf(err error) gatt.Status {
	if err == nil {
		return gatt.StatusSuccess
	}
	var attErr ble.ATTError
	if errors.As(err, &attErr) {
		return gatt.Status(attErr)
	}
	return gatt.StatusFailure
}

// convertProfile snapshots a discovered profile. UUIDs are canonicalized
// and the go-ble objects are kept as Ref.
func convertProfile(p *ble.Profile) []gatt.Service {
	if p == nil {
		return nil
	}
	services := make([]gatt.Service, 0, len(p.Services))
	for _, s := range p.Services {
		svc := gatt.Service{UUID: canonicalUUID(s.UUID)}
		for _, c := range s.Characteristics {
			ch := gatt.Characteristic{
				UUID:        canonicalUUID(c.UUID),
				ServiceUUID: svc.UUID,
				Properties:  gatt.Property(c.Property),
				Ref:         c,
			}
			for _, d := range c.Descriptors {
				ch.Descriptors = append(ch.Descriptors, gatt.Descriptor{
					UUID:               canonicalUUID(d.UUID),
					CharacteristicUUID: ch.UUID,
					Ref:                d,
				})
			}
			svc.Characteristics = append(svc.Characteristics, ch)
		}
		services = append(services, svc)
	}
	return services
}

func canonicalUUID(u ble.UUID) string {
	s, err := gatt.NormalizeUUID(u.String())
	if err != nil {
		return u.String()
	}
	return s
}
