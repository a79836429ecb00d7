package gatt

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/google/uuid"
)

// Option configures a Client.
type Option func(*Client)

// WithListener registers the initial listener.
func WithListener(l Listener) Option {
	return func(c *Client) { c.listener = l }
}

// WithAutoReconnect controls whether Connect asks the transport to
// re-establish dropped links on its own. Defaults to true.
func WithAutoReconnect(enabled bool) Option {
	return func(c *Client) { c.autoReconnect = enabled }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// session is the state of one connect/close cycle.
type session struct {
	id       uuid.UUID
	device   Device
	handle   Handle
	services []Service
	bindings Bindings
	log      *slog.Logger

	// subscribed holds the keys of characteristics with notifications on.
	subscribed mapset.Set
}

func newSession(device Device, log *slog.Logger) *session {
	id := uuid.New()
	return &session{
		id:         id,
		device:     device,
		subscribed: mapset.NewSet(),
		log:        log.With("session", id.String(), "device", device.Address),
	}
}

func subscriptionKey(c Characteristic) string {
	return c.ServiceUUID + "/" + c.UUID
}

// subscriptions returns the discovered characteristics whose keys are in
// the subscribed set.
func (s *session) subscriptions() []Characteristic {
	if s.subscribed.Cardinality() == 0 {
		return nil
	}
	var chars []Characteristic
	for _, svc := range s.services {
		for _, c := range svc.Characteristics {
			if s.subscribed.Contains(subscriptionKey(c)) {
				chars = append(chars, c)
			}
		}
	}
	return chars
}

// Client is the GATT client for a single peripheral. It is safe for
// concurrent use; transport events may arrive on any goroutine.
type Client struct {
	transport     Transport
	autoReconnect bool
	log           *slog.Logger

	mu       sync.Mutex
	cfg      RoleConfig
	listener Listener
	state    State
	sess     *session

	// pending holds listener notifications in the order they were raised.
	// Exactly one goroutine drains it at a time.
	pending    []func(Listener)
	delivering bool
}

// NewClient creates a Client over transport. The role config is
// normalized; an invalid UUID is an error.
func NewClient(transport Transport, cfg RoleConfig, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, errors.New("gatt: nil transport")
	}
	norm, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	c := &Client{
		transport:     transport,
		autoReconnect: true,
		log:           slog.Default(),
		cfg:           norm,
		state:         StateNone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetListener replaces the listener. Notifications already queued are
// delivered to the new listener.
func (c *Client) SetListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = l
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Config returns the role config that the next discovery will use.
func (c *Client) Config() RoleConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Bindings returns the role bindings of the last discovery cycle.
func (c *Client) Bindings() Bindings {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return Bindings{}
	}
	return c.sess.bindings
}

// Services returns the services of the last discovery cycle.
func (c *Client) Services() []Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return nil
	}
	return c.sess.services
}

// Subscriptions returns the number of characteristics with notifications
// enabled in the current session.
func (c *Client) Subscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return 0
	}
	return c.sess.subscribed.Cardinality()
}

func (c *Client) SetServiceUUID(uuid string) error {
	return c.setUUID("service", uuid, func(cfg *RoleConfig, v string) { cfg.ServiceUUID = v })
}

func (c *Client) SetWriteCharacteristic(uuid string) error {
	return c.setUUID("info_write", uuid, func(cfg *RoleConfig, v string) { cfg.InfoWriteUUID = v })
}

func (c *Client) SetReadCharacteristic(uuid string) error {
	return c.setUUID("info_read", uuid, func(cfg *RoleConfig, v string) { cfg.InfoReadUUID = v })
}

func (c *Client) SetSyncWriteCharacteristic(uuid string) error {
	return c.setUUID("sync_write", uuid, func(cfg *RoleConfig, v string) { cfg.SyncWriteUUID = v })
}

func (c *Client) SetSyncReadCharacteristic(uuid string) error {
	return c.setUUID("sync_read", uuid, func(cfg *RoleConfig, v string) { cfg.SyncReadUUID = v })
}

// SetConfigUUID sets the notification config descriptor. An empty uuid
// restores the standard CCCD.
func (c *Client) SetConfigUUID(uuid string) error {
	if uuid == "" {
		uuid = CCCDUUID
	}
	return c.setUUID("notify_config", uuid, func(cfg *RoleConfig, v string) { cfg.NotifyConfigUUID = v })
}

// setUUID stores a role UUID. It takes effect at the next discovery; roles
// already resolved are untouched.
func (c *Client) setUUID(name, uuid string, set func(*RoleConfig, string)) error {
	v := ""
	if uuid != "" {
		n, err := NormalizeUUID(uuid)
		if err != nil {
			return fmt.Errorf("gatt: %s uuid: %w", name, err)
		}
		v = n
	}
	c.mu.Lock()
	set(&c.cfg, v)
	c.mu.Unlock()
	return nil
}

// Connect starts a connection to device. It returns once the request is
// handed to the transport; progress is reported through the listener.
func (c *Client) Connect(device Device) error {
	c.mu.Lock()
	if !c.state.canConnect() {
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("gatt: connect in state %s: %w", st, ErrAlreadyConnected)
	}
	old := c.sess
	sess := newSession(device, c.log)
	c.sess = sess
	c.setState(StateConnecting)
	c.mu.Unlock()
	c.flush()

	if old != nil && old.handle != nil {
		if err := c.transport.Close(old.handle); err != nil {
			old.log.Warn("[GATT] failed to release previous handle", "error", err)
		}
	}

	h, err := c.transport.Connect(device, c.autoReconnect, func(h Handle, ev Event) {
		c.handleEvent(sess, h, ev)
	})

	c.mu.Lock()
	if c.sess != sess {
		// Closed while the transport was connecting.
		c.mu.Unlock()
		if err == nil {
			_ = c.transport.Close(h)
		}
		sess.log.Debug("[GATT] session closed during connect")
		return nil
	}
	if err != nil {
		c.sess = nil
		c.setState(StateDisconnected)
		c.mu.Unlock()
		c.flush()
		sess.log.Warn("[GATT] connect failed", "error", err)
		return fmt.Errorf("gatt: connect to %s: %w", device.Address, err)
	}
	if sess.handle == nil {
		sess.handle = h
	}
	c.mu.Unlock()

	sess.log.Info("[GATT] connecting", "auto_reconnect", c.autoReconnect)
	return nil
}

// Reconnect asks the transport to re-establish the link on the existing
// handle. It is a no-op without one.
func (c *Client) Reconnect() error {
	h, sess := c.current()
	if h == nil {
		return nil
	}
	if err := c.transport.Reconnect(h); err != nil {
		return fmt.Errorf("gatt: reconnect: %w", err)
	}
	sess.log.Info("[GATT] reconnect requested")
	return nil
}

// Disconnect requests link teardown. The state changes when the transport
// confirms it.
func (c *Client) Disconnect() error {
	h, sess := c.current()
	if h == nil {
		return fmt.Errorf("gatt: disconnect: %w", ErrTransportUnavailable)
	}
	if err := c.transport.Disconnect(h); err != nil {
		return fmt.Errorf("gatt: disconnect: %w", err)
	}
	sess.log.Info("[GATT] disconnect requested")
	return nil
}

// Close tears down the session and releases the transport handle. The
// state is None afterwards. Close may be called any number of times.
func (c *Client) Close() error {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	if c.state != StateNone {
		c.setState(StateNone)
	}
	c.mu.Unlock()
	c.flush()

	if sess == nil || sess.handle == nil {
		return nil
	}
	c.mu.Lock()
	subs := sess.subscriptions()
	c.mu.Unlock()
	for _, ch := range subs {
		if !c.transport.SetNotify(sess.handle, ch, false) {
			sess.log.Debug("[GATT] unsubscribe on close failed", "uuid", ch.UUID)
		}
	}
	sess.subscribed.Clear()
	if err := c.transport.Disconnect(sess.handle); err != nil {
		sess.log.Debug("[GATT] disconnect on close", "error", err)
	}
	if err := c.transport.Close(sess.handle); err != nil {
		sess.log.Warn("[GATT] failed to release handle", "error", err)
	}
	sess.log.Info("[GATT] closed")
	return nil
}

// Bond starts pairing with the connected device if it is not bonded yet.
func (c *Client) Bond() error {
	h, sess := c.current()
	if h == nil {
		return fmt.Errorf("gatt: bond: %w", ErrTransportUnavailable)
	}
	if st := c.transport.BondState(h); st != BondNone {
		sess.log.Debug("[GATT] bond skipped", "bond_state", st)
		return nil
	}
	if err := c.transport.CreateBond(h); err != nil {
		return fmt.Errorf("gatt: bond: %w", err)
	}
	sess.log.Info("[GATT] bond requested")
	return nil
}

// Unbond removes the pairing with the session's device.
func (c *Client) Unbond() error {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return fmt.Errorf("gatt: unbond: %w", ErrTransportUnavailable)
	}
	return c.UnbondDevice(sess.device)
}

// UnbondDevice removes the pairing with device. It needs a transport that
// implements Unbonder.
func (c *Client) UnbondDevice(device Device) error {
	u, ok := c.transport.(Unbonder)
	if !ok {
		return fmt.Errorf("gatt: unbond %s: %w", device.Address, ErrPrivilegedOperationUnsupported)
	}
	if err := u.RemoveBond(device); err != nil {
		return fmt.Errorf("gatt: unbond %s: %w", device.Address, err)
	}
	c.log.Info("[GATT] unbond requested", "device", device.Address)
	return nil
}

// Write sends data to the InfoWrite characteristic. A nil error means the
// write was submitted; its outcome arrives through Listener.OnWriteData.
func (c *Client) Write(data []byte) error {
	return c.writeRole(RoleInfoWrite, data)
}

// WriteSync sends data to the SyncWrite characteristic.
func (c *Client) WriteSync(data []byte) error {
	return c.writeRole(RoleSyncWrite, data)
}

// WriteUUID sends data to the characteristic with the given UUID inside
// the configured service, regardless of role bindings.
func (c *Client) WriteUUID(data []byte, charUUID string) error {
	c.mu.Lock()
	sess := c.sess
	if sess == nil || sess.handle == nil {
		c.mu.Unlock()
		return fmt.Errorf("gatt: write %s: %w", charUUID, ErrTransportUnavailable)
	}
	h := sess.handle
	serviceUUID := c.cfg.ServiceUUID
	services := sess.services
	c.mu.Unlock()

	var (
		svc   Service
		found bool
	)
	for _, s := range services {
		if EqualUUID(s.UUID, serviceUUID) {
			svc, found = s, true
			break
		}
	}
	if !found {
		sess.log.Error("[GATT] service not found", "service", serviceUUID)
		return fmt.Errorf("gatt: write %s: service %q: %w", charUUID, serviceUUID, ErrCharacteristicNotFound)
	}
	ch, ok := svc.Characteristic(charUUID)
	if !ok {
		sess.log.Error("[GATT] characteristic not found", "service", serviceUUID, "uuid", charUUID)
		return fmt.Errorf("gatt: write %s: %w", charUUID, ErrCharacteristicNotFound)
	}
	return c.submit(sess, h, ch, data)
}

func (c *Client) writeRole(r Role, data []byte) error {
	c.mu.Lock()
	sess := c.sess
	if sess == nil || sess.handle == nil {
		c.mu.Unlock()
		return fmt.Errorf("gatt: write %s: %w", r, ErrTransportUnavailable)
	}
	h := sess.handle
	ch, ok := sess.bindings.Get(r)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("gatt: write %s: %w", r, ErrRoleUnbound)
	}
	return c.submit(sess, h, ch, data)
}

func (c *Client) submit(sess *session, h Handle, ch Characteristic, data []byte) error {
	ok := c.transport.WriteCharacteristic(h, ch, data)
	sess.log.Debug("[GATT] write", "uuid", ch.UUID, "bytes", len(data), "submitted", ok)
	if !ok {
		return fmt.Errorf("gatt: write %s: %w", ch.UUID, ErrWriteNotSubmitted)
	}
	return nil
}

// current returns the open handle and its session, or nil.
func (c *Client) current() (Handle, *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || c.sess.handle == nil {
		return nil, nil
	}
	return c.sess.handle, c.sess
}

// handleEvent is the single entry point for transport events. Events for
// a session other than the current one are dropped.
func (c *Client) handleEvent(sess *session, h Handle, ev Event) {
	c.mu.Lock()
	if c.sess != sess {
		c.mu.Unlock()
		sess.log.Debug("[GATT] dropping event for stale session", "event", fmt.Sprintf("%T", ev))
		return
	}
	if sess.handle == nil {
		sess.handle = h
	}

	var next func()
	switch e := ev.(type) {
	case ConnectionStateChanged:
		c.setState(stateForLink(e.State))
		if e.State == LinkDisconnected {
			// The peer forgets subscriptions with the link.
			sess.subscribed.Clear()
		}
		if e.State == LinkConnected {
			next = func() {
				if err := c.transport.DiscoverServices(h); err != nil {
					c.report(sess, fmt.Errorf("gatt: discover services: %w", err))
				}
			}
		}
	case ServicesDiscovered:
		next = c.discovered(sess, h, e)
	case CharacteristicRead:
		c.emit(func(l Listener) { l.OnReadData(e.Characteristic, e.Value, e.Status) })
	case CharacteristicWritten:
		c.emit(func(l Listener) { l.OnWriteData(e.Characteristic, e.Status) })
	case CharacteristicChanged:
		c.emit(func(l Listener) { l.OnDataChanged(e.Characteristic, e.Value) })
	case BondStateChanged:
		switch e.State {
		case BondBonded:
			c.emit(func(l Listener) { l.OnBond() })
		case BondNone:
			c.emit(func(l Listener) { l.OnUnBond() })
		}
	default:
		sess.log.Warn("[GATT] unhandled event", "event", fmt.Sprintf("%T", ev))
	}
	c.mu.Unlock()
	c.flush()

	if next != nil {
		next()
	}
}

// discovered stores the outcome of a discovery cycle and returns the work
// to run once the lock is released. Must be called with c.mu held.
func (c *Client) discovered(sess *session, h Handle, e ServicesDiscovered) func() {
	if !c.state.linkUp() {
		sess.log.Debug("[GATT] ignoring discovery result without a link", "state", c.state)
		return nil
	}
	if e.Status != StatusSuccess {
		err := fmt.Errorf("%w: status %d", ErrDiscoveryFailed, e.Status)
		sess.log.Warn("[GATT] discovery failed", "status", e.Status)
		c.emit(func(l Listener) { l.OnError(err) })
		return nil
	}

	cfg := c.cfg
	plan := Resolve(e.Services, cfg, sess.bindings)
	sess.services = e.Services
	sess.bindings = plan.Bindings
	services := e.Services
	c.emit(func(l Listener) { l.OnServicesDiscovered(services) })

	return func() {
		c.run(sess, h, cfg, plan.Commands)

		c.mu.Lock()
		if c.sess == sess && c.state.linkUp() {
			for _, svc := range services {
				svc := svc
				c.emit(func(l Listener) { l.OnCharacteristicsDiscovered(svc, svc.Characteristics) })
			}
			c.setState(StateServicesDiscovered)
		}
		c.mu.Unlock()
		c.flush()
		sess.log.Info("[GATT] services resolved", "services", len(services), "commands", len(plan.Commands))
	}
}

// run issues the resolver's commands in order.
func (c *Client) run(sess *session, h Handle, cfg RoleConfig, cmds []Command) {
	for _, cmd := range cmds {
		ch := cmd.Characteristic
		switch cmd.Kind {
		case CommandRead:
			if err := c.transport.ReadCharacteristic(h, ch); err != nil {
				sess.log.Warn("[GATT] read failed", "uuid", ch.UUID, "error", err)
			}
		case CommandDisableNotify:
			c.transport.SetNotify(h, ch, false)
			sess.subscribed.Remove(subscriptionKey(ch))
		case CommandEnableNotify:
			if !c.transport.SetNotify(h, ch, true) {
				sess.log.Warn("[GATT] subscribe failed", "uuid", ch.UUID)
				continue
			}
			sess.subscribed.Add(subscriptionKey(ch))
			sess.log.Debug("[GATT] subscribed", "uuid", ch.UUID)
			if !cmd.WriteConfigDescriptor {
				continue
			}
			d, ok := ch.Descriptor(cfg.NotifyConfigUUID)
			if !ok {
				c.report(sess, fmt.Errorf("gatt: descriptor %s on %s: %w", cfg.NotifyConfigUUID, ch.UUID, ErrCharacteristicNotFound))
				continue
			}
			if err := c.transport.WriteDescriptor(h, d, EnableNotificationValue); err != nil {
				c.report(sess, fmt.Errorf("gatt: write descriptor on %s: %w", ch.UUID, err))
			}
		}
	}
}

// report logs err and forwards it to the listener if sess is current.
func (c *Client) report(sess *session, err error) {
	sess.log.Warn("[GATT] error", "error", err)
	c.mu.Lock()
	if c.sess == sess {
		c.emit(func(l Listener) { l.OnError(err) })
	}
	c.mu.Unlock()
	c.flush()
}

// setState records s and queues the listener notification. Must be called
// with c.mu held.
func (c *Client) setState(s State) {
	c.state = s
	c.emit(func(l Listener) { l.OnServiceStateChanged(s) })
}

// emit queues a listener notification. Must be called with c.mu held.
func (c *Client) emit(fn func(Listener)) {
	c.pending = append(c.pending, fn)
}

// flush delivers queued notifications without holding c.mu. If another
// goroutine, or an outer frame of this one, is already delivering, it
// picks up the new entries in order.
func (c *Client) flush() {
	c.mu.Lock()
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	for len(c.pending) > 0 {
		fn := c.pending[0]
		c.pending = c.pending[1:]
		l := c.listener
		c.mu.Unlock()
		if l != nil {
			fn(l)
		}
		c.mu.Lock()
	}
	c.delivering = false
	c.mu.Unlock()
}
