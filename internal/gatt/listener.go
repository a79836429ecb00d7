package gatt

// Listener receives state changes and data events from a Client.
// Callbacks run on the goroutine that delivered the underlying event or
// API call, never while the Client holds its lock, so a listener may call
// back into the Client.
type Listener interface {
	OnServiceStateChanged(state State)
	OnServicesDiscovered(services []Service)
	OnCharacteristicsDiscovered(service Service, characteristics []Characteristic)
	OnReadData(c Characteristic, value []byte, status Status)
	OnWriteData(c Characteristic, status Status)
	OnDataChanged(c Characteristic, value []byte)
	OnBond()
	OnUnBond()
	// OnError reports asynchronous failures that have no call site to
	// return to, such as a failed discovery.
	OnError(err error)
}

// BaseListener implements Listener with no-ops. Embed it to handle only
// some callbacks.
type BaseListener struct{}

func (BaseListener) OnServiceStateChanged(State)                           {}
func (BaseListener) OnServicesDiscovered([]Service)                        {}
func (BaseListener) OnCharacteristicsDiscovered(Service, []Characteristic) {}
func (BaseListener) OnReadData(Characteristic, []byte, Status)             {}
func (BaseListener) OnWriteData(Characteristic, Status)                    {}
func (BaseListener) OnDataChanged(Characteristic, []byte)                  {}
func (BaseListener) OnBond()                                               {}
func (BaseListener) OnUnBond()                                             {}
func (BaseListener) OnError(error)                                         {}

var _ Listener = BaseListener{}
