package gatt

// CommandKind identifies a follow-up transport command issued by the
// resolver.
type CommandKind int

const (
	CommandRead CommandKind = iota
	CommandEnableNotify
	CommandDisableNotify
)

func (k CommandKind) String() string {
	switch k {
	case CommandRead:
		return "read"
	case CommandEnableNotify:
		return "enable-notify"
	case CommandDisableNotify:
		return "disable-notify"
	default:
		return "unknown"
	}
}

// Command is a transport command to run after resolution.
type Command struct {
	Kind           CommandKind
	Characteristic Characteristic
	// WriteConfigDescriptor requests a write of EnableNotificationValue to
	// the notification config descriptor once SetNotify succeeds.
	WriteConfigDescriptor bool
}

// Plan is the outcome of one discovery cycle.
type Plan struct {
	Bindings Bindings
	Commands []Command
}

// Resolve assigns roles for one discovery cycle and lists the commands
// needed to activate them. previous is the binding set of the prior cycle;
// it is only consulted to tear down a stale info subscription.
//
// With no info read UUID, the first readable characteristic gets an ad hoc
// read and the last notifiable one becomes InfoNotify. With no info write
// UUID, the last writable characteristic becomes InfoWrite.
func Resolve(services []Service, cfg RoleConfig, previous Bindings) Plan {
	var (
		p     Plan
		armed bool
	)
	for _, svc := range services {
		for _, c := range svc.Characteristics {
			if c.Readable() && cfg.InfoReadUUID == "" && !armed {
				armed = true
				if previous.InfoNotify != nil {
					p.Commands = append(p.Commands, Command{Kind: CommandDisableNotify, Characteristic: *previous.InfoNotify})
				}
				p.Commands = append(p.Commands, Command{Kind: CommandRead, Characteristic: c})
			}

			if c.Notifiable() {
				if cfg.InfoReadUUID == "" {
					p.Bindings.InfoNotify = bind(c)
					p.Commands = append(p.Commands, Command{Kind: CommandEnableNotify, Characteristic: c})
				} else if EqualUUID(c.UUID, cfg.InfoReadUUID) {
					p.Bindings.InfoNotify = bind(c)
					p.Commands = append(p.Commands, Command{Kind: CommandEnableNotify, Characteristic: c, WriteConfigDescriptor: true})
				}
				if EqualUUID(c.UUID, cfg.SyncReadUUID) {
					p.Bindings.SyncNotify = bind(c)
					p.Commands = append(p.Commands, Command{Kind: CommandEnableNotify, Characteristic: c, WriteConfigDescriptor: true})
				}
			}

			if c.Writable() {
				if cfg.InfoWriteUUID == "" || EqualUUID(c.UUID, cfg.InfoWriteUUID) {
					p.Bindings.InfoWrite = bind(c)
				}
				if EqualUUID(c.UUID, cfg.SyncWriteUUID) {
					p.Bindings.SyncWrite = bind(c)
				}
			}
		}
	}
	return p
}

func bind(c Characteristic) *Characteristic {
	return &c
}
