package gatt

import "fmt"

// Role is a functional label assigned to at most one discovered
// characteristic per discovery cycle.
type Role int

const (
	RoleInfoWrite Role = iota
	RoleInfoNotify
	RoleSyncWrite
	RoleSyncNotify
)

func (r Role) String() string {
	switch r {
	case RoleInfoWrite:
		return "info-write"
	case RoleInfoNotify:
		return "info-notify"
	case RoleSyncWrite:
		return "sync-write"
	case RoleSyncNotify:
		return "sync-notify"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// RoleConfig maps roles to characteristic UUIDs. An empty read or write
// UUID selects the characteristic by capability instead.
type RoleConfig struct {
	ServiceUUID      string
	InfoWriteUUID    string
	InfoReadUUID     string
	SyncWriteUUID    string
	SyncReadUUID     string
	NotifyConfigUUID string
}

// DefaultRoleConfig returns a config with every role left to capability
// inference and the standard notification config descriptor.
func DefaultRoleConfig() RoleConfig {
	return RoleConfig{NotifyConfigUUID: CCCDUUID}
}

// Normalize returns a copy of c with every UUID in canonical form.
// An empty NotifyConfigUUID is replaced by CCCDUUID.
func (c RoleConfig) Normalize() (RoleConfig, error) {
	fields := []struct {
		name string
		v    *string
	}{
		{"service", &c.ServiceUUID},
		{"info_write", &c.InfoWriteUUID},
		{"info_read", &c.InfoReadUUID},
		{"sync_write", &c.SyncWriteUUID},
		{"sync_read", &c.SyncReadUUID},
		{"notify_config", &c.NotifyConfigUUID},
	}
	for _, f := range fields {
		if *f.v == "" {
			continue
		}
		n, err := NormalizeUUID(*f.v)
		if err != nil {
			return RoleConfig{}, fmt.Errorf("gatt: %s uuid: %w", f.name, err)
		}
		*f.v = n
	}
	if c.NotifyConfigUUID == "" {
		c.NotifyConfigUUID = CCCDUUID
	}
	return c, nil
}

// Bindings records the characteristic bound to each role. A nil field
// means the role is unbound.
type Bindings struct {
	InfoWrite  *Characteristic
	InfoNotify *Characteristic
	SyncWrite  *Characteristic
	SyncNotify *Characteristic
}

// Get returns the characteristic bound to r.
func (b Bindings) Get(r Role) (Characteristic, bool) {
	var c *Characteristic
	switch r {
	case RoleInfoWrite:
		c = b.InfoWrite
	case RoleInfoNotify:
		c = b.InfoNotify
	case RoleSyncWrite:
		c = b.SyncWrite
	case RoleSyncNotify:
		c = b.SyncNotify
	}
	if c == nil {
		return Characteristic{}, false
	}
	return *c, true
}
