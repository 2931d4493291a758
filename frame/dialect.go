package frame

import (
	"fmt"
)

// Dialect is the set of message ids a codec can encode and validate. Each
// entry carries the CRC extra byte derived from the message definition, and
// a human readable name used by diagnostics.
//
// A Dialect is built once before traffic starts and must not be modified
// while a codec uses it.
type Dialect struct {
	extras map[uint8]uint8
	names  map[uint8]string
}

// NewDialect create an empty dialect.
func NewDialect() *Dialect {
	return &Dialect{
		extras: make(map[uint8]uint8),
		names:  make(map[uint8]string),
	}
}

// Register add one message definition, returning the dialect for chaining.
func (d *Dialect) Register(id uint8, name string, crcExtra uint8) *Dialect {
	d.extras[id] = crcExtra
	d.names[id] = name
	return d
}

// CRCExtra returns the checksum seed byte for a message id.
func (d *Dialect) CRCExtra(id uint8) (uint8, bool) {
	extra, ok := d.extras[id]
	return extra, ok
}

// Name returns the registered name of a message id, or a numeric placeholder
// for unregistered ids.
func (d *Dialect) Name(id uint8) string {
	if name, ok := d.names[id]; ok {
		return name
	}
	return fmt.Sprintf("MSG_%d", id)
}

// Len returns the number of registered messages.
func (d *Dialect) Len() int {
	return len(d.extras)
}

var commonDialect = NewDialect().
	Register(0, "HEARTBEAT", 50).
	Register(1, "SYS_STATUS", 124).
	Register(2, "SYSTEM_TIME", 137).
	Register(4, "PING", 237).
	Register(20, "PARAM_REQUEST_READ", 214).
	Register(21, "PARAM_REQUEST_LIST", 159).
	Register(22, "PARAM_VALUE", 220).
	Register(23, "PARAM_SET", 168).
	Register(24, "GPS_RAW_INT", 24).
	Register(30, "ATTITUDE", 39).
	Register(32, "LOCAL_POSITION_NED", 185).
	Register(33, "GLOBAL_POSITION_INT", 104).
	Register(35, "RC_CHANNELS_RAW", 244).
	Register(42, "MISSION_CURRENT", 28).
	Register(74, "VFR_HUD", 20).
	Register(76, "COMMAND_LONG", 152).
	Register(77, "COMMAND_ACK", 143).
	Register(253, "STATUSTEXT", 83)

// Common returns the built-in subset of the common message set that covers
// basic telemetry. The returned dialect is shared; treat it as read-only and
// derive a new dialect instead of registering onto it.
func Common() *Dialect {
	return commonDialect
}
