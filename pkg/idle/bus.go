package idle

import (
	"github.com/godbus/dbus/v5"

	"github.com/sysidle/sysidle/pkg/interfaces"
)

// dbusBus adapts a godbus connection to the narrow interfaces.Bus
// surface the detection layer uses.
type dbusBus struct {
	conn *dbus.Conn
}

// ConnectSystemBus opens a private connection to the system bus.
func ConnectSystemBus() (interfaces.Bus, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}
	return &dbusBus{conn: conn}, nil
}

// ActivatableNames lists every service the bus can activate,
// including ones not currently running.
func (b *dbusBus) ActivatableNames() ([]string, error) {
	var names []string
	err := b.conn.BusObject().Call("org.freedesktop.DBus.ListActivatableNames", 0).Store(&names)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Call invokes method on the object at path owned by dest and returns
// the first reply value.
func (b *dbusBus) Call(dest, path, method string, args ...interface{}) (interface{}, error) {
	call := b.conn.Object(dest, dbus.ObjectPath(path)).Call(method, 0, args...)
	if call.Err != nil {
		return nil, call.Err
	}
	if len(call.Body) == 0 {
		return nil, nil
	}
	return normalizeBusValue(call.Body[0]), nil
}

// Property reads the named property from the object at path owned by
// dest.
func (b *dbusBus) Property(dest, path, name string) (interface{}, error) {
	v, err := b.conn.Object(dest, dbus.ObjectPath(path)).GetProperty(name)
	if err != nil {
		return nil, err
	}
	return normalizeBusValue(v.Value()), nil
}

// Close releases the bus connection.
func (b *dbusBus) Close() error {
	return b.conn.Close()
}

// normalizeBusValue reduces bus wrapper types to plain Go values so
// callers stay decoupled from the bus library.
func normalizeBusValue(v interface{}) interface{} {
	switch t := v.(type) {
	case dbus.ObjectPath:
		return string(t)
	case dbus.Variant:
		return t.Value()
	default:
		return v
	}
}
