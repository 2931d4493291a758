package mavconn

import (
	"errors"
	"fmt"
)

// ErrTxQueueFull returned by SendMessage and SendBytes when the outbound
// queue has no free slot. The message is not queued, the channel stays
// usable and later sends may succeed once the writer drains the queue.
var ErrTxQueueFull = errors.New("tx queue full")

// DeviceError wraps an error reported by the underlying medium, keeping
// the device address for log and error messages.
type DeviceError struct {
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

func newDeviceError(device string, err error) error {
	if err == nil {
		return nil
	}
	return &DeviceError{Device: device, Err: err}
}
