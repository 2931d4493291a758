//go:build !linux

package mavconn

import (
	"errors"
	"os"
)

func openSerial(device string, baud int) (*os.File, error) {
	return nil, errors.ErrUnsupported
}
