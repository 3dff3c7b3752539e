package i2cdev

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/moffa90/go-sigmadsp/protocol"
)

// statusFromErrno maps the errors returned by the i2c-dev driver to bus
// status codes. Adapters report a missing acknowledge as EREMOTEIO or ENXIO.
func statusFromErrno(err error) protocol.Status {
	switch {
	case errors.Is(err, unix.ENXIO):
		return protocol.StatusAddressNack
	case errors.Is(err, unix.EREMOTEIO):
		return protocol.StatusDataNack
	default:
		return protocol.StatusOther
	}
}
