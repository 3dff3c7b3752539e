//go:build !linux

package i2cdev

import "github.com/moffa90/go-sigmadsp/protocol"

func statusFromErrno(err error) protocol.Status {
	return protocol.StatusOther
}
