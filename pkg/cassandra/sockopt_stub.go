//go:build !unix

package cassandra

import (
	"errors"
	"syscall"
)

func (s *SocketOptions) control(network, address string, conn syscall.RawConn) error {
	return errors.New("tcp-level socket options are not supported on this platform")
}
