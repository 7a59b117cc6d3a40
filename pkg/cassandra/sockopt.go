//go:build unix

package cassandra

import "syscall"

func (s *SocketOptions) control(network, address string, conn syscall.RawConn) error {
	var optErr error
	err := conn.Control(func(fd uintptr) {
		optErr = s.setSockopts(int(fd))
	})
	if err != nil {
		return err
	}
	return optErr
}

func (s *SocketOptions) setSockopts(fd int) error {
	if s.ReuseAddress != nil {
		if err := syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_REUSEADDR, boolopt(*s.ReuseAddress)); err != nil {
			return err
		}
	}
	if s.NoDelay != nil {
		if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, boolopt(*s.NoDelay)); err != nil {
			return err
		}
	}
	if s.Linger != nil {
		linger := &syscall.Linger{}
		if *s.Linger >= 0 {
			linger.Onoff = 1
			linger.Linger = int32(*s.Linger)
		}
		if err := syscall.SetsockoptLinger(fd, syscall.SOL_SOCKET, syscall.SO_LINGER, linger); err != nil {
			return err
		}
	}
	if s.ReceiveBufferSize != nil {
		if err := syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, *s.ReceiveBufferSize); err != nil {
			return err
		}
	}
	if s.SendBufferSize != nil {
		if err := syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_SNDBUF, *s.SendBufferSize); err != nil {
			return err
		}
	}
	return nil
}

func boolopt(b bool) int {
	if b {
		return 1
	}
	return 0
}
