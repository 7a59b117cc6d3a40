package cassandra

import (
	"net"
	"time"

	"github.com/gocql/gocql"
)

// SocketOptions tunes the TCP sockets the driver opens. Every field is
// optional; nil leaves the driver/OS default untouched.
//
// ConnectTimeout and KeepAlive map onto first-class gocql settings. The
// remaining options have no gocql knob and are applied through a custom
// dialer that sets them on the raw socket before connecting.
type SocketOptions struct {
	ConnectTimeout *time.Duration
	KeepAlive      *time.Duration

	ReuseAddress *bool
	NoDelay      *bool
	// Linger in seconds; a negative value disables lingering.
	Linger            *int
	ReceiveBufferSize *int
	SendBufferSize    *int
}

func (s *SocketOptions) apply(cluster *gocql.ClusterConfig) {
	if s.ConnectTimeout != nil {
		cluster.ConnectTimeout = *s.ConnectTimeout
	}
	if s.KeepAlive != nil {
		cluster.SocketKeepalive = *s.KeepAlive
	}
	if s.needsDialer() {
		cluster.Dialer = s.dialer()
	}
}

func (s *SocketOptions) needsDialer() bool {
	return s.ReuseAddress != nil || s.NoDelay != nil || s.Linger != nil ||
		s.ReceiveBufferSize != nil || s.SendBufferSize != nil
}

func (s *SocketOptions) dialer() *net.Dialer {
	d := &net.Dialer{Control: s.control}
	if s.ConnectTimeout != nil {
		d.Timeout = *s.ConnectTimeout
	}
	if s.KeepAlive != nil {
		d.KeepAlive = *s.KeepAlive
	}
	return d
}
