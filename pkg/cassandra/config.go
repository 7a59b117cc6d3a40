package cassandra

import (
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/prometheus/client_golang/prometheus"
)

const DefaultPort = 9042

// Compression selects the transport compression negotiated with the cluster.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionSnappy Compression = "snappy"
)

// PoolingOptions bounds the connection pool for one host-distance class.
// Every field is optional; nil leaves the driver default untouched.
//
// gocql keeps a single fixed-size pool per host, so the connection bounds
// collapse into NumConns (core preferred over max, local class preferred
// over remote). The per-connection request thresholds have no counterpart
// in gocql and are rejected during validation instead of being silently
// dropped.
type PoolingOptions struct {
	MinSimultaneousRequests *int
	MaxSimultaneousRequests *int
	CoreConnections         *int
	MaxConnections          *int
}

// SSLOptions configures TLS for cluster connections.
type SSLOptions struct {
	CertPath               string
	KeyPath                string
	CAPath                 string
	EnableHostVerification bool
}

// ClusterConfig is the declarative description of a Cassandra cluster
// connection. It is translated field by field onto a gocql.ClusterConfig;
// zero/nil fields never override driver defaults.
type ClusterConfig struct {
	// ContactPoints is the list of initial hosts. At least one non-blank
	// entry is required.
	ContactPoints []string
	Port          int
	Keyspace      string

	Compression  Compression
	Consistency  string
	ProtoVersion int
	CQLVersion   string
	Timeout      time.Duration

	LocalPooling  *PoolingOptions
	RemotePooling *PoolingOptions
	Socket        *SocketOptions

	// Opaque driver collaborators. Held and forwarded, never interpreted.
	Authenticator       gocql.Authenticator
	HostSelectionPolicy gocql.HostSelectionPolicy
	RetryPolicy         gocql.RetryPolicy
	ReconnectionPolicy  gocql.ReconnectionPolicy

	SSL                      *SSLOptions
	DisableInitialHostLookup bool

	// Metrics controls the prometheus query/connect observers. nil means
	// enabled.
	Metrics *bool

	// MetricsRegisterer receives the observer collectors. nil means the
	// default prometheus registry.
	MetricsRegisterer prometheus.Registerer

	KeyspaceCreations []CreateKeyspace
	KeyspaceDrops     []DropKeyspace
	StartupScripts    []string
	ShutdownScripts   []string
}

// Validate reports configuration problems before any connection attempt.
func (c *ClusterConfig) Validate() error {
	if len(c.contactPoints()) == 0 {
		return &ConfigError{Field: "contactPoints", Reason: "at least one contact point is required"}
	}

	switch c.Compression {
	case "", CompressionNone, CompressionSnappy:
	default:
		return &ConfigError{Field: "compression", Reason: "unknown compression type " + string(c.Compression)}
	}

	if c.Consistency != "" {
		if _, err := gocql.ParseConsistencyWrapper(c.Consistency); err != nil {
			return &ConfigError{Field: "consistency", Reason: err.Error()}
		}
	}

	for _, p := range []struct {
		field string
		opts  *PoolingOptions
	}{
		{"localPooling", c.LocalPooling},
		{"remotePooling", c.RemotePooling},
	} {
		if p.opts == nil {
			continue
		}
		if p.opts.MinSimultaneousRequests != nil || p.opts.MaxSimultaneousRequests != nil {
			return &ConfigError{Field: p.field, Reason: "gocql has no per-connection request threshold"}
		}
	}

	return nil
}

// MetricsEnabled reports whether the observer collectors should be wired.
func (c *ClusterConfig) MetricsEnabled() bool {
	return c.Metrics == nil || *c.Metrics
}

func (c *ClusterConfig) contactPoints() []string {
	var hosts []string
	for _, h := range c.ContactPoints {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// cluster builds the gocql cluster handle. Pure mapping: every present
// optional field is applied, absent fields leave gocql.NewCluster defaults
// alone. Building a session is the caller's business.
func (c *ClusterConfig) cluster() (*gocql.ClusterConfig, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(c.contactPoints()...)
	cluster.Port = DefaultPort
	if c.Port != 0 {
		cluster.Port = c.Port
	}
	if c.Keyspace != "" {
		cluster.Keyspace = c.Keyspace
	}
	if c.Compression == CompressionSnappy {
		cluster.Compressor = gocql.SnappyCompressor{}
	}
	if c.Consistency != "" {
		// Validated above, cannot fail here.
		consistency, err := gocql.ParseConsistencyWrapper(c.Consistency)
		if err != nil {
			return nil, &ConfigError{Field: "consistency", Reason: err.Error()}
		}
		cluster.Consistency = consistency
	}
	if c.ProtoVersion != 0 {
		cluster.ProtoVersion = c.ProtoVersion
	}
	if c.CQLVersion != "" {
		cluster.CQLVersion = c.CQLVersion
	}
	if c.Timeout != 0 {
		cluster.Timeout = c.Timeout
	}

	if n := numConns(c.LocalPooling, c.RemotePooling); n != nil {
		cluster.NumConns = *n
	}
	if c.Socket != nil {
		c.Socket.apply(cluster)
	}

	if c.Authenticator != nil {
		cluster.Authenticator = c.Authenticator
	}
	if c.HostSelectionPolicy != nil {
		cluster.PoolConfig.HostSelectionPolicy = c.HostSelectionPolicy
	}
	if c.RetryPolicy != nil {
		cluster.RetryPolicy = c.RetryPolicy
	}
	if c.ReconnectionPolicy != nil {
		cluster.ReconnectionPolicy = c.ReconnectionPolicy
	}

	if c.SSL != nil {
		cluster.SslOpts = &gocql.SslOptions{
			CertPath:               c.SSL.CertPath,
			KeyPath:                c.SSL.KeyPath,
			CaPath:                 c.SSL.CAPath,
			EnableHostVerification: c.SSL.EnableHostVerification,
		}
	}
	cluster.DisableInitialHostLookup = c.DisableInitialHostLookup

	return cluster, nil
}

// numConns derives the per-host pool size. The local distance class wins
// over the remote one, core connections win over the max bound.
func numConns(local, remote *PoolingOptions) *int {
	for _, opts := range []*PoolingOptions{local, remote} {
		if opts == nil {
			continue
		}
		if opts.CoreConnections != nil {
			return opts.CoreConnections
		}
		if opts.MaxConnections != nil {
			return opts.MaxConnections
		}
	}
	return nil
}
