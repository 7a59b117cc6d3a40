package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/goriiin/go-cassandra-provisioner/pkg/cassandra"
)

// CassandraConfig holds the raw environment configuration for the
// provisioner. Values stay as strings here; parsing happens when the
// cluster configuration is assembled.
type CassandraConfig struct {
	ContactPoints string
	Port          string
	Keyspace      string
	Compression   string
	Consistency   string
	Username      string
	Password      string
	Timeout       string
	ProtoVersion  string

	ReplicationFactor string
	CreateKeyspace    string
	DropKeyspace      string
	StartupScripts    string
	ShutdownScripts   string
	MetricsEnabled    string

	DisableInitialHostLookup string
}

// NewCassandraConfig reads the CASSANDRA_* environment variables, falling
// back to defaults suitable for a local single-node cluster.
func NewCassandraConfig() *CassandraConfig {
	return &CassandraConfig{
		ContactPoints:            getEnv("CASSANDRA_CONTACT_POINTS", "localhost"),
		Port:                     getEnv("CASSANDRA_PORT", "9042"),
		Keyspace:                 getEnv("CASSANDRA_KEYSPACE", ""),
		Compression:              getEnv("CASSANDRA_COMPRESSION", ""),
		Consistency:              getEnv("CASSANDRA_CONSISTENCY", "QUORUM"),
		Username:                 getEnv("CASSANDRA_USERNAME", ""),
		Password:                 getEnv("CASSANDRA_PASSWORD", ""),
		Timeout:                  getEnv("CASSANDRA_TIMEOUT", "10s"),
		ProtoVersion:             getEnv("CASSANDRA_PROTO_VERSION", "4"),
		ReplicationFactor:        getEnv("CASSANDRA_REPLICATION_FACTOR", "1"),
		CreateKeyspace:           getEnv("CASSANDRA_CREATE_KEYSPACE", "true"),
		DropKeyspace:             getEnv("CASSANDRA_DROP_KEYSPACE", "false"),
		StartupScripts:           getEnv("CASSANDRA_STARTUP_SCRIPTS", ""),
		ShutdownScripts:          getEnv("CASSANDRA_SHUTDOWN_SCRIPTS", ""),
		MetricsEnabled:           getEnv("CASSANDRA_METRICS_ENABLED", "true"),
		DisableInitialHostLookup: getEnv("CASSANDRA_DISABLE_INITIAL_HOST_LOOKUP", "false"),
	}
}

// ClusterConfig assembles the declarative cluster configuration the
// factory consumes.
func (c *CassandraConfig) ClusterConfig() (cassandra.ClusterConfig, error) {
	var cfg cassandra.ClusterConfig

	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return cfg, fmt.Errorf("invalid CASSANDRA_PORT %q: %w", c.Port, err)
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return cfg, fmt.Errorf("invalid CASSANDRA_TIMEOUT %q: %w", c.Timeout, err)
	}
	protoVersion, err := strconv.Atoi(c.ProtoVersion)
	if err != nil {
		return cfg, fmt.Errorf("invalid CASSANDRA_PROTO_VERSION %q: %w", c.ProtoVersion, err)
	}
	replicationFactor, err := strconv.Atoi(c.ReplicationFactor)
	if err != nil {
		return cfg, fmt.Errorf("invalid CASSANDRA_REPLICATION_FACTOR %q: %w", c.ReplicationFactor, err)
	}
	metricsEnabled, err := strconv.ParseBool(c.MetricsEnabled)
	if err != nil {
		return cfg, fmt.Errorf("invalid CASSANDRA_METRICS_ENABLED %q: %w", c.MetricsEnabled, err)
	}
	disableLookup, err := strconv.ParseBool(c.DisableInitialHostLookup)
	if err != nil {
		return cfg, fmt.Errorf("invalid CASSANDRA_DISABLE_INITIAL_HOST_LOOKUP %q: %w", c.DisableInitialHostLookup, err)
	}

	cfg = cassandra.ClusterConfig{
		ContactPoints:            strings.Split(c.ContactPoints, ","),
		Port:                     port,
		Keyspace:                 c.Keyspace,
		Compression:              cassandra.Compression(c.Compression),
		Consistency:              c.Consistency,
		ProtoVersion:             protoVersion,
		Timeout:                  timeout,
		Metrics:                  &metricsEnabled,
		DisableInitialHostLookup: disableLookup,
		StartupScripts:           splitScripts(c.StartupScripts),
		ShutdownScripts:          splitScripts(c.ShutdownScripts),
	}

	if c.Username != "" {
		cfg.Authenticator = gocql.PasswordAuthenticator{
			Username: c.Username,
			Password: c.Password,
		}
	}

	if c.Keyspace != "" {
		if create, err := strconv.ParseBool(c.CreateKeyspace); err != nil {
			return cfg, fmt.Errorf("invalid CASSANDRA_CREATE_KEYSPACE %q: %w", c.CreateKeyspace, err)
		} else if create {
			cfg.KeyspaceCreations = []cassandra.CreateKeyspace{{
				Name:              c.Keyspace,
				ReplicationFactor: replicationFactor,
				IfNotExists:       true,
			}}
		}
		if drop, err := strconv.ParseBool(c.DropKeyspace); err != nil {
			return cfg, fmt.Errorf("invalid CASSANDRA_DROP_KEYSPACE %q: %w", c.DropKeyspace, err)
		} else if drop {
			cfg.KeyspaceDrops = []cassandra.DropKeyspace{{
				Name:     c.Keyspace,
				IfExists: true,
			}}
		}
	}

	return cfg, nil
}

// splitScripts turns a ";"-separated statement list into individual
// statements, dropping empty segments.
func splitScripts(raw string) []string {
	var scripts []string
	for _, stmt := range strings.Split(raw, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			scripts = append(scripts, stmt)
		}
	}
	return scripts
}

// getEnv reads an environment variable with a fallback value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
