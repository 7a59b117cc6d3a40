package cassandra

import (
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func durPtr(v time.Duration) *time.Duration { return &v }

func TestValidateRequiresContactPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []string
	}{
		{"nil list", nil},
		{"empty list", []string{}},
		{"blank entry", []string{""}},
		{"whitespace entries", []string{"   ", "\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ClusterConfig{ContactPoints: tt.points}

			err := cfg.Validate()

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, "contactPoints", configErr.Field)
		})
	}
}

func TestCompressionMappingIsExhaustive(t *testing.T) {
	none := ClusterConfig{ContactPoints: []string{"localhost"}, Compression: CompressionNone}
	cluster, err := none.cluster()
	require.NoError(t, err)
	assert.Nil(t, cluster.Compressor)

	snappy := ClusterConfig{ContactPoints: []string{"localhost"}, Compression: CompressionSnappy}
	cluster, err = snappy.cluster()
	require.NoError(t, err)
	assert.Equal(t, gocql.SnappyCompressor{}, cluster.Compressor)

	unknown := ClusterConfig{ContactPoints: []string{"localhost"}, Compression: "lz4"}
	_, err = unknown.cluster()
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "compression", configErr.Field)
}

func TestAbsentFieldsKeepDriverDefaults(t *testing.T) {
	cfg := ClusterConfig{ContactPoints: []string{"localhost"}}

	got, err := cfg.cluster()
	require.NoError(t, err)

	defaults := gocql.NewCluster("localhost")
	assert.Equal(t, defaults.Port, got.Port)
	assert.Equal(t, defaults.Keyspace, got.Keyspace)
	assert.Equal(t, defaults.Consistency, got.Consistency)
	assert.Equal(t, defaults.CQLVersion, got.CQLVersion)
	assert.Equal(t, defaults.ProtoVersion, got.ProtoVersion)
	assert.Equal(t, defaults.Timeout, got.Timeout)
	assert.Equal(t, defaults.ConnectTimeout, got.ConnectTimeout)
	assert.Equal(t, defaults.NumConns, got.NumConns)
	assert.Equal(t, defaults.SocketKeepalive, got.SocketKeepalive)
	assert.Nil(t, got.Compressor)
	assert.Nil(t, got.Authenticator)
	assert.Nil(t, got.SslOpts)
	assert.Nil(t, got.Dialer)
}

func TestTranslationAppliesEveryPresentField(t *testing.T) {
	cfg := ClusterConfig{
		ContactPoints: []string{"cass-1", " cass-2 "},
		Port:          9142,
		Keyspace:      "ks1",
		Compression:   CompressionSnappy,
		Consistency:   "LOCAL_QUORUM",
		ProtoVersion:  4,
		CQLVersion:    "3.4.4",
		Timeout:       2 * time.Second,
		LocalPooling:  &PoolingOptions{CoreConnections: intPtr(4)},
		Socket: &SocketOptions{
			ConnectTimeout: durPtr(700 * time.Millisecond),
			KeepAlive:      durPtr(30 * time.Second),
		},
		Authenticator:            gocql.PasswordAuthenticator{Username: "u", Password: "p"},
		RetryPolicy:              &gocql.SimpleRetryPolicy{NumRetries: 3},
		ReconnectionPolicy:       &gocql.ConstantReconnectionPolicy{MaxRetries: 5, Interval: time.Second},
		SSL:                      &SSLOptions{CAPath: "/etc/ssl/ca.pem", EnableHostVerification: true},
		DisableInitialHostLookup: true,
	}

	cluster, err := cfg.cluster()
	require.NoError(t, err)

	assert.Equal(t, []string{"cass-1", "cass-2"}, cluster.Hosts)
	assert.Equal(t, 9142, cluster.Port)
	assert.Equal(t, "ks1", cluster.Keyspace)
	assert.Equal(t, gocql.SnappyCompressor{}, cluster.Compressor)
	assert.Equal(t, gocql.LocalQuorum, cluster.Consistency)
	assert.Equal(t, 4, cluster.ProtoVersion)
	assert.Equal(t, "3.4.4", cluster.CQLVersion)
	assert.Equal(t, 2*time.Second, cluster.Timeout)
	assert.Equal(t, 4, cluster.NumConns)
	assert.Equal(t, 700*time.Millisecond, cluster.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cluster.SocketKeepalive)
	assert.Equal(t, cfg.Authenticator, cluster.Authenticator)
	assert.Equal(t, cfg.RetryPolicy, cluster.RetryPolicy)
	assert.Equal(t, cfg.ReconnectionPolicy, cluster.ReconnectionPolicy)
	assert.Equal(t, "/etc/ssl/ca.pem", cluster.SslOpts.CaPath)
	assert.True(t, cluster.SslOpts.EnableHostVerification)
	assert.True(t, cluster.DisableInitialHostLookup)
}

func TestTranslationIsDeterministic(t *testing.T) {
	cfg := ClusterConfig{
		ContactPoints: []string{"cass-1"},
		Port:          9142,
		Consistency:   "ONE",
		Timeout:       5 * time.Second,
		LocalPooling:  &PoolingOptions{MaxConnections: intPtr(8)},
		Socket:        &SocketOptions{KeepAlive: durPtr(time.Minute)},
	}

	first, err := cfg.cluster()
	require.NoError(t, err)
	second, err := cfg.cluster()
	require.NoError(t, err)

	assert.Equal(t, first.Hosts, second.Hosts)
	assert.Equal(t, first.Port, second.Port)
	assert.Equal(t, first.Consistency, second.Consistency)
	assert.Equal(t, first.Timeout, second.Timeout)
	assert.Equal(t, first.NumConns, second.NumConns)
	assert.Equal(t, first.SocketKeepalive, second.SocketKeepalive)
}

func TestPoolingRequestThresholdsAreRejected(t *testing.T) {
	cfg := ClusterConfig{
		ContactPoints: []string{"localhost"},
		RemotePooling: &PoolingOptions{MaxSimultaneousRequests: intPtr(128)},
	}

	err := cfg.Validate()

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "remotePooling", configErr.Field)
}

func TestNumConnsPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		local  *PoolingOptions
		remote *PoolingOptions
		want   *int
	}{
		{"no pooling", nil, nil, nil},
		{"local core wins over local max", &PoolingOptions{CoreConnections: intPtr(2), MaxConnections: intPtr(8)}, nil, intPtr(2)},
		{"local wins over remote", &PoolingOptions{CoreConnections: intPtr(2)}, &PoolingOptions{CoreConnections: intPtr(6)}, intPtr(2)},
		{"remote used when local empty", &PoolingOptions{}, &PoolingOptions{MaxConnections: intPtr(6)}, intPtr(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := numConns(tt.local, tt.remote)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestInvalidConsistencyFailsValidation(t *testing.T) {
	cfg := ClusterConfig{ContactPoints: []string{"localhost"}, Consistency: "MOSTLY"}

	err := cfg.Validate()

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "consistency", configErr.Field)
}

func TestMetricsEnabledDefaultsToTrue(t *testing.T) {
	cfg := ClusterConfig{}
	assert.True(t, cfg.MetricsEnabled())

	cfg.Metrics = boolPtr(false)
	assert.False(t, cfg.MetricsEnabled())
}

func TestSocketOptionsDialerOnlyWhenNeeded(t *testing.T) {
	plain := ClusterConfig{
		ContactPoints: []string{"localhost"},
		Socket:        &SocketOptions{KeepAlive: durPtr(time.Minute)},
	}
	cluster, err := plain.cluster()
	require.NoError(t, err)
	assert.Nil(t, cluster.Dialer)

	tuned := ClusterConfig{
		ContactPoints: []string{"localhost"},
		Socket: &SocketOptions{
			NoDelay:           boolPtr(true),
			ReceiveBufferSize: intPtr(1 << 16),
		},
	}
	cluster, err = tuned.cluster()
	require.NoError(t, err)
	assert.NotNil(t, cluster.Dialer)
}
