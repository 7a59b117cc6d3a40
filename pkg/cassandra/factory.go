package cassandra

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gocql/gocql"
)

// State is the lifecycle position of a ClusterFactory.
type State int

const (
	StateUnbuilt State = iota
	StateBuilt
	StateStarted
	StateStopping
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateBuilt:
		return "built"
	case StateStarted:
		return "started"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ClusterFactory owns the cluster handle for its process lifetime. Build
// translates the configuration, Start runs the keyspace creations and
// startup scripts, Stop runs the keyspace drops and shutdown scripts and
// then releases every held resource.
//
// Build, Start and Stop are each meant to be invoked once, in that order,
// by the owning process. The internal mutex only keeps the read accessors
// safe for concurrent use by serving goroutines.
type ClusterFactory struct {
	cfg ClusterConfig

	mu      sync.Mutex
	state   State
	cluster *gocql.ClusterConfig
	session *gocql.Session
	metrics *clusterMetrics

	// connect acquires the phase-scoped administrative executor. Replaced
	// in tests to avoid a live cluster.
	connect func(*gocql.ClusterConfig) (StatementExecutor, error)
}

func NewClusterFactory(cfg ClusterConfig) *ClusterFactory {
	return &ClusterFactory{
		cfg:     cfg,
		connect: connectExecutor,
	}
}

// Build validates the configuration and constructs the cluster handle.
// No session is opened here; the handle is a connection factory, not a
// connection.
func (f *ClusterFactory) Build() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateUnbuilt {
		return fmt.Errorf("cluster factory cannot be built from state %s", f.state)
	}

	cluster, err := f.cfg.cluster()
	if err != nil {
		f.state = StateFailed
		return err
	}

	if f.cfg.MetricsEnabled() {
		f.metrics = registerClusterMetrics(f.cfg.MetricsRegisterer)
		cluster.QueryObserver = f.metrics
		cluster.ConnectObserver = f.metrics
	}

	f.cluster = cluster
	f.state = StateBuilt
	return nil
}

// Start executes the keyspace creations followed by the startup scripts,
// in declaration order, over a single lazily-opened administrative
// session. Any failure aborts the remaining statements and leaves the
// factory failed: the process must not run against partially-applied
// startup state.
func (f *ClusterFactory) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateBuilt {
		return fmt.Errorf("cluster factory cannot be started from state %s", f.state)
	}

	specs := make([]KeyspaceStatement, 0, len(f.cfg.KeyspaceCreations))
	for _, ks := range f.cfg.KeyspaceCreations {
		specs = append(specs, ks)
	}

	if err := f.runScripts(ctx, specs, f.cfg.StartupScripts); err != nil {
		f.state = StateFailed
		return err
	}

	f.state = StateStarted
	return nil
}

// Stop executes the keyspace drops followed by the shutdown scripts, then
// unconditionally closes the shared session. Script failures are logged
// and returned but never prevent the release. Stop on a factory that was
// never built, or that already stopped, is a no-op.
func (f *ClusterFactory) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateBuilt && f.state != StateStarted {
		return nil
	}
	ranStartup := f.state == StateStarted
	f.state = StateStopping

	var errs []error
	if ranStartup {
		specs := make([]KeyspaceStatement, 0, len(f.cfg.KeyspaceDrops))
		for _, ks := range f.cfg.KeyspaceDrops {
			specs = append(specs, ks)
		}
		if err := f.runScripts(ctx, specs, f.cfg.ShutdownScripts); err != nil {
			log.Printf("ERROR: Shutdown scripts failed: %v", err)
			errs = append(errs, err)
		}
	}

	if f.session != nil {
		f.session.Close()
		f.session = nil
	}

	f.state = StateStopped
	return errors.Join(errs...)
}

// Cluster returns the singleton cluster handle. It is only exposed after
// a successful Build and Start.
func (f *ClusterFactory) Cluster() (*gocql.ClusterConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateStarted {
		return nil, fmt.Errorf("cluster handle is not available in state %s", f.state)
	}
	return f.cluster, nil
}

// Connect returns the shared session, creating it on first use. The
// session lives until Stop.
func (f *ClusterFactory) Connect() (*gocql.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateStarted {
		return nil, fmt.Errorf("session is not available in state %s", f.state)
	}
	if f.session == nil {
		session, err := f.cluster.CreateSession()
		if err != nil {
			return nil, &ConnectError{Err: err}
		}
		f.session = session
	}
	return f.session, nil
}

func (f *ClusterFactory) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Config returns a copy of the configuration the factory was created with.
func (f *ClusterFactory) Config() ClusterConfig {
	return f.cfg
}

// runScripts is the ordered, fail-fast script runner: keyspace statements
// first, raw scripts second. The administrative session is opened only
// when there is something to execute and is released exactly once, on
// every path out of this function.
func (f *ClusterFactory) runScripts(ctx context.Context, specs []KeyspaceStatement, scripts []string) error {
	if len(specs) == 0 && len(scripts) == 0 {
		return nil
	}

	exec, err := f.connect(f.cluster)
	if err != nil {
		return err
	}
	defer exec.Close()

	for _, spec := range specs {
		cql, err := spec.CQL()
		if err != nil {
			return err
		}
		log.Printf("INFO: Executing CQL [%s]", cql)
		if err := exec.Execute(ctx, cql); err != nil {
			return &ScriptError{Statement: cql, Err: err}
		}
	}

	for _, script := range scripts {
		log.Printf("INFO: Executing raw CQL [%s]", script)
		if err := exec.Execute(ctx, script); err != nil {
			return &ScriptError{Statement: script, Err: err}
		}
	}

	return nil
}
