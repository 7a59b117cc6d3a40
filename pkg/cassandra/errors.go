package cassandra

import (
	"errors"
	"fmt"

	"github.com/gocql/gocql"
)

// ConfigError reports invalid or missing configuration. It is always
// surfaced before any connection is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cassandra config: %s: %s", e.Field, e.Reason)
}

// ConnectError reports a failure to build the cluster handle or acquire a
// session from it.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cassandra connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ScriptError reports a keyspace statement or raw script that failed to
// execute. Statement carries the CQL text that was being run.
type ScriptError struct {
	Statement string
	Err       error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("cassandra script %q: %v", e.Statement, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// TranslateError maps driver failures it recognizes onto the domain error
// categories. Unrecognized errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gocql.ErrNoConnections),
		errors.Is(err, gocql.ErrConnectionClosed),
		errors.Is(err, gocql.ErrSessionClosed):
		return &ConnectError{Err: err}
	}

	var unavailable *gocql.RequestErrUnavailable
	if errors.As(err, &unavailable) {
		return &ConnectError{Err: err}
	}

	return err
}
