package cassandra

import (
	"context"

	"github.com/gocql/gocql"
)

// StatementExecutor runs CQL statements over one administrative session.
// The factory acquires one per lifecycle phase and closes it when the
// phase ends.
type StatementExecutor interface {
	Execute(ctx context.Context, stmt string) error
	Close()
}

type sessionExecutor struct {
	session *gocql.Session
}

func (e sessionExecutor) Execute(ctx context.Context, stmt string) error {
	if err := e.session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		return TranslateError(err)
	}
	return nil
}

func (e sessionExecutor) Close() {
	e.session.Close()
}

func connectExecutor(cluster *gocql.ClusterConfig) (StatementExecutor, error) {
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, &ConnectError{Err: err}
	}
	return sessionExecutor{session: session}, nil
}
