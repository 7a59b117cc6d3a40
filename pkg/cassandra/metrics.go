package cassandra

import (
	"context"

	"github.com/gocql/gocql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type clusterMetrics struct {
	queries       prometheus.Counter
	queryErrors   prometheus.Counter
	queryDuration prometheus.Histogram
	connectErrors prometheus.Counter
}

func registerClusterMetrics(reg prometheus.Registerer) *clusterMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &clusterMetrics{
		queries: factory.NewCounter(prometheus.CounterOpts{
			Name: "cassandra_provisioner_queries_total",
			Help: "Total number of CQL queries observed on the cluster handle.",
		}),
		queryErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "cassandra_provisioner_query_errors_total",
			Help: "Total number of CQL queries that returned an error.",
		}),
		queryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cassandra_provisioner_query_duration_seconds",
			Help:    "Latency of CQL queries observed on the cluster handle.",
			Buckets: prometheus.DefBuckets,
		}),
		connectErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "cassandra_provisioner_connect_errors_total",
			Help: "Total number of failed connection attempts to cluster hosts.",
		}),
	}
}

func (m *clusterMetrics) ObserveQuery(_ context.Context, q gocql.ObservedQuery) {
	m.queries.Inc()
	m.queryDuration.Observe(q.End.Sub(q.Start).Seconds())
	if q.Err != nil {
		m.queryErrors.Inc()
	}
}

func (m *clusterMetrics) ObserveConnect(c gocql.ObservedConnect) {
	if c.Err != nil {
		m.connectErrors.Inc()
	}
}
