package cassandra

import (
	"fmt"
	"sort"
	"strings"
)

// KeyspaceStatement is a structured keyspace DDL specification that renders
// itself to CQL text. CreateKeyspace and DropKeyspace are the two variants.
type KeyspaceStatement interface {
	KeyspaceName() string
	CQL() (string, error)
}

// CreateKeyspace renders a CREATE KEYSPACE statement.
type CreateKeyspace struct {
	Name string
	// ReplicationClass defaults to SimpleStrategy. When DataCenters is
	// non-empty, NetworkTopologyStrategy is used instead.
	ReplicationClass  string
	ReplicationFactor int
	// DataCenters maps datacenter name to its replication factor.
	DataCenters   map[string]int
	DurableWrites *bool
	IfNotExists   bool
}

func (k CreateKeyspace) KeyspaceName() string { return k.Name }

func (k CreateKeyspace) CQL() (string, error) {
	name := strings.TrimSpace(k.Name)
	if name == "" {
		return "", &ConfigError{Field: "keyspaceCreations", Reason: "keyspace name must not be blank"}
	}

	var b strings.Builder
	b.WriteString("CREATE KEYSPACE ")
	if k.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(name)
	b.WriteString(" WITH replication = ")
	b.WriteString(k.replication())
	if k.DurableWrites != nil {
		fmt.Fprintf(&b, " AND durable_writes = %v", *k.DurableWrites)
	}
	return b.String(), nil
}

func (k CreateKeyspace) replication() string {
	if len(k.DataCenters) > 0 {
		dcs := make([]string, 0, len(k.DataCenters))
		for dc := range k.DataCenters {
			dcs = append(dcs, dc)
		}
		// Sorted so identical specs always render identical CQL.
		sort.Strings(dcs)

		var b strings.Builder
		b.WriteString("{'class': 'NetworkTopologyStrategy'")
		for _, dc := range dcs {
			fmt.Fprintf(&b, ", '%s': %d", dc, k.DataCenters[dc])
		}
		b.WriteString("}")
		return b.String()
	}

	class := k.ReplicationClass
	if class == "" {
		class = "SimpleStrategy"
	}
	factor := k.ReplicationFactor
	if factor == 0 {
		factor = 1
	}
	return fmt.Sprintf("{'class': '%s', 'replication_factor': %d}", class, factor)
}

// DropKeyspace renders a DROP KEYSPACE statement.
type DropKeyspace struct {
	Name     string
	IfExists bool
}

func (k DropKeyspace) KeyspaceName() string { return k.Name }

func (k DropKeyspace) CQL() (string, error) {
	name := strings.TrimSpace(k.Name)
	if name == "" {
		return "", &ConfigError{Field: "keyspaceDrops", Reason: "keyspace name must not be blank"}
	}
	if k.IfExists {
		return "DROP KEYSPACE IF EXISTS " + name, nil
	}
	return "DROP KEYSPACE " + name, nil
}
