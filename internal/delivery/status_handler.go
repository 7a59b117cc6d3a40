package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/goriiin/go-cassandra-provisioner/pkg/cassandra"
)

type StatusHandler struct {
	factory *cassandra.ClusterFactory
}

func NewStatusHandler(f *cassandra.ClusterFactory) *StatusHandler {
	return &StatusHandler{factory: f}
}

type statusResponse struct {
	State             string   `json:"state"`
	ContactPoints     []string `json:"contact_points"`
	Keyspace          string   `json:"keyspace,omitempty"`
	KeyspaceCreations int      `json:"keyspace_creations"`
	KeyspaceDrops     int      `json:"keyspace_drops"`
	StartupScripts    int      `json:"startup_scripts"`
	ShutdownScripts   int      `json:"shutdown_scripts"`
}

// Status reports the lifecycle state of the cluster factory.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	cfg := h.factory.Config()

	resp := statusResponse{
		State:             h.factory.State().String(),
		ContactPoints:     cfg.ContactPoints,
		Keyspace:          cfg.Keyspace,
		KeyspaceCreations: len(cfg.KeyspaceCreations),
		KeyspaceDrops:     len(cfg.KeyspaceDrops),
		StartupScripts:    len(cfg.StartupScripts),
		ShutdownScripts:   len(cfg.ShutdownScripts),
	}

	w.Header().Set("Content-Type", "application/json")
	if h.factory.State() != cassandra.StateStarted {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(resp)
}
