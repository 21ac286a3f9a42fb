package sync

import (
	"fmt"
	"sort"

	"github.com/issuebridge/gitsync/internal/logging"
)

// StateTable is the bidirectional mapping between canonical state keys
// ("closed", "reopened", ...) and the state names configured for the
// ADO project. It is built once from configuration per run.
type StateTable struct {
	labels     map[string]string
	canonicals map[string]string
}

// NewStateTable builds the table from the configured key-to-label map.
// When two keys share a label the first key in sorted order wins and a
// warning is logged, so reverse lookups stay deterministic.
func NewStateTable(states map[string]string) *StateTable {
	table := &StateTable{
		labels:     make(map[string]string, len(states)),
		canonicals: make(map[string]string, len(states)),
	}

	keys := make([]string, 0, len(states))
	for key := range states {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		label := states[key]
		table.labels[key] = label
		if existing, ok := table.canonicals[label]; ok {
			logging.Warn("duplicate state label in configuration",
				"label", label, "kept", existing, "ignored", key)
			continue
		}
		table.canonicals[label] = key
	}

	return table
}

// Label returns the configured ADO state name for a canonical key, or
// an empty string when the key is not configured.
func (t *StateTable) Label(key string) string {
	return t.labels[key]
}

// Canonical returns the canonical key whose configured label equals the
// given ADO state value. An unconfigured state is an explicit error,
// not a silent empty value.
func (t *StateTable) Canonical(label string) (string, error) {
	key, ok := t.canonicals[label]
	if !ok {
		return "", fmt.Errorf("work item state %q matches no configured state mapping", label)
	}
	return key, nil
}
