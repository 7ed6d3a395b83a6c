// Package batch contains the pure grouping logic for verification batches.
// Grouping partitions selected records so each group can be verified with
// one authenticated session against the remote source.
package batch

import (
	"sort"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// Key identifies one verification batch: all records of the same source
// type owned by the same origin.
type Key struct {
	SourceType string
	BatchKey   string
}

// Grouping is the result of partitioning a selection.
type Grouping struct {
	Groups map[Key][]*secondary.RecordRow
	// Unkeyed holds records whose batch key could not be derived (missing
	// origin reference). They are reported, never silently dropped.
	Unkeyed []*secondary.RecordRow
}

// Group partitions records by (source type, origin id). Pure function,
// no I/O.
func Group(records []*secondary.RecordRow) Grouping {
	g := Grouping{Groups: make(map[Key][]*secondary.RecordRow)}
	for _, r := range records {
		if r.OriginID == "" {
			g.Unkeyed = append(g.Unkeyed, r)
			continue
		}
		k := Key{SourceType: r.SourceType, BatchKey: r.OriginID}
		g.Groups[k] = append(g.Groups[k], r)
	}
	return g
}

// SortedKeys returns the group keys in deterministic order. Map iteration
// order would make dispatch logs and tests flap.
func (g Grouping) SortedKeys() []Key {
	keys := make([]Key, 0, len(g.Groups))
	for k := range g.Groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].SourceType != keys[j].SourceType {
			return keys[i].SourceType < keys[j].SourceType
		}
		return keys[i].BatchKey < keys[j].BatchKey
	})
	return keys
}

// IDs extracts the record ids of one group.
func IDs(records []*secondary.RecordRow) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
