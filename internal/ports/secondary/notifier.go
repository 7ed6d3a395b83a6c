package secondary

import "context"

// IndexNotifier is the fire-and-forget contract to the external
// search/index subsystem. A failed notice is logged by the caller and
// never rolls back a local delete; the index's own consistency sweep
// eventually corrects stale entries.
type IndexNotifier interface {
	// NotifyRemoved tells the index to drop a record from a collection.
	NotifyRemoved(ctx context.Context, recordID, collection string) error
}
