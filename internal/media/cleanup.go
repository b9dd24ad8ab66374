package media

import "go.uber.org/zap"

// CleanupList accumulates the remote handle of every asset uploaded during
// one request. If the enclosing operation fails, the list is drained to undo
// the uploads; on success it is simply discarded.
type CleanupList struct {
	entries []cleanupEntry
}

type cleanupEntry struct {
	publicID string
	kind     Kind
}

// Add records an uploaded asset for possible compensation.
func (l *CleanupList) Add(publicID string, kind Kind) {
	l.entries = append(l.entries, cleanupEntry{publicID: publicID, kind: kind})
}

// Len returns the number of recorded assets.
func (l *CleanupList) Len() int {
	return len(l.entries)
}

// Drain issues a best-effort destroy for every recorded asset. Individual
// destroy failures are logged and never abort the sweep; the caller's
// original error is what gets reported to the client.
func (l *CleanupList) Drain(store ObjectStore, log *zap.Logger) {
	for _, e := range l.entries {
		if err := store.Destroy(e.publicID, e.kind); err != nil {
			log.Warn("compensating delete failed",
				zap.String("public_id", e.publicID),
				zap.String("kind", string(e.kind)),
				zap.Error(err))
		}
	}
	l.entries = nil
}
