package modlog

import "modlog-bot/models"

// watermarkCache remembers, per guild, the newest message-delete audit entry
// examined by the last scan. It bounds re-scans and lets the correlator tell
// a continued deletion burst apart from an already-accounted-for entry.
//
// The cache is read and written exclusively from tasks running on the
// engine's TaskQueue, so it carries no lock. That is a design invariant,
// not an oversight: adding other callers requires adding synchronization.
//
// State is in-memory only. After a restart the first scan per guild runs
// without a watermark, which costs at most one unattributed record.
type watermarkCache struct {
	byGuild map[string]models.AuditEntry
}

func newWatermarkCache() *watermarkCache {
	return &watermarkCache{byGuild: make(map[string]models.AuditEntry)}
}

// get returns the cached entry for the guild, if any.
func (w *watermarkCache) get(guildID string) (models.AuditEntry, bool) {
	e, ok := w.byGuild[guildID]
	return e, ok
}

// set overwrites the guild's watermark. Called after every scan with the
// newest entry examined, whether or not attribution succeeded.
func (w *watermarkCache) set(guildID string, entry models.AuditEntry) {
	w.byGuild[guildID] = entry
}
