package modlog

import "modlog-bot/models"

// maxAuditScan bounds how many recent audit entries a single correlation
// examines. Anything older is treated as unrelated to the event at hand.
const maxAuditScan = 5

// findActorByTarget is the generic bounded-scan attribution used for kicks,
// bans, unbans and nickname changes: the first entry (newest first) whose
// target matches wins. These action types carry a directly comparable target
// id with no multiplicity ambiguity, so no state is kept between calls.
//
// A miss within the window means no moderator was involved as far as the
// audit log can tell, which usually means the user acted on themselves.
func findActorByTarget(entries []models.AuditEntry, targetID string) (models.AuditEntry, bool) {
	for i, e := range entries {
		if i >= maxAuditScan {
			break
		}
		if e.TargetID == targetID {
			return e, true
		}
	}
	return models.AuditEntry{}, false
}

// deleteScanResult is the outcome of a watermark-aware message-delete scan.
type deleteScanResult struct {
	actor     models.AuditEntry
	matched   bool
	watermark *models.AuditEntry // newest entry examined; nil if the window was empty
}

// correlateDelete attributes a single message deletion.
//
// Message deletion needs more care than the generic scan: the platform folds
// consecutive deletions by the same moderator against the same user into one
// audit entry with a growing count option, so matching the newest entry's
// target naively would pin unrelated later deletions on a stale moderator.
//
// The scan walks the window newest first. A target match attributes the entry
// directly. Hitting the previously cached watermark entry instead means the
// window has not moved past what we already examined: a changed count marks a
// continuation of the same deletion burst (same actor again), an unchanged
// count means the entry was fully accounted for and the scan stops without
// attribution. The newest entry of the window always becomes the next
// watermark, bounding what future scans re-examine.
func correlateDelete(entries []models.AuditEntry, targetID string, prev *models.AuditEntry) deleteScanResult {
	var res deleteScanResult
	if len(entries) > 0 {
		first := entries[0]
		res.watermark = &first
	}

	for i, e := range entries {
		if i >= maxAuditScan {
			break
		}
		if e.TargetID == targetID {
			res.actor = e
			res.matched = true
			return res
		}
		if prev != nil && e.ID == prev.ID {
			if e.Count != prev.Count {
				// Same entry, higher count: the burst continued.
				res.actor = e
				res.matched = true
			}
			return res
		}
	}
	return res
}
