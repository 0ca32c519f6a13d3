package models

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// AuditEntry is one record from a guild's audit log, reduced to the fields
// the correlation engine needs. Entries are never mutated after conversion.
type AuditEntry struct {
	ID        string
	Action    discordgo.AuditLogAction
	TargetID  string
	ActorID   string
	Reason    string
	Count     string // consecutive-action count option; "" when the platform omits it
	CreatedAt time.Time
}

// AuditEntryFromDiscord converts a raw discordgo audit log entry.
// The creation time is derived from the entry's snowflake ID.
func AuditEntryFromDiscord(e *discordgo.AuditLogEntry) AuditEntry {
	entry := AuditEntry{
		ID:       e.ID,
		TargetID: e.TargetID,
		ActorID:  e.UserID,
		Reason:   e.Reason,
	}
	if e.ActionType != nil {
		entry.Action = *e.ActionType
	}
	if e.Options != nil {
		entry.Count = e.Options.Count
	}
	if ts, err := discordgo.SnowflakeTimestamp(e.ID); err == nil {
		entry.CreatedAt = ts
	}
	return entry
}

// SameBurst reports whether other is the same audit entry with a different
// consecutive-action count, i.e. the platform folded another action into an
// entry we have already examined. Equal counts (including both absent) mean
// the entry is fully accounted for.
func (a AuditEntry) SameBurst(other AuditEntry) bool {
	return a.ID == other.ID && a.Count != other.Count
}
