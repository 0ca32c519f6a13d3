package models

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestAuditEntryFromDiscord(t *testing.T) {
	action := discordgo.AuditLogActionMessageDelete
	raw := &discordgo.AuditLogEntry{
		ID:         "175928847299117063", // snowflake from 2016-04-30
		TargetID:   "42",
		UserID:     "mod-a",
		Reason:     "spam",
		ActionType: &action,
		Options:    &discordgo.AuditLogOptions{Count: "3"},
	}

	got := AuditEntryFromDiscord(raw)
	if got.ID != raw.ID || got.TargetID != "42" || got.ActorID != "mod-a" {
		t.Errorf("conversion lost identity fields: %+v", got)
	}
	if got.Action != discordgo.AuditLogActionMessageDelete {
		t.Errorf("action = %v, want message delete", got.Action)
	}
	if got.Count != "3" {
		t.Errorf("count = %q, want 3", got.Count)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected a timestamp derived from the snowflake")
	}
	if got.CreatedAt.Year() != 2016 {
		t.Errorf("snowflake timestamp year = %d, want 2016", got.CreatedAt.Year())
	}
}

func TestAuditEntryFromDiscord_SparseEntry(t *testing.T) {
	// Entries without action type, options or a parseable id must still
	// convert without panicking.
	got := AuditEntryFromDiscord(&discordgo.AuditLogEntry{ID: "not-a-snowflake", TargetID: "42"})
	if got.Count != "" {
		t.Errorf("count = %q, want empty", got.Count)
	}
	if !got.CreatedAt.IsZero() {
		t.Error("unparseable id should leave the timestamp zero")
	}
}

func TestSameBurst(t *testing.T) {
	base := AuditEntry{ID: "9", Count: "1"}

	cases := []struct {
		name  string
		other AuditEntry
		want  bool
	}{
		{"count bumped", AuditEntry{ID: "9", Count: "2"}, true},
		{"identical", AuditEntry{ID: "9", Count: "1"}, false},
		{"different entry", AuditEntry{ID: "8", Count: "2"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.SameBurst(tc.other); got != tc.want {
				t.Errorf("SameBurst = %v, want %v", got, tc.want)
			}
		})
	}

	// Counts absent on both sides compare equal: not a continuation.
	bare := AuditEntry{ID: "9"}
	if bare.SameBurst(AuditEntry{ID: "9"}) {
		t.Error("absent counts on both sides must not read as a continuation")
	}
}
