package modlog

import (
	"fmt"

	"modlog-bot/models"

	"github.com/bwmarrin/discordgo"
)

// AuditLogProvider fetches the most recent audit entries of one action type
// for a guild, newest first. Implementations must tolerate being called for
// guilds the bot lacks audit-log permission in, returning an error rather
// than panicking.
type AuditLogProvider interface {
	FetchRecent(guildID string, action discordgo.AuditLogAction, limit int) ([]models.AuditEntry, error)
}

// discordAuditProvider backs AuditLogProvider with the Discord REST API.
type discordAuditProvider struct {
	session *discordgo.Session
}

// NewAuditLogProvider returns a provider reading the guild audit log through
// the given session.
func NewAuditLogProvider(s *discordgo.Session) AuditLogProvider {
	return &discordAuditProvider{session: s}
}

func (p *discordAuditProvider) FetchRecent(guildID string, action discordgo.AuditLogAction, limit int) ([]models.AuditEntry, error) {
	auditLog, err := p.session.GuildAuditLog(guildID, "", "", int(action), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit log for guild %s: %w", guildID, err)
	}

	entries := make([]models.AuditEntry, 0, len(auditLog.AuditLogEntries))
	for _, raw := range auditLog.AuditLogEntries {
		entries = append(entries, models.AuditEntryFromDiscord(raw))
	}
	return entries, nil
}
