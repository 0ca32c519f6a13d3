package modlog

import (
	"fmt"
	"os"
	"time"

	"modlog-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Embed colors for emitted records.
const (
	ColorModAction    = 0xe67e22 // action attributed to a moderator
	ColorUnattributed = 0xf1c40f // no moderator found in the audit log
	ColorMemberJoin   = 0x2ecc71
	ColorMemberLeave  = 0x95a5a6
	ColorBan          = 0xe74c3c
	ColorUnban        = 0x3498db
	ColorEdit         = 0x1abc9c
)

// caseUnknown is shown when the case-number allocator fails; emission never
// aborts over a missing case number.
const caseUnknown = "unknown"

// RecordEmitter delivers an assembled log record to the guild's configured
// destination. Implementations must return an error instead of panicking,
// whatever the record contains.
type RecordEmitter interface {
	Emit(rec *models.LogRecord) error
}

// CaseAllocator hands out sequential per-guild case numbers.
type CaseAllocator interface {
	NextCaseNumber(guildID string) (int64, error)
}

// ChannelEmitter posts records as embeds to the guild's log channel.
type ChannelEmitter struct {
	session  *discordgo.Session
	settings SettingsStore
	cases    CaseAllocator
}

// NewChannelEmitter builds the standard Discord-channel emitter.
func NewChannelEmitter(s *discordgo.Session, settings SettingsStore, cases CaseAllocator) *ChannelEmitter {
	return &ChannelEmitter{session: s, settings: settings, cases: cases}
}

// Emit assembles the embed and sends it, attaching the transcript file when
// the record carries one. The caller keeps ownership of the file.
func (e *ChannelEmitter) Emit(rec *models.LogRecord) error {
	cfg, err := e.settings.GuildConfig(rec.GuildID)
	if err != nil {
		return fmt.Errorf("failed to load log config for guild %s: %w", rec.GuildID, err)
	}
	if cfg == nil || cfg.LogChannelID == "" {
		return fmt.Errorf("guild %s has no log channel configured", rec.GuildID)
	}

	caseNo := caseUnknown
	if n, err := e.cases.NextCaseNumber(rec.GuildID); err == nil {
		caseNo = fmt.Sprintf("%d", n)
	}

	embed := &discordgo.MessageEmbed{
		Title:       rec.Title,
		Description: rec.Description,
		Color:       rec.Color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%s", caseNo)},
	}
	if rec.User != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s (%s)", rec.User.Username, rec.User.ID),
			IconURL: rec.User.AvatarURL(""),
		}
	}
	for _, f := range rec.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	msg := &discordgo.MessageSend{
		Embeds: append([]*discordgo.MessageEmbed{embed}, rec.Embeds...),
	}

	if rec.FilePath != "" {
		f, err := os.Open(rec.FilePath)
		if err != nil {
			return fmt.Errorf("failed to open transcript %s: %w", rec.FilePath, err)
		}
		defer f.Close()
		name := rec.FileName
		if name == "" {
			name = "transcript.txt"
		}
		msg.Files = []*discordgo.File{{
			Name:        name,
			ContentType: "text/plain",
			Reader:      f,
		}}
	}

	if _, err := e.session.ChannelMessageSendComplex(cfg.LogChannelID, msg); err != nil {
		return fmt.Errorf("failed to send log record to channel %s: %w", cfg.LogChannelID, err)
	}
	return nil
}
