package modlog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"modlog-bot/models"
	"modlog-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// auditDelay is how long the engine waits before querying the audit log for
// a just-fired event, absorbing the platform's propagation lag.
const auditDelay = time.Second

// SettingsStore is the per-guild configuration collaborator.
type SettingsStore interface {
	GuildConfig(guildID string) (*models.GuildLogConfig, error)
	IsExcluded(guildID, channelID string) (bool, error)
}

// Engine is the audit-log correlation engine. All of its state mutations run
// on a single task queue, in submission order, which is the sole concurrency
// control in this package.
type Engine struct {
	queue       *TaskQueue
	audit       AuditLogProvider
	history     MessageHistory // nil until the message cache is initialized
	emitter     RecordEmitter
	settings    SettingsStore
	transcripts *TranscriptWriter
	watermarks  *watermarkCache

	// selfID is the bot's own user id, used to suppress records for
	// kicks/bans the bot itself issued (those are logged at their source).
	selfID string

	delay time.Duration
}

// NewEngine wires the correlation engine. history may be nil when the
// message cache is disabled; message content reconstruction is then off.
func NewEngine(audit AuditLogProvider, history MessageHistory, emitter RecordEmitter, settings SettingsStore, transcripts *TranscriptWriter) *Engine {
	return &Engine{
		queue:       NewTaskQueue(0),
		audit:       audit,
		history:     history,
		emitter:     emitter,
		settings:    settings,
		transcripts: transcripts,
		watermarks:  newWatermarkCache(),
		delay:       auditDelay,
	}
}

// BindSelf records the bot's own user id once the gateway session is ready.
// The write goes through the queue like every other piece of engine state.
func (e *Engine) BindSelf(userID string) {
	e.queue.Submit("bind-self", func() { e.selfID = userID })
}

// Queue exposes the engine's task queue so callers can serialize their own
// emission-adjacent work behind in-flight correlations.
func (e *Engine) Queue() *TaskQueue { return e.queue }

// Stop drains the queue. Pending delayed correlations are abandoned.
func (e *Engine) Stop() { e.queue.Stop() }

// Handle is the single entry point for all moderation events. It filters on
// the guild's feature toggles and channel exclusions, then dispatches by
// event kind. Handle itself never blocks on network I/O; anything touching
// the audit log or the emitter is pushed onto the queue.
func (e *Engine) Handle(evt models.ModerationEvent) {
	cfg, err := e.settings.GuildConfig(evt.Guild())
	if err != nil {
		log.Printf("modlog: failed to load config for guild %s: %v", evt.Guild(), err)
		return
	}
	if !cfg.Enabled(evt.Kind()) {
		return
	}

	switch ev := evt.(type) {
	case models.MessageUpdated:
		if e.channelExcluded(ev.GuildID, ev.ChannelID) {
			return
		}
		e.handleMessageUpdated(ev, cfg)
	case models.MessageDeleted:
		if e.channelExcluded(ev.GuildID, ev.ChannelID) {
			return
		}
		e.handleMessageDeleted(ev, cfg)
	case models.BulkDeleted:
		if e.channelExcluded(ev.GuildID, ev.ChannelID) {
			return
		}
		e.handleBulkDeleted(ev)
	case models.MemberJoined:
		e.handleMemberJoined(ev)
	case models.MemberLeft:
		e.handleMemberLeft(ev, cfg)
	case models.MemberBanned:
		e.handleMemberBanned(ev, cfg)
	case models.MemberUnbanned:
		e.handleMemberUnbanned(ev)
	case models.NicknameChanged:
		e.handleNicknameChanged(ev)
	case models.UsernameChanged:
		e.handleUsernameChanged(ev)
	default:
		log.Printf("modlog: unhandled event kind %s", evt.Kind())
	}
}

func (e *Engine) channelExcluded(guildID, channelID string) bool {
	excluded, err := e.settings.IsExcluded(guildID, channelID)
	if err != nil {
		log.Printf("modlog: exclusion lookup failed for channel %s: %v", channelID, err)
		return false
	}
	return excluded
}

// emit hands the record to the emitter, logging instead of propagating
// failures. Runs inside a queue task.
func (e *Engine) emit(rec *models.LogRecord) {
	if err := e.emitter.Emit(rec); err != nil {
		log.Printf("modlog: failed to emit record %q for guild %s: %v", rec.Title, rec.GuildID, err)
	}
}

// modColor resolves the color for moderator-attributed records, honoring the
// guild's hex override.
func modColor(cfg *models.GuildLogConfig) int {
	if cfg != nil && cfg.ModColor != "" {
		return utils.ParseHexColor(cfg.ModColor)
	}
	return ColorModAction
}

// handleMessageUpdated logs an edit when the previous content is known.
// Without a cached "before" state there is nothing trustworthy to show, so
// no record is emitted. Edits need no audit-log correlation: the author is
// always the editor.
func (e *Engine) handleMessageUpdated(ev models.MessageUpdated, cfg *models.GuildLogConfig) {
	if e.history == nil {
		return
	}
	cached, ok := e.history.GetMessage(ev.MessageID)
	if !ok || cached.Content == ev.NewContent {
		return
	}

	rec := &models.LogRecord{
		Title:   "Message Edited",
		Color:   ColorEdit,
		User:    ev.Author,
		GuildID: ev.GuildID,
		Embeds:  decodeEmbeds(cached.Embeds),
	}
	rec.AddField("Channel", fmt.Sprintf("<#%s>", ev.ChannelID), true)
	rec.AddField("Before", cached.Content, false)
	rec.AddField("After", ev.NewContent, false)

	e.queue.Submit("emit:"+ev.Kind().String(), func() { e.emit(rec) })
}

// handleMessageDeleted runs the watermark-aware correlation from §correlateDelete.
//
// Cold start (no history cache at all): there is no content to log, but the
// watermark is refreshed from a single synchronous audit fetch so the next
// real deletion scans from a known position.
func (e *Engine) handleMessageDeleted(ev models.MessageDeleted, cfg *models.GuildLogConfig) {
	if e.history == nil {
		e.queue.SubmitAfter(e.delay, "watermark-refresh", func() {
			entries, err := e.audit.FetchRecent(ev.GuildID, discordgo.AuditLogActionMessageDelete, 1)
			if err != nil || len(entries) == 0 {
				return
			}
			e.watermarks.set(ev.GuildID, entries[0])
		})
		return
	}

	cached, ok := e.history.GetMessage(ev.MessageID)
	if !ok {
		return
	}
	attachments, _ := e.history.AttachmentsString(ev.MessageID)

	e.queue.SubmitAfter(e.delay, "correlate:"+ev.Kind().String(), func() {
		var prev *models.AuditEntry
		if w, ok := e.watermarks.get(ev.GuildID); ok {
			prev = &w
		}

		var res deleteScanResult
		entries, err := e.audit.FetchRecent(ev.GuildID, discordgo.AuditLogActionMessageDelete, maxAuditScan)
		if err != nil {
			// Degrade to an unattributed record; the deletion itself is
			// still worth logging.
			log.Printf("modlog: audit fetch failed for guild %s: %v", ev.GuildID, err)
		} else {
			res = correlateDelete(entries, cached.AuthorID, prev)
		}
		if res.watermark != nil {
			e.watermarks.set(ev.GuildID, *res.watermark)
		}

		rec := &models.LogRecord{
			Title:   "Message Deleted",
			Color:   ColorUnattributed,
			User:    &discordgo.User{ID: cached.AuthorID, Username: cached.AuthorName},
			GuildID: ev.GuildID,
		}
		rec.AddField("Channel", fmt.Sprintf("<#%s>", ev.ChannelID), true)
		rec.AddField("Content", cached.Content, false)
		rec.AddField("Attachment(s)", attachments, false)
		if res.matched {
			rec.Color = modColor(cfg)
			rec.AddField("Moderator", fmt.Sprintf("<@%s>", res.actor.ActorID), true)
			rec.AddField("Reason", res.actor.Reason, true)
		}
		e.emit(rec)
	})
}

// handleBulkDeleted logs a mass deletion, attaching a best-effort transcript
// of the recovered messages when the history cache can reconstruct any.
func (e *Engine) handleBulkDeleted(ev models.BulkDeleted) {
	count := len(ev.MessageIDs)

	countOnly := func() *models.LogRecord {
		rec := &models.LogRecord{
			Title:       "Messages Bulk Deleted",
			Description: fmt.Sprintf("%d messages were deleted in <#%s>.", count, ev.ChannelID),
			Color:       ColorModAction,
			GuildID:     ev.GuildID,
		}
		rec.AddField("Channel", fmt.Sprintf("<#%s>", ev.ChannelID), true)
		rec.AddField("Count", fmt.Sprintf("%d", count), true)
		return rec
	}

	if e.history == nil || e.transcripts == nil {
		e.queue.Submit("emit:"+ev.Kind().String(), func() { e.emit(countOnly()) })
		return
	}

	e.queue.Submit("transcript:"+ev.Kind().String(), func() {
		path, recovered, err := e.transcripts.Write(ev.ChannelID, ev.MessageIDs, e.history)
		if err != nil {
			log.Printf("modlog: transcript for channel %s failed: %v", ev.ChannelID, err)
		}
		rec := countOnly()
		if recovered > 0 {
			rec.FilePath = path
			rec.FileName = fmt.Sprintf("deleted-%s.txt", ev.ChannelID)
		}
		e.emit(rec)
		if path != "" {
			if rmErr := os.Remove(path); rmErr != nil {
				log.Printf("modlog: failed to remove transcript %s: %v", path, rmErr)
			}
		}
	})
}

// handleMemberJoined has no audit counterpart and fires immediately.
func (e *Engine) handleMemberJoined(ev models.MemberJoined) {
	rec := &models.LogRecord{
		Title:   "Member Joined",
		Color:   ColorMemberJoin,
		User:    ev.User,
		GuildID: ev.GuildID,
	}
	if ev.User != nil {
		if created, err := discordgo.SnowflakeTimestamp(ev.User.ID); err == nil {
			rec.AddField("Account Created", created.UTC().Format(time.RFC1123), true)
		}
	}
	e.queue.Submit("emit:"+ev.Kind().String(), func() { e.emit(rec) })
}

// handleMemberLeft distinguishes a voluntary leave from a kick by scanning
// recent kick audit entries. A kick issued by the bot itself is suppressed:
// whichever component performed it logs it at the point of issuance.
func (e *Engine) handleMemberLeft(ev models.MemberLeft, cfg *models.GuildLogConfig) {
	e.queue.SubmitAfter(e.delay, "correlate:"+ev.Kind().String(), func() {
		entry, kicked := e.lookupActor(ev.GuildID, discordgo.AuditLogActionMemberKick, ev.User.ID)
		if kicked && entry.ActorID == e.selfID {
			return
		}

		rec := &models.LogRecord{
			User:    ev.User,
			GuildID: ev.GuildID,
		}
		if kicked {
			rec.Title = "Member Kicked"
			rec.Color = modColor(cfg)
			rec.AddField("Moderator", fmt.Sprintf("<@%s>", entry.ActorID), true)
			rec.AddField("Reason", entry.Reason, true)
		} else {
			rec.Title = "Member Left"
			rec.Color = ColorMemberLeave
		}
		e.emit(rec)
	})
}

// handleMemberBanned attributes the ban to a moderator where possible and
// suppresses bans the bot issued itself.
func (e *Engine) handleMemberBanned(ev models.MemberBanned, cfg *models.GuildLogConfig) {
	e.queue.SubmitAfter(e.delay, "correlate:"+ev.Kind().String(), func() {
		entry, matched := e.lookupActor(ev.GuildID, discordgo.AuditLogActionMemberBanAdd, ev.User.ID)
		if matched && entry.ActorID == e.selfID {
			return
		}

		rec := &models.LogRecord{
			Title:   "Member Banned",
			Color:   ColorBan,
			User:    ev.User,
			GuildID: ev.GuildID,
		}
		if matched {
			rec.AddField("Moderator", fmt.Sprintf("<@%s>", entry.ActorID), true)
			rec.AddField("Reason", entry.Reason, true)
		}
		e.emit(rec)
	})
}

func (e *Engine) handleMemberUnbanned(ev models.MemberUnbanned) {
	e.queue.SubmitAfter(e.delay, "correlate:"+ev.Kind().String(), func() {
		entry, matched := e.lookupActor(ev.GuildID, discordgo.AuditLogActionMemberBanRemove, ev.User.ID)

		rec := &models.LogRecord{
			Title:   "Member Unbanned",
			Color:   ColorUnban,
			User:    ev.User,
			GuildID: ev.GuildID,
		}
		if matched {
			rec.AddField("Moderator", fmt.Sprintf("<@%s>", entry.ActorID), true)
			rec.AddField("Reason", entry.Reason, true)
		}
		e.emit(rec)
	})
}

// handleNicknameChanged names the moderator only when someone other than the
// member themself made the change.
func (e *Engine) handleNicknameChanged(ev models.NicknameChanged) {
	e.queue.SubmitAfter(e.delay, "correlate:"+ev.Kind().String(), func() {
		rec := &models.LogRecord{
			Title:   "Nickname Changed",
			Color:   ColorEdit,
			User:    ev.User,
			GuildID: ev.GuildID,
		}
		rec.AddField("Before", displayName(ev.OldNick), true)
		rec.AddField("After", displayName(ev.NewNick), true)

		entry, matched := e.lookupActor(ev.GuildID, discordgo.AuditLogActionMemberUpdate, ev.User.ID)
		if matched && entry.ActorID != ev.User.ID {
			rec.AddField("Moderator", fmt.Sprintf("<@%s>", entry.ActorID), true)
		}
		e.emit(rec)
	})
}

// handleUsernameChanged has no audit counterpart: usernames are global and
// only the account owner can change them.
func (e *Engine) handleUsernameChanged(ev models.UsernameChanged) {
	rec := &models.LogRecord{
		Title:   "Username Changed",
		Color:   ColorEdit,
		User:    ev.User,
		GuildID: ev.GuildID,
	}
	rec.AddField("Before", ev.OldName, true)
	rec.AddField("After", ev.NewName, true)
	e.queue.Submit("emit:"+ev.Kind().String(), func() { e.emit(rec) })
}

// lookupActor wraps the generic bounded scan with the audit fetch, degrading
// provider failures to "no attribution".
func (e *Engine) lookupActor(guildID string, action discordgo.AuditLogAction, targetID string) (models.AuditEntry, bool) {
	entries, err := e.audit.FetchRecent(guildID, action, maxAuditScan)
	if err != nil {
		log.Printf("modlog: audit fetch failed for guild %s action %d: %v", guildID, action, err)
		return models.AuditEntry{}, false
	}
	return findActorByTarget(entries, targetID)
}

// decodeEmbeds restores the embeds stored alongside a cached message.
func decodeEmbeds(raw string) []*discordgo.MessageEmbed {
	if raw == "" || raw == "[]" {
		return nil
	}
	var embeds []*discordgo.MessageEmbed
	if err := json.Unmarshal([]byte(raw), &embeds); err != nil {
		log.Printf("modlog: failed to decode cached embeds: %v", err)
		return nil
	}
	return embeds
}

func displayName(nick string) string {
	if nick == "" {
		return "(none)"
	}
	return nick
}
