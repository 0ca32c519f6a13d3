package modlog

import (
	"errors"
	"sync"
	"testing"
	"time"

	"modlog-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type fakeAudit struct {
	mu      sync.Mutex
	entries map[discordgo.AuditLogAction][]models.AuditEntry
	err     error
	calls   int
	limits  []int
}

func (f *fakeAudit) FetchRecent(guildID string, action discordgo.AuditLogAction, limit int) ([]models.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[action], nil
}

func (f *fakeAudit) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEmitter struct {
	mu      sync.Mutex
	records []*models.LogRecord
}

func (f *fakeEmitter) Emit(rec *models.LogRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeEmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeEmitter) last() *models.LogRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.records) == 0 {
		return nil
	}
	return f.records[len(f.records)-1]
}

type fakeSettings struct {
	cfg      *models.GuildLogConfig
	excluded map[string]bool
}

func (f *fakeSettings) GuildConfig(guildID string) (*models.GuildLogConfig, error) {
	return f.cfg, nil
}

func (f *fakeSettings) IsExcluded(guildID, channelID string) (bool, error) {
	return f.excluded[channelID], nil
}

func allEnabled() *models.GuildLogConfig {
	return &models.GuildLogConfig{
		GuildID:       "g1",
		LogChannelID:  "log",
		MessageEdit:   true,
		MessageDelete: true,
		BulkDelete:    true,
		MemberJoin:    true,
		MemberLeave:   true,
		Ban:           true,
		Unban:         true,
		Nickname:      true,
		Username:      true,
	}
}

type engineFixture struct {
	engine   *Engine
	audit    *fakeAudit
	emitter  *fakeEmitter
	settings *fakeSettings
	history  *fakeHistory
}

func newFixture(t *testing.T, withHistory bool) *engineFixture {
	t.Helper()
	f := &engineFixture{
		audit:    &fakeAudit{entries: map[discordgo.AuditLogAction][]models.AuditEntry{}},
		emitter:  &fakeEmitter{},
		settings: &fakeSettings{cfg: allEnabled(), excluded: map[string]bool{}},
	}

	transcripts, err := NewTranscriptWriter(t.TempDir())
	require.NoError(t, err)

	var history MessageHistory
	if withHistory {
		f.history = &fakeHistory{
			msgs:        map[string]*models.CachedMessage{},
			attachments: map[string]string{},
		}
		history = f.history
	}

	f.engine = NewEngine(f.audit, history, f.emitter, f.settings, transcripts)
	f.engine.delay = time.Millisecond
	return f
}

func fieldValue(rec *models.LogRecord, name string) (string, bool) {
	for _, f := range rec.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func TestEngine_DeleteAttributed(t *testing.T) {
	f := newFixture(t, true)
	f.history.msgs["m1"] = &models.CachedMessage{
		MessageID: "m1", AuthorID: "42", AuthorName: "victim", Content: "hello",
	}
	f.audit.entries[discordgo.AuditLogActionMessageDelete] = []models.AuditEntry{
		entry("9", "42", "mod-a", "1"),
	}

	f.engine.Handle(models.MessageDeleted{GuildID: "g1", ChannelID: "c1", MessageID: "m1"})

	require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	rec := f.emitter.last()
	require.Equal(t, "Message Deleted", rec.Title)
	require.Equal(t, ColorModAction, rec.Color)

	mod, ok := fieldValue(rec, "Moderator")
	require.True(t, ok, "expected a Moderator field")
	require.Equal(t, "<@mod-a>", mod)

	content, _ := fieldValue(rec, "Content")
	require.Equal(t, "hello", content)

	w, ok := f.engine.watermarks.get("g1")
	require.True(t, ok, "watermark should be set after the scan")
	require.Equal(t, "9", w.ID)
}

func TestEngine_DeleteUnattributed(t *testing.T) {
	f := newFixture(t, true)
	f.history.msgs["m1"] = &models.CachedMessage{
		MessageID: "m1", AuthorID: "42", AuthorName: "victim", Content: "hello",
	}
	// Audit window only knows about some other user's deletions.
	f.audit.entries[discordgo.AuditLogActionMessageDelete] = []models.AuditEntry{
		entry("9", "100", "mod-a", "1"),
	}

	f.engine.Handle(models.MessageDeleted{GuildID: "g1", ChannelID: "c1", MessageID: "m1"})

	require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	rec := f.emitter.last()
	require.Equal(t, ColorUnattributed, rec.Color)
	_, hasMod := fieldValue(rec, "Moderator")
	require.False(t, hasMod, "unattributed record must not name a moderator")
}

func TestEngine_DeleteAuditFailureDegrades(t *testing.T) {
	f := newFixture(t, true)
	f.history.msgs["m1"] = &models.CachedMessage{
		MessageID: "m1", AuthorID: "42", AuthorName: "victim", Content: "hello",
	}
	f.audit.err = errors.New("missing permission")

	f.engine.Handle(models.MessageDeleted{GuildID: "g1", ChannelID: "c1", MessageID: "m1"})

	require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	rec := f.emitter.last()
	require.Equal(t, ColorUnattributed, rec.Color)
}

func TestEngine_DeleteUnknownMessageSkipped(t *testing.T) {
	f := newFixture(t, true)

	f.engine.Handle(models.MessageDeleted{GuildID: "g1", ChannelID: "c1", MessageID: "nope"})

	time.Sleep(50 * time.Millisecond)
	f.engine.Stop()
	require.Zero(t, f.emitter.count())
	require.Zero(t, f.audit.callCount(), "unknown message should not trigger an audit fetch")
}

func TestEngine_ColdStartRefreshesWatermark(t *testing.T) {
	f := newFixture(t, false)
	f.audit.entries[discordgo.AuditLogActionMessageDelete] = []models.AuditEntry{
		entry("9", "42", "mod-a", "1"),
	}

	f.engine.Handle(models.MessageDeleted{GuildID: "g1", ChannelID: "c1", MessageID: "m1"})

	require.Eventually(t, func() bool { return f.audit.callCount() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	require.Zero(t, f.emitter.count(), "cold start must not emit a record")
	w, ok := f.engine.watermarks.get("g1")
	require.True(t, ok)
	require.Equal(t, "9", w.ID)
	require.Equal(t, []int{1}, f.audit.limits, "cold start fetches a single entry")
}

func TestEngine_SelfBanSuppressed(t *testing.T) {
	f := newFixture(t, true)
	f.engine.BindSelf("bot-id")
	f.audit.entries[discordgo.AuditLogActionMemberBanAdd] = []models.AuditEntry{
		entry("9", "42", "bot-id", ""),
	}

	f.engine.Handle(models.MemberBanned{GuildID: "g1", User: &discordgo.User{ID: "42"}})

	require.Eventually(t, func() bool { return f.audit.callCount() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()
	require.Zero(t, f.emitter.count(), "bans issued by the bot itself are logged at their source")
}

func TestEngine_BanAttributed(t *testing.T) {
	f := newFixture(t, true)
	f.engine.BindSelf("bot-id")
	f.audit.entries[discordgo.AuditLogActionMemberBanAdd] = []models.AuditEntry{
		{ID: "9", TargetID: "42", ActorID: "mod-a", Reason: "spam"},
	}

	f.engine.Handle(models.MemberBanned{GuildID: "g1", User: &discordgo.User{ID: "42"}})

	require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	rec := f.emitter.last()
	require.Equal(t, "Member Banned", rec.Title)
	reason, _ := fieldValue(rec, "Reason")
	require.Equal(t, "spam", reason)
}

func TestEngine_MemberLeftVsKicked(t *testing.T) {
	t.Run("voluntary leave", func(t *testing.T) {
		f := newFixture(t, true)

		f.engine.Handle(models.MemberLeft{GuildID: "g1", User: &discordgo.User{ID: "42"}})

		require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
		f.engine.Stop()
		require.Equal(t, "Member Left", f.emitter.last().Title)
	})

	t.Run("kicked", func(t *testing.T) {
		f := newFixture(t, true)
		f.audit.entries[discordgo.AuditLogActionMemberKick] = []models.AuditEntry{
			{ID: "9", TargetID: "42", ActorID: "mod-a", Reason: "rule 3"},
		}

		f.engine.Handle(models.MemberLeft{GuildID: "g1", User: &discordgo.User{ID: "42"}})

		require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
		f.engine.Stop()

		rec := f.emitter.last()
		require.Equal(t, "Member Kicked", rec.Title)
		mod, _ := fieldValue(rec, "Moderator")
		require.Equal(t, "<@mod-a>", mod)
	})
}

func TestEngine_BulkDeleteWithTranscript(t *testing.T) {
	f := newFixture(t, true)
	f.history.msgs["1"] = &models.CachedMessage{AuthorName: "alice", Content: "one"}
	f.history.msgs["3"] = &models.CachedMessage{AuthorName: "bob", Content: "three"}

	f.engine.Handle(models.BulkDeleted{GuildID: "g1", ChannelID: "c1", MessageIDs: []string{"1", "2", "3"}})

	require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	rec := f.emitter.last()
	require.Equal(t, "Messages Bulk Deleted", rec.Title)
	require.NotEmpty(t, rec.FilePath, "record should carry the transcript")
	count, _ := fieldValue(rec, "Count")
	require.Equal(t, "3", count)
}

func TestEngine_BulkDeleteCountOnly(t *testing.T) {
	f := newFixture(t, true) // history present but knows none of the ids

	f.engine.Handle(models.BulkDeleted{GuildID: "g1", ChannelID: "c1", MessageIDs: []string{"1", "2", "3"}})

	require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	rec := f.emitter.last()
	require.Empty(t, rec.FilePath)
	count, _ := fieldValue(rec, "Count")
	require.Equal(t, "3", count)
}

func TestEngine_EditNeedsCachedContent(t *testing.T) {
	f := newFixture(t, true)

	f.engine.Handle(models.MessageUpdated{
		GuildID: "g1", ChannelID: "c1", MessageID: "m1",
		Author: &discordgo.User{ID: "42"}, NewContent: "new",
	})

	time.Sleep(50 * time.Millisecond)
	f.engine.Stop()
	require.Zero(t, f.emitter.count(), "no record without a cached before-state")
}

func TestEngine_EditBeforeAfter(t *testing.T) {
	f := newFixture(t, true)
	f.history.msgs["m1"] = &models.CachedMessage{MessageID: "m1", Content: "old"}

	f.engine.Handle(models.MessageUpdated{
		GuildID: "g1", ChannelID: "c1", MessageID: "m1",
		Author: &discordgo.User{ID: "42"}, NewContent: "new",
	})

	require.Eventually(t, func() bool { return f.emitter.count() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Stop()

	rec := f.emitter.last()
	before, _ := fieldValue(rec, "Before")
	after, _ := fieldValue(rec, "After")
	require.Equal(t, "old", before)
	require.Equal(t, "new", after)
}

func TestEngine_FeatureToggleFilters(t *testing.T) {
	f := newFixture(t, true)
	f.settings.cfg.MessageDelete = false
	f.history.msgs["m1"] = &models.CachedMessage{MessageID: "m1", AuthorID: "42", Content: "x"}

	f.engine.Handle(models.MessageDeleted{GuildID: "g1", ChannelID: "c1", MessageID: "m1"})

	time.Sleep(50 * time.Millisecond)
	f.engine.Stop()
	require.Zero(t, f.emitter.count())
	require.Zero(t, f.audit.callCount())
}

func TestEngine_ExcludedChannelFilters(t *testing.T) {
	f := newFixture(t, true)
	f.settings.excluded["c1"] = true
	f.history.msgs["m1"] = &models.CachedMessage{MessageID: "m1", AuthorID: "42", Content: "x"}

	f.engine.Handle(models.MessageDeleted{GuildID: "g1", ChannelID: "c1", MessageID: "m1"})

	time.Sleep(50 * time.Millisecond)
	f.engine.Stop()
	require.Zero(t, f.emitter.count())
}

func TestEngine_UnconfiguredGuildIgnored(t *testing.T) {
	f := newFixture(t, true)
	f.settings.cfg = nil

	f.engine.Handle(models.MemberJoined{GuildID: "g1", User: &discordgo.User{ID: "42"}})

	time.Sleep(50 * time.Millisecond)
	f.engine.Stop()
	require.Zero(t, f.emitter.count())
}
