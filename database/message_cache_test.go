package database

import (
	"testing"
	"time"

	"modlog-bot/models"

	"github.com/stretchr/testify/require"
)

func cacheMsg(id string, ts int64) models.CachedMessage {
	return models.CachedMessage{
		MessageID:   id,
		GuildID:     "g1",
		ChannelID:   "c1",
		AuthorID:    "42",
		AuthorName:  "alice",
		Content:     "hello",
		Attachments: `["https://cdn.example/a.png","https://cdn.example/b.png"]`,
		Embeds:      "[]",
		Timestamp:   ts,
	}
}

func TestMessageCache_Roundtrip(t *testing.T) {
	cache := NewMessageCache(newTestDB(t))

	require.NoError(t, cache.Insert(cacheMsg("m1", time.Now().Unix())))

	got, ok := cache.GetMessage("m1")
	require.True(t, ok)
	require.Equal(t, "hello", got.Content)
	require.Equal(t, "alice", got.AuthorName)
	require.Equal(t, "42", got.AuthorID)

	_, ok = cache.GetMessage("unknown")
	require.False(t, ok)
}

func TestMessageCache_AttachmentsString(t *testing.T) {
	cache := NewMessageCache(newTestDB(t))
	require.NoError(t, cache.Insert(cacheMsg("m1", time.Now().Unix())))

	att, ok := cache.AttachmentsString("m1")
	require.True(t, ok)
	require.Equal(t, "https://cdn.example/a.png\nhttps://cdn.example/b.png", att)

	// No attachments stored means no attachments line.
	bare := cacheMsg("m2", time.Now().Unix())
	bare.Attachments = "[]"
	require.NoError(t, cache.Insert(bare))
	_, ok = cache.AttachmentsString("m2")
	require.False(t, ok)

	_, ok = cache.AttachmentsString("unknown")
	require.False(t, ok)
}

func TestMessageCache_UpdateContent(t *testing.T) {
	cache := NewMessageCache(newTestDB(t))
	require.NoError(t, cache.Insert(cacheMsg("m1", time.Now().Unix())))

	require.NoError(t, cache.UpdateContent("m1", "edited"))

	got, ok := cache.GetMessage("m1")
	require.True(t, ok)
	require.Equal(t, "edited", got.Content)
}

func TestMessageCache_PruneBefore(t *testing.T) {
	cache := NewMessageCache(newTestDB(t))

	now := time.Now()
	require.NoError(t, cache.Insert(cacheMsg("old", now.Add(-48*time.Hour).Unix())))
	require.NoError(t, cache.Insert(cacheMsg("new", now.Unix())))

	removed, err := cache.PruneBefore(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, ok := cache.GetMessage("old")
	require.False(t, ok)
	_, ok = cache.GetMessage("new")
	require.True(t, ok)

	n, err := cache.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
