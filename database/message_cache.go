package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"modlog-bot/models"

	"github.com/jmoiron/sqlx"
)

// MessageCache stores recently observed messages so the content of edited
// and deleted messages can be reconstructed later. It implements the
// engine's MessageHistory contract.
type MessageCache struct {
	db *sqlx.DB
}

// NewMessageCache wraps the shared database handle.
func NewMessageCache(db *sqlx.DB) *MessageCache {
	return &MessageCache{db: db}
}

// Insert records one message. Attachment URLs and embeds are stored as JSON
// so they survive the original message's deletion.
func (c *MessageCache) Insert(msg models.CachedMessage) error {
	query := `INSERT OR REPLACE INTO messages
        (message_id, guild_id, channel_id, author_id, author_name, content, attachments, embeds, timestamp)
        VALUES (:message_id, :guild_id, :channel_id, :author_id, :author_name, :content, :attachments, :embeds, :timestamp)`
	if _, err := c.db.NamedExec(query, msg); err != nil {
		return fmt.Errorf("failed to cache message %s: %w", msg.MessageID, err)
	}
	return nil
}

// UpdateContent replaces the cached content after an edit has been logged,
// so a later edit (or deletion) shows the newest known state.
func (c *MessageCache) UpdateContent(messageID, content string) error {
	if _, err := c.db.Exec(`UPDATE messages SET content = ? WHERE message_id = ?`, content, messageID); err != nil {
		return fmt.Errorf("failed to update cached message %s: %w", messageID, err)
	}
	return nil
}

// GetMessage returns the cached row for a message id, or ok=false when the
// message was never seen (or already pruned).
func (c *MessageCache) GetMessage(messageID string) (*models.CachedMessage, bool) {
	var msg models.CachedMessage
	err := c.db.Get(&msg, `SELECT * FROM messages WHERE message_id = ?`, messageID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Failed to look up cached message %s: %v", messageID, err)
		}
		return nil, false
	}
	return &msg, true
}

// AttachmentsString renders the cached attachment URLs one per line, or
// ok=false when the message is unknown or had no attachments.
func (c *MessageCache) AttachmentsString(messageID string) (string, bool) {
	msg, ok := c.GetMessage(messageID)
	if !ok {
		return "", false
	}
	var urls []string
	if err := json.Unmarshal([]byte(msg.Attachments), &urls); err != nil {
		log.Printf("Failed to decode attachments for message %s: %v", messageID, err)
		return "", false
	}
	if len(urls) == 0 {
		return "", false
	}
	return strings.Join(urls, "\n"), true
}

// PruneBefore deletes cached messages older than the cutoff and returns how
// many rows were removed.
func (c *MessageCache) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := c.db.Exec(`DELETE FROM messages WHERE timestamp < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune message cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the number of cached messages, used by the status command.
func (c *MessageCache) Count() (int64, error) {
	var n int64
	if err := c.db.Get(&n, `SELECT COUNT(*) FROM messages`); err != nil {
		return 0, fmt.Errorf("failed to count cached messages: %w", err)
	}
	return n, nil
}
