package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// schema holds every table this bot uses. All statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS messages (
        message_id  TEXT PRIMARY KEY,
        guild_id    TEXT NOT NULL,
        channel_id  TEXT NOT NULL,
        author_id   TEXT NOT NULL,
        author_name TEXT NOT NULL,
        content     TEXT NOT NULL,
        attachments TEXT NOT NULL DEFAULT '[]',
        embeds      TEXT NOT NULL DEFAULT '[]',
        timestamp   INTEGER NOT NULL
    );`,
	`CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);`,
	`CREATE INDEX IF NOT EXISTS idx_messages_guild ON messages(guild_id, channel_id);`,
	`CREATE TABLE IF NOT EXISTS guild_settings (
        guild_id       TEXT PRIMARY KEY,
        log_channel_id TEXT NOT NULL DEFAULT '',
        message_edit   INTEGER NOT NULL DEFAULT 1,
        message_delete INTEGER NOT NULL DEFAULT 1,
        bulk_delete    INTEGER NOT NULL DEFAULT 1,
        member_join    INTEGER NOT NULL DEFAULT 1,
        member_leave   INTEGER NOT NULL DEFAULT 1,
        ban            INTEGER NOT NULL DEFAULT 1,
        unban          INTEGER NOT NULL DEFAULT 1,
        nickname       INTEGER NOT NULL DEFAULT 1,
        username       INTEGER NOT NULL DEFAULT 1,
        mod_color      TEXT NOT NULL DEFAULT ''
    );`,
	`CREATE TABLE IF NOT EXISTS excluded_channels (
        guild_id   TEXT NOT NULL,
        channel_id TEXT NOT NULL,
        PRIMARY KEY (guild_id, channel_id)
    );`,
	`CREATE TABLE IF NOT EXISTS case_counters (
        guild_id TEXT PRIMARY KEY,
        seq      INTEGER NOT NULL DEFAULT 0
    );`,
}

// Init opens (creating if necessary) the bot's SQLite database and ensures
// the schema exists. The directory for the database file is created as
// needed.
func Init(dbPath string) (*sqlx.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	log.Println("Successfully connected to the database at", dbPath)
	return db, nil
}
