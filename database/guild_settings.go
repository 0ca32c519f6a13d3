package database

import (
	"database/sql"
	"errors"
	"fmt"

	"modlog-bot/models"

	"github.com/jmoiron/sqlx"
)

// featureColumns maps the feature names accepted by the /modlog command to
// their settings columns. The whitelist keeps user input out of SQL.
var featureColumns = map[string]string{
	"message_edit":   "message_edit",
	"message_delete": "message_delete",
	"bulk_delete":    "bulk_delete",
	"member_join":    "member_join",
	"member_leave":   "member_leave",
	"ban":            "ban",
	"unban":          "unban",
	"nickname":       "nickname",
	"username":       "username",
}

// FeatureNames lists the valid feature toggle names, for command choices.
func FeatureNames() []string {
	names := make([]string, 0, len(featureColumns))
	for name := range featureColumns {
		names = append(names, name)
	}
	return names
}

// SettingsDB holds the per-guild logging configuration. It implements the
// engine's SettingsStore contract.
type SettingsDB struct {
	db *sqlx.DB
}

// NewSettingsDB wraps the shared database handle.
func NewSettingsDB(db *sqlx.DB) *SettingsDB {
	return &SettingsDB{db: db}
}

// GuildConfig returns the guild's configuration, or nil when the guild has
// never been configured (logging disabled).
func (s *SettingsDB) GuildConfig(guildID string) (*models.GuildLogConfig, error) {
	var cfg models.GuildLogConfig
	err := s.db.Get(&cfg, `SELECT * FROM guild_settings WHERE guild_id = ?`, guildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load settings for guild %s: %w", guildID, err)
	}
	return &cfg, nil
}

// SetLogChannel sets the destination channel, creating the settings row with
// every feature enabled on first use.
func (s *SettingsDB) SetLogChannel(guildID, channelID string) error {
	query := `INSERT INTO guild_settings (guild_id, log_channel_id) VALUES (?, ?)
        ON CONFLICT(guild_id) DO UPDATE SET log_channel_id = excluded.log_channel_id`
	if _, err := s.db.Exec(query, guildID, channelID); err != nil {
		return fmt.Errorf("failed to set log channel for guild %s: %w", guildID, err)
	}
	return nil
}

// SetFeature toggles one feature for a guild. Unknown feature names are
// rejected.
func (s *SettingsDB) SetFeature(guildID, feature string, enabled bool) error {
	column, ok := featureColumns[feature]
	if !ok {
		return fmt.Errorf("unknown feature %q", feature)
	}
	value := 0
	if enabled {
		value = 1
	}
	query := fmt.Sprintf(`UPDATE guild_settings SET %s = ? WHERE guild_id = ?`, column)
	res, err := s.db.Exec(query, value, guildID)
	if err != nil {
		return fmt.Errorf("failed to set %s for guild %s: %w", feature, guildID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("guild %s has no log channel configured yet", guildID)
	}
	return nil
}

// SetModColor stores the hex color override for moderator-attributed records.
func (s *SettingsDB) SetModColor(guildID, hexColor string) error {
	if _, err := s.db.Exec(`UPDATE guild_settings SET mod_color = ? WHERE guild_id = ?`, hexColor, guildID); err != nil {
		return fmt.Errorf("failed to set mod color for guild %s: %w", guildID, err)
	}
	return nil
}

// AddExclusion stops events from the given channel being logged.
func (s *SettingsDB) AddExclusion(guildID, channelID string) error {
	query := `INSERT OR IGNORE INTO excluded_channels (guild_id, channel_id) VALUES (?, ?)`
	if _, err := s.db.Exec(query, guildID, channelID); err != nil {
		return fmt.Errorf("failed to exclude channel %s: %w", channelID, err)
	}
	return nil
}

// RemoveExclusion re-enables logging for the channel.
func (s *SettingsDB) RemoveExclusion(guildID, channelID string) error {
	if _, err := s.db.Exec(`DELETE FROM excluded_channels WHERE guild_id = ? AND channel_id = ?`, guildID, channelID); err != nil {
		return fmt.Errorf("failed to remove exclusion for channel %s: %w", channelID, err)
	}
	return nil
}

// IsExcluded reports whether the channel is on the guild's exclusion list.
func (s *SettingsDB) IsExcluded(guildID, channelID string) (bool, error) {
	var n int
	err := s.db.Get(&n, `SELECT COUNT(*) FROM excluded_channels WHERE guild_id = ? AND channel_id = ?`, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check exclusion for channel %s: %w", channelID, err)
	}
	return n > 0, nil
}

// ListExclusions returns the guild's excluded channel ids.
func (s *SettingsDB) ListExclusions(guildID string) ([]string, error) {
	var channels []string
	err := s.db.Select(&channels, `SELECT channel_id FROM excluded_channels WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exclusions for guild %s: %w", guildID, err)
	}
	return channels, nil
}
