package models

// GuildLogConfig is the per-guild logging configuration.
// A guild without a row (or without a log channel) has logging disabled.
type GuildLogConfig struct {
	GuildID      string `db:"guild_id" json:"guild_id" mapstructure:"guild_id"`
	LogChannelID string `db:"log_channel_id" json:"log_channel_id" mapstructure:"log_channel_id"`

	MessageEdit   bool `db:"message_edit" json:"message_edit" mapstructure:"message_edit"`
	MessageDelete bool `db:"message_delete" json:"message_delete" mapstructure:"message_delete"`
	BulkDelete    bool `db:"bulk_delete" json:"bulk_delete" mapstructure:"bulk_delete"`
	MemberJoin    bool `db:"member_join" json:"member_join" mapstructure:"member_join"`
	MemberLeave   bool `db:"member_leave" json:"member_leave" mapstructure:"member_leave"`
	Ban           bool `db:"ban" json:"ban" mapstructure:"ban"`
	Unban         bool `db:"unban" json:"unban" mapstructure:"unban"`
	Nickname      bool `db:"nickname" json:"nickname" mapstructure:"nickname"`
	Username      bool `db:"username" json:"username" mapstructure:"username"`

	// ModColor optionally overrides the embed color for moderator-attributed
	// records, as a hex string like "#e67e22".
	ModColor string `db:"mod_color" json:"mod_color" mapstructure:"mod_color"`
}

// Enabled reports whether the given event kind is logged for this guild.
func (c *GuildLogConfig) Enabled(kind EventKind) bool {
	if c == nil || c.LogChannelID == "" {
		return false
	}
	switch kind {
	case KindMessageUpdated:
		return c.MessageEdit
	case KindMessageDeleted:
		return c.MessageDelete
	case KindBulkDeleted:
		return c.BulkDelete
	case KindMemberJoined:
		return c.MemberJoin
	case KindMemberLeft:
		return c.MemberLeave
	case KindMemberBanned:
		return c.Ban
	case KindMemberUnbanned:
		return c.Unban
	case KindNicknameChanged:
		return c.Nickname
	case KindUsernameChanged:
		return c.Username
	}
	return false
}

// CachedMessage is one row of the message history cache, used to reconstruct
// the content of edited and deleted messages.
type CachedMessage struct {
	MessageID   string `db:"message_id"`
	GuildID     string `db:"guild_id"`
	ChannelID   string `db:"channel_id"`
	AuthorID    string `db:"author_id"`
	AuthorName  string `db:"author_name"`
	Content     string `db:"content"`
	Attachments string `db:"attachments"` // JSON array of attachment URLs
	Embeds      string `db:"embeds"`      // JSON array of the message's embeds
	Timestamp   int64  `db:"timestamp"`
}

// CommandsConfig mirrors the "commands" section of the config file.
type CommandsConfig struct {
	Auth AuthConfig `json:"auth" mapstructure:"auth"`
}

// AuthConfig lists who may run privileged commands.
type AuthConfig struct {
	Developers  []string `json:"developers" mapstructure:"developers"`
	AdminsRoles []string `json:"admins_roles" mapstructure:"admins_roles"`
}
