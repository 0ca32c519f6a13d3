package models

import "github.com/bwmarrin/discordgo"

// EventKind identifies the concrete type of a ModerationEvent.
type EventKind int

const (
	KindMessageUpdated EventKind = iota
	KindMessageDeleted
	KindBulkDeleted
	KindMemberJoined
	KindMemberLeft
	KindMemberBanned
	KindMemberUnbanned
	KindNicknameChanged
	KindUsernameChanged
)

// String returns a short name for the event kind, used in task names and logs.
func (k EventKind) String() string {
	switch k {
	case KindMessageUpdated:
		return "message_updated"
	case KindMessageDeleted:
		return "message_deleted"
	case KindBulkDeleted:
		return "bulk_deleted"
	case KindMemberJoined:
		return "member_joined"
	case KindMemberLeft:
		return "member_left"
	case KindMemberBanned:
		return "member_banned"
	case KindMemberUnbanned:
		return "member_unbanned"
	case KindNicknameChanged:
		return "nickname_changed"
	case KindUsernameChanged:
		return "username_changed"
	}
	return "unknown"
}

// ModerationEvent is the closed set of platform events the logging engine
// consumes. Events are constructed once from the gateway payload and never
// mutated afterwards.
type ModerationEvent interface {
	Kind() EventKind
	Guild() string
}

// MessageUpdated is fired when a message's content changes.
type MessageUpdated struct {
	GuildID    string
	ChannelID  string
	MessageID  string
	Author     *discordgo.User
	NewContent string
}

func (e MessageUpdated) Kind() EventKind { return KindMessageUpdated }
func (e MessageUpdated) Guild() string   { return e.GuildID }

// MessageDeleted is fired when a single message is removed.
type MessageDeleted struct {
	GuildID   string
	ChannelID string
	MessageID string
}

func (e MessageDeleted) Kind() EventKind { return KindMessageDeleted }
func (e MessageDeleted) Guild() string   { return e.GuildID }

// BulkDeleted is fired when multiple messages are removed from one channel
// in a single operation.
type BulkDeleted struct {
	GuildID    string
	ChannelID  string
	MessageIDs []string
}

func (e BulkDeleted) Kind() EventKind { return KindBulkDeleted }
func (e BulkDeleted) Guild() string   { return e.GuildID }

// MemberJoined is fired when a user joins the guild.
type MemberJoined struct {
	GuildID string
	User    *discordgo.User
}

func (e MemberJoined) Kind() EventKind { return KindMemberJoined }
func (e MemberJoined) Guild() string   { return e.GuildID }

// MemberLeft is fired when a user leaves the guild, voluntarily or not.
// Whether a moderator kicked them is only known after audit-log correlation.
type MemberLeft struct {
	GuildID string
	User    *discordgo.User
}

func (e MemberLeft) Kind() EventKind { return KindMemberLeft }
func (e MemberLeft) Guild() string   { return e.GuildID }

// MemberBanned is fired when a user is banned.
type MemberBanned struct {
	GuildID string
	User    *discordgo.User
}

func (e MemberBanned) Kind() EventKind { return KindMemberBanned }
func (e MemberBanned) Guild() string   { return e.GuildID }

// MemberUnbanned is fired when a user's ban is lifted.
type MemberUnbanned struct {
	GuildID string
	User    *discordgo.User
}

func (e MemberUnbanned) Kind() EventKind { return KindMemberUnbanned }
func (e MemberUnbanned) Guild() string   { return e.GuildID }

// NicknameChanged is fired when a member's guild nickname changes.
type NicknameChanged struct {
	GuildID string
	User    *discordgo.User
	OldNick string
	NewNick string
}

func (e NicknameChanged) Kind() EventKind { return KindNicknameChanged }
func (e NicknameChanged) Guild() string   { return e.GuildID }

// UsernameChanged is fired when a member's global username changes.
type UsernameChanged struct {
	GuildID string
	User    *discordgo.User
	OldName string
	NewName string
}

func (e UsernameChanged) Kind() EventKind { return KindUsernameChanged }
func (e UsernameChanged) Guild() string   { return e.GuildID }
