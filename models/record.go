package models

import "github.com/bwmarrin/discordgo"

// LogField is one name/value pair rendered on an emitted record.
type LogField struct {
	Name   string
	Value  string
	Inline bool
}

// LogRecord is a fully assembled audit record, handed to the emitter exactly
// once. FilePath, when set, points at a temporary transcript file the caller
// is responsible for deleting after emission.
type LogRecord struct {
	Title       string
	Description string
	Fields      []LogField
	Color       int
	User        *discordgo.User
	GuildID     string

	// Embeds carried over from the original message, forwarded on edits.
	Embeds []*discordgo.MessageEmbed

	FilePath string
	FileName string
}

// AddField appends a field, skipping empty values so partially resolved
// records render cleanly.
func (r *LogRecord) AddField(name, value string, inline bool) {
	if value == "" {
		return
	}
	r.Fields = append(r.Fields, LogField{Name: name, Value: value, Inline: inline})
}
