package command

import "github.com/bwmarrin/discordgo"

// ModLogCommand defines the structure for the /modlog command.
type ModLogCommand struct{}

// Definition returns the application command definition.
func (c *ModLogCommand) Definition() *discordgo.ApplicationCommand {
	featureChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Message edits", Value: "message_edit"},
		{Name: "Message deletions", Value: "message_delete"},
		{Name: "Bulk deletions", Value: "bulk_delete"},
		{Name: "Member joins", Value: "member_join"},
		{Name: "Member leaves/kicks", Value: "member_leave"},
		{Name: "Bans", Value: "ban"},
		{Name: "Unbans", Value: "unban"},
		{Name: "Nickname changes", Value: "nickname"},
		{Name: "Username changes", Value: "username"},
	}

	return &discordgo.ApplicationCommand{
		Name:        "modlog",
		Description: "Configure moderation-event logging",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "channel",
				Description: "Set the channel moderation logs are posted to",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "channel",
						Description: "The destination channel",
						Type:        discordgo.ApplicationCommandOptionChannel,
						Required:    true,
					},
				},
			},
			{
				Name:        "feature",
				Description: "Enable or disable logging of one event type",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "name",
						Description: "The event type",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
						Choices:     featureChoices,
					},
					{
						Name:        "enabled",
						Description: "Whether to log this event type",
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Required:    true,
					},
				},
			},
			{
				Name:        "exclude",
				Description: "Stop logging events from a channel",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "channel",
						Description: "The channel to exclude",
						Type:        discordgo.ApplicationCommandOptionChannel,
						Required:    true,
					},
				},
			},
			{
				Name:        "include",
				Description: "Resume logging events from an excluded channel",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "channel",
						Description: "The channel to include again",
						Type:        discordgo.ApplicationCommandOptionChannel,
						Required:    true,
					},
				},
			},
			{
				Name:        "color",
				Description: "Set the embed color for moderator-attributed records",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "hex",
						Description: "Hex color like #e67e22",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
					},
				},
			},
			{
				Name:        "show",
				Description: "Show the current logging configuration",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

// StatusCommand defines the structure for the /status command.
type StatusCommand struct{}

// Definition returns the application command definition.
func (c *StatusCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "status",
		Description: "Show host and cache statistics",
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}
