package handlers

import (
	"fmt"
	"strings"

	"modlog-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// HandleModLog handles the /modlog command and its subcommands.
func HandleModLog(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respond(s, i, "Error: missing subcommand.")
		return
	}
	sub := data.Options[0]

	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		optionMap[opt.Name] = opt
	}

	guildID := i.GuildID

	switch sub.Name {
	case "channel":
		opt, ok := optionMap["channel"]
		if !ok {
			respond(s, i, "Error: a channel is required.")
			return
		}
		ch := opt.ChannelValue(s)
		if err := deps.Settings.SetLogChannel(guildID, ch.ID); err != nil {
			respond(s, i, fmt.Sprintf("Error: could not set log channel: %v", err))
			return
		}
		utils.Info("ModLog", "SetLogChannel", fmt.Sprintf("Guild %s now logs to channel %s", guildID, ch.ID))
		respond(s, i, fmt.Sprintf("✅ Moderation logs will be posted to <#%s>.", ch.ID))

	case "feature":
		nameOpt, okName := optionMap["name"]
		enabledOpt, okEnabled := optionMap["enabled"]
		if !okName || !okEnabled {
			respond(s, i, "Error: both a feature name and an enabled flag are required.")
			return
		}
		feature := nameOpt.StringValue()
		enabled := enabledOpt.BoolValue()
		if err := deps.Settings.SetFeature(guildID, feature, enabled); err != nil {
			respond(s, i, fmt.Sprintf("Error: %v", err))
			return
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		respond(s, i, fmt.Sprintf("✅ Feature **%s** is now %s.", feature, state))

	case "exclude":
		opt, ok := optionMap["channel"]
		if !ok {
			respond(s, i, "Error: a channel is required.")
			return
		}
		ch := opt.ChannelValue(s)
		if err := deps.Settings.AddExclusion(guildID, ch.ID); err != nil {
			respond(s, i, fmt.Sprintf("Error: could not exclude channel: %v", err))
			return
		}
		respond(s, i, fmt.Sprintf("✅ Events in <#%s> will no longer be logged.", ch.ID))

	case "include":
		opt, ok := optionMap["channel"]
		if !ok {
			respond(s, i, "Error: a channel is required.")
			return
		}
		ch := opt.ChannelValue(s)
		if err := deps.Settings.RemoveExclusion(guildID, ch.ID); err != nil {
			respond(s, i, fmt.Sprintf("Error: could not remove exclusion: %v", err))
			return
		}
		respond(s, i, fmt.Sprintf("✅ Events in <#%s> will be logged again.", ch.ID))

	case "color":
		opt, ok := optionMap["hex"]
		if !ok {
			respond(s, i, "Error: a hex color is required.")
			return
		}
		hex := opt.StringValue()
		if err := deps.Settings.SetModColor(guildID, hex); err != nil {
			respond(s, i, fmt.Sprintf("Error: could not set color: %v", err))
			return
		}
		respond(s, i, fmt.Sprintf("✅ Moderator-attributed records will use **%s**.", hex))

	case "show":
		cfg, err := deps.Settings.GuildConfig(guildID)
		if err != nil {
			respond(s, i, fmt.Sprintf("Error: could not load settings: %v", err))
			return
		}
		if cfg == nil {
			respond(s, i, "Moderation logging is not configured. Use `/modlog channel` to set it up.")
			return
		}
		excluded, err := deps.Settings.ListExclusions(guildID)
		if err != nil {
			respond(s, i, fmt.Sprintf("Error: could not list exclusions: %v", err))
			return
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Log channel: <#%s>\n", cfg.LogChannelID)
		fmt.Fprintf(&b, "Features: edit=%v delete=%v bulk=%v join=%v leave=%v ban=%v unban=%v nickname=%v username=%v\n",
			cfg.MessageEdit, cfg.MessageDelete, cfg.BulkDelete, cfg.MemberJoin, cfg.MemberLeave,
			cfg.Ban, cfg.Unban, cfg.Nickname, cfg.Username)
		if cfg.ModColor != "" {
			fmt.Fprintf(&b, "Moderator color: %s\n", cfg.ModColor)
		}
		if len(excluded) > 0 {
			mentions := make([]string, len(excluded))
			for idx, id := range excluded {
				mentions[idx] = fmt.Sprintf("<#%s>", id)
			}
			fmt.Fprintf(&b, "Excluded channels: %s\n", strings.Join(mentions, ", "))
		}
		respond(s, i, b.String())

	default:
		respond(s, i, "Error: unknown subcommand.")
	}
}

// HandlePing handles the logic for the /ping command.
func HandlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pong!",
		},
	})
}
