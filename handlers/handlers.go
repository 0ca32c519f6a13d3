package handlers

import (
	"log"

	"modlog-bot/bot"
	"modlog-bot/database"
	"modlog-bot/modlog"

	"github.com/bwmarrin/discordgo"
)

// Deps are the collaborators the event handlers feed.
type Deps struct {
	Engine   *modlog.Engine
	Cache    *database.MessageCache
	Settings *database.SettingsDB
}

var deps *Deps

// Register all handlers to the bot.
func Register(b *bot.Bot, d *Deps) {
	deps = d

	// Event handlers
	b.Session.AddHandler(InteractionCreate(b))
	b.Session.AddHandler(MessageCreateHandler)
	b.Session.AddHandler(MessageUpdateHandler)
	b.Session.AddHandler(MessageDeleteHandler)
	b.Session.AddHandler(MessageDeleteBulkHandler)
	b.Session.AddHandler(MemberAddHandler)
	b.Session.AddHandler(MemberRemoveHandler)
	b.Session.AddHandler(GuildBanAddHandler)
	b.Session.AddHandler(GuildBanRemoveHandler)
	b.Session.AddHandler(MemberUpdateHandler)

	// Add a ready handler to log when the bot is connected and to tell the
	// engine which account it is running as.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
		deps.Engine.BindSelf(r.User.ID)
	})
}
