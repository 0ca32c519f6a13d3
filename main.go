package main

import (
	"log"

	"modlog-bot/bot"
	"modlog-bot/command"
	"modlog-bot/database"
	"modlog-bot/handlers"
	"modlog-bot/modlog"
	"modlog-bot/utils"

	"github.com/spf13/viper"
)

func main() {
	b, err := bot.NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	db, err := database.Init(viper.GetString("db_file_path"))
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer db.Close()

	cache := database.NewMessageCache(db)
	settings := database.NewSettingsDB(db)
	cases := database.NewCaseCounter(db)

	transcripts, err := modlog.NewTranscriptWriter(viper.GetString("modlog.transcript_dir"))
	if err != nil {
		log.Fatalf("Error initializing transcript writer: %v", err)
	}

	engine := modlog.NewEngine(
		modlog.NewAuditLogProvider(b.Session),
		cache,
		modlog.NewChannelEmitter(b.Session, settings, cases),
		settings,
		transcripts,
	)
	defer engine.Stop()

	registerHandlers := func(b *bot.Bot) {
		handlers.Register(b, &handlers.Deps{
			Engine:   engine,
			Cache:    cache,
			Settings: settings,
		})
	}

	if err := b.Start(registerHandlers, command.GetCommandDefinitions()); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	utils.InitLogger(b.Session)
	bot.StartScheduler(cache, transcripts)

	bot.WaitForShutdown()
	b.Stop()
}
