package handlers

import (
	"encoding/json"
	"log"

	"modlog-bot/models"

	"github.com/bwmarrin/discordgo"
)

// MessageCreateHandler 将新消息写入历史缓存，供之后的编辑/删除日志重建内容。
// 机器人自己以及其他 bot 的消息不入缓存。
func MessageCreateHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	urls := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		urls = append(urls, a.URL)
	}
	attachments, _ := json.Marshal(urls)
	embeds, _ := json.Marshal(m.Embeds)

	msg := models.CachedMessage{
		MessageID:   m.ID,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		AuthorID:    m.Author.ID,
		AuthorName:  m.Author.Username,
		Content:     m.Content,
		Attachments: string(attachments),
		Embeds:      string(embeds),
		Timestamp:   m.Timestamp.Unix(),
	}
	if err := deps.Cache.Insert(msg); err != nil {
		log.Printf("缓存消息 %s 失败: %v", m.ID, err)
	}
}

// MessageUpdateHandler 处理消息编辑事件。
// 先交给引擎（引擎会读取编辑前的缓存内容），再用新内容覆盖缓存，
// 保证下一次编辑或删除显示的是最近一次已知状态。
func MessageUpdateHandler(s *discordgo.Session, m *discordgo.MessageUpdate) {
	// 链接预览等部分更新没有作者字段，跳过。
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	deps.Engine.Handle(models.MessageUpdated{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		Author:     m.Author,
		NewContent: m.Content,
	})

	if err := deps.Cache.UpdateContent(m.ID, m.Content); err != nil {
		log.Printf("更新消息缓存 %s 失败: %v", m.ID, err)
	}
}

// MessageDeleteHandler 处理单条消息删除事件。
func MessageDeleteHandler(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}

	deps.Engine.Handle(models.MessageDeleted{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
	})
}

// MessageDeleteBulkHandler 处理批量删除事件。
func MessageDeleteBulkHandler(s *discordgo.Session, m *discordgo.MessageDeleteBulk) {
	if m.GuildID == "" || len(m.Messages) == 0 {
		return
	}

	deps.Engine.Handle(models.BulkDeleted{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageIDs: m.Messages,
	})
}
