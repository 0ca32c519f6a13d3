package handlers

import (
	"log"

	"modlog-bot/models"

	"github.com/bwmarrin/discordgo"
)

// MemberAddHandler 处理成员加入服务器事件。
func MemberAddHandler(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}
	log.Printf("检测到成员 %s (%s) 加入了服务器 %s", m.User.Username, m.User.ID, m.GuildID)

	deps.Engine.Handle(models.MemberJoined{
		GuildID: m.GuildID,
		User:    m.User,
	})
}

// MemberRemoveHandler 处理成员离开服务器事件。
// 是主动退出还是被踢出，由引擎通过审计日志判定。
func MemberRemoveHandler(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	log.Printf("检测到成员 %s (%s) 离开了服务器 %s", m.User.Username, m.User.ID, m.GuildID)

	deps.Engine.Handle(models.MemberLeft{
		GuildID: m.GuildID,
		User:    m.User,
	})
}

// GuildBanAddHandler 处理封禁事件。
func GuildBanAddHandler(s *discordgo.Session, m *discordgo.GuildBanAdd) {
	if m.User == nil {
		return
	}

	deps.Engine.Handle(models.MemberBanned{
		GuildID: m.GuildID,
		User:    m.User,
	})
}

// GuildBanRemoveHandler 处理解封事件。
func GuildBanRemoveHandler(s *discordgo.Session, m *discordgo.GuildBanRemove) {
	if m.User == nil {
		return
	}

	deps.Engine.Handle(models.MemberUnbanned{
		GuildID: m.GuildID,
		User:    m.User,
	})
}

// MemberUpdateHandler 处理成员信息更新事件。
// 对比更新前的状态，分别派发昵称变更和用户名变更。
func MemberUpdateHandler(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	// 没有更新前状态（成员不在 state 缓存中）时无法对比，跳过。
	if m.BeforeUpdate == nil || m.User == nil {
		return
	}

	if m.BeforeUpdate.Nick != m.Nick {
		deps.Engine.Handle(models.NicknameChanged{
			GuildID: m.GuildID,
			User:    m.User,
			OldNick: m.BeforeUpdate.Nick,
			NewNick: m.Nick,
		})
	}

	if m.BeforeUpdate.User != nil && m.BeforeUpdate.User.Username != m.User.Username {
		deps.Engine.Handle(models.UsernameChanged{
			GuildID: m.GuildID,
			User:    m.User,
			OldName: m.BeforeUpdate.User.Username,
			NewName: m.User.Username,
		})
	}
}
