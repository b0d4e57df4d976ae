// Package filters — единая точка контроля доступа к боту.
// Все проверки (разрешённый чат, техработы, бан-лист) собраны в одном
// перехватчике, чтобы команды не были обязаны помнить о них поодиночке.
package filters

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/common"
)

// AccessGate пропускает или отклоняет входящие сообщения.
type AccessGate struct {
	allowedChatID int64
	maintenance   bool
	banned        map[int64]bool
}

// NewAccessGate создаёт перехватчик доступа.
// allowedChatID — единственный групповой чат, где бот отвечает;
// личные сообщения разрешены всегда.
func NewAccessGate(allowedChatID int64, maintenance bool, bannedIDs []int64) *AccessGate {
	banned := make(map[int64]bool, len(bannedIDs))
	for _, id := range bannedIDs {
		banned[id] = true
	}
	return &AccessGate{allowedChatID: allowedChatID, maintenance: maintenance, banned: banned}
}

// Check возвращает nil, если сообщение можно обрабатывать.
// Иначе — ErrChatNotAllowed, ErrMaintenance или ErrBanned.
func (g *AccessGate) Check(message *tgbotapi.Message) error {
	if message == nil || message.From == nil || message.Chat == nil {
		log.WithField("component", "AccessGate").Warn("nil message/from/chat")
		return common.ErrBanned
	}
	if !message.Chat.IsPrivate() && message.Chat.ID != g.allowedChatID {
		log.WithFields(log.Fields{
			"component": "AccessGate",
			"chat_id":   message.Chat.ID,
		}).Debug("deny: chat not allowed")
		return common.ErrChatNotAllowed
	}
	if g.maintenance {
		return common.ErrMaintenance
	}
	if g.banned[message.From.ID] {
		log.WithFields(log.Fields{
			"component": "AccessGate",
			"user_id":   message.From.ID,
		}).Debug("deny: banned")
		return common.ErrBanned
	}
	return nil
}

// DenyMessage возвращает текст отказа для ошибки доступа
// ("" — отвечать не нужно).
func DenyMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrMaintenance):
		return "🔧 Бот на техработах, загляни позже"
	case errors.Is(err, common.ErrBanned), errors.Is(err, common.ErrChatNotAllowed):
		// Забаненным и чужим чатам не отвечаем
		return ""
	}
	return ""
}
