// Package middleware — сквозные обработчики входящих сообщений:
// логирование, подавление паник, ограничение частоты команд.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Сколько рун текста команды попадает в лог.
const logTextLimit = 64

// LogMessage логирует входящее сообщение: user_id, chat_id, username
// и начало текста. Обрезаем по рунам, а не по байтам — команды русские,
// срез посреди UTF-8 портит лог.
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil {
		return
	}

	text := message.Text
	if runes := []rune(text); len(runes) > logTextLimit {
		text = string(runes[:logTextLimit]) + "..."
	}

	log.WithFields(log.Fields{
		"user_id":    message.From.ID,
		"chat_id":    message.Chat.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
		"text":       text,
	}).Debug("Входящее сообщение")
}
