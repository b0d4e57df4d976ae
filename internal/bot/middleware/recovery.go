package middleware

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic гасит панику обработчика команды, чтобы один кривой
// апдейт не ронял весь цикл поллинга. Вызывать через defer в начале
// обработки апдейта.
func RecoverFromPanic() {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"component": "panic_recovery",
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("Паника в обработчике команды — подавлена")
	}
}
