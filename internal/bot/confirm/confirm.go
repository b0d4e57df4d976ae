// Package confirm — реестр подтверждений «да/нет» для необратимых
// действий (продажа, остановка фермы). У пользователя может висеть
// только одно подтверждение; новое вытесняет старое.
package confirm

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Ответы, которые понимает реестр.
var (
	yesWords = map[string]bool{"да": true, "yes": true, "y": true, "+": true}
	noWords  = map[string]bool{"нет": true, "no": true, "n": true, "-": true}
)

// Action выполняется при ответе «да».
type Action func(ctx context.Context)

type pending struct {
	token     string
	action    Action
	expiresAt time.Time
}

// Registry хранит ожидающие подтверждения действия по пользователям.
type Registry struct {
	mu      sync.Mutex
	pending map[int64]*pending
	timeout time.Duration
}

// NewRegistry создаёт реестр с таймаутом подтверждения.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		pending: make(map[int64]*pending),
		timeout: timeout,
	}
}

// Offer регистрирует действие и возвращает его токен.
// Предыдущее неподтверждённое действие пользователя вытесняется.
func (r *Registry) Offer(userID int64, action Action) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.pending[userID] = &pending{
		token:     token,
		action:    action,
		expiresAt: time.Now().Add(r.timeout),
	}
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"user_id": userID,
		"token":   token,
	}).Debug("подтверждение зарегистрировано")
	return token
}

// Resolve обрабатывает возможный ответ на подтверждение.
// Возвращает (true, ...) если текст был ответом на висящее подтверждение;
// второй флаг — было ли действие выполнено.
func (r *Registry) Resolve(ctx context.Context, userID int64, text string) (handled, confirmed bool) {
	answer := strings.ToLower(strings.TrimSpace(text))
	isYes, isNo := yesWords[answer], noWords[answer]
	if !isYes && !isNo {
		return false, false
	}

	r.mu.Lock()
	p, ok := r.pending[userID]
	if ok {
		delete(r.pending, userID)
	}
	r.mu.Unlock()

	if !ok {
		return false, false
	}
	if time.Now().After(p.expiresAt) {
		log.WithField("user_id", userID).Debug("подтверждение истекло")
		return true, false
	}
	if isNo {
		return true, false
	}
	p.action(ctx)
	return true, true
}

// Has сообщает, висит ли у пользователя живое подтверждение.
func (r *Registry) Has(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[userID]
	return ok && time.Now().Before(p.expiresAt)
}
