// handlers.go обрабатывает команды каталогов:
// !рынок, !магазин, !купить <номер> [кол-во], !продать <фумо> [кол-во].
package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fumoworld.ru/fumo-bot/internal/bot/confirm"
	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Handler обрабатывает команды рынка и магазина.
type Handler struct {
	service  *Service
	confirms *confirm.Registry
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд каталогов.
func NewHandler(service *Service, confirms *confirm.Registry, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, confirms: confirms, bot: bot}
}

// HandleMarket обрабатывает команду !рынок.
func (h *Handler) HandleMarket(ctx context.Context, chatID, userID int64) {
	c, err := h.service.Market(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения рынка")
		h.sendMessage(chatID, "❌ Ошибка получения рынка")
		return
	}
	h.sendMessage(chatID, renderCatalog("🏪 Рынок фумо", c))
}

// HandleShop обрабатывает команду !магазин.
func (h *Handler) HandleShop(ctx context.Context, chatID, userID int64) {
	c, err := h.service.Shop(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения магазина")
		h.sendMessage(chatID, "❌ Ошибка получения магазина")
		return
	}
	h.sendMessage(chatID, renderCatalog("🛒 Магазин расходников", c))
}

// HandleBuy обрабатывает команду !купить <номер> [кол-во].
// Номер — позиция из последнего показа каталога; магазин нумеруется
// после рынка префиксом «м» (!купить м2).
func (h *Handler) HandleBuy(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: !купить <номер> [кол-во] (номер из !рынок, м<номер> из !магазин)")
		return
	}

	kind := KindMarket
	numRaw := strings.ToLower(args[0])
	if strings.HasPrefix(numRaw, "м") || strings.HasPrefix(numRaw, "m") {
		kind = KindShop
		numRaw = strings.TrimPrefix(strings.TrimPrefix(numRaw, "м"), "m")
	}
	num, err := strconv.Atoi(numRaw)
	if err != nil || num < 1 {
		h.sendMessage(chatID, "❌ Номер позиции должен быть положительным числом")
		return
	}

	qty := 1
	if len(args) >= 2 {
		qty, err = strconv.Atoi(args[1])
		if err != nil || qty < 1 {
			h.sendMessage(chatID, "❌ Количество должно быть положительным числом")
			return
		}
	}

	c, err := h.catalog(ctx, userID, kind)
	if err != nil {
		log.WithError(err).Error("Ошибка получения каталога")
		h.sendMessage(chatID, "❌ Ошибка получения каталога")
		return
	}
	if num > len(c.Items) {
		h.sendMessage(chatID, "❌ Нет такой позиции в каталоге")
		return
	}
	itemKey := c.Items[num-1].ItemKey

	it, err := h.service.Buy(ctx, userID, kind, itemKey, qty)
	if err != nil {
		h.sendMessage(chatID, buyErrorMessage(err))
		return
	}
	if it.GemPrice > 0 {
		h.sendMessage(chatID, fmt.Sprintf("✅ Куплено: %s ×%d за %s",
			it.Display, qty, common.FormatGems(it.GemPrice*int64(qty))))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Куплено: %s ×%d за %s",
		it.Display, qty, common.FormatCoins(it.Price*int64(qty))))
}

// HandleSell обрабатывает команду !продать <фумо> [кол-во].
// Продажа необратима, поэтому требует подтверждения «да/нет».
func (h *Handler) HandleSell(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: !продать Name(RARITY) [кол-во]")
		return
	}

	qty := int64(1)
	refRaw := args[0]
	if len(args) >= 2 {
		n, err := strconv.ParseInt(args[len(args)-1], 10, 64)
		if err == nil && n > 0 {
			qty = n
			refRaw = strings.Join(args[:len(args)-1], " ")
		} else {
			refRaw = strings.Join(args, " ")
		}
	}

	ref, err := items.ParseRef(refRaw)
	if err != nil {
		h.sendMessage(chatID, "❌ Не понял предмет. Формат: Name(RARITY) или Name(RARITY)[SHINY]")
		return
	}

	h.confirms.Offer(userID, func(ctx context.Context) {
		payout, err := h.service.Sell(ctx, userID, ref, qty)
		if err != nil {
			h.sendMessage(chatID, sellErrorMessage(err))
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Продано: %s ×%d, получено %s",
			ref.Display(), qty, common.FormatCoins(payout)))
	})
	h.sendMessage(chatID, fmt.Sprintf("Продать %s ×%d за ~%s? Ответь «да» или «нет»",
		ref.Display(), qty, common.FormatCoins(items.Table[ref.Rarity].BasePrice/sellDivisor*qty)))
}

// catalog читает каталог без побочной покупки (для резолва номера позиции).
func (h *Handler) catalog(ctx context.Context, userID int64, kind Kind) (*Catalog, error) {
	if kind == KindShop {
		return h.service.Shop(ctx, userID)
	}
	return h.service.Market(ctx, userID)
}

// renderCatalog собирает текст каталога.
func renderCatalog(title string, c *Catalog) string {
	var b strings.Builder
	b.WriteString(title)
	fmt.Fprintf(&b, " (до %s UTC):\n", c.ResetTime.Format("15:04"))
	for i, it := range c.Items {
		if it.OutOfStock {
			fmt.Fprintf(&b, "%d. %s — распродано\n", i+1, it.Display)
			continue
		}
		price := common.FormatCoins(it.Price)
		if it.GemPrice > 0 {
			price = common.FormatGems(it.GemPrice)
		}
		fmt.Fprintf(&b, "%d. %s — %s (осталось %d)\n", i+1, it.Display, price, it.Stock)
	}
	if len(c.Items) == 0 {
		b.WriteString("Пусто. Загляни через час\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func buyErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotInCatalog):
		return "❌ Этой позиции нет в каталоге"
	case errors.Is(err, common.ErrOutOfStock):
		return "❌ Недостаточно стока"
	case errors.Is(err, common.ErrInsufficientCoins):
		return "❌ Не хватает монет"
	case errors.Is(err, common.ErrInsufficientGems):
		return "❌ Не хватает гемов"
	case errors.Is(err, common.ErrInvalidAmount):
		return "❌ Некорректное количество"
	}
	log.WithError(err).Error("Ошибка покупки")
	return "❌ Ошибка покупки"
}

func sellErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotInInventory):
		return "❌ Такого предмета нет в инвентаре (или не хватает количества)"
	case errors.Is(err, common.ErrItemNotFound):
		return "❌ Неизвестное фумо"
	}
	log.WithError(err).Error("Ошибка продажи")
	return "❌ Ошибка продажи"
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
