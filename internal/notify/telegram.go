// Package notify delivers order notifications to the shop's Telegram chat.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/optbazar/storefront-api/internal/orders"
)

// Sender is implemented by *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    Sender
	chatID int64
}

func NewTelegram(bot Sender, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

// OrderCreated posts a summary of o to the admin chat.
func (t *Telegram) OrderCreated(ctx context.Context, o orders.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatOrder(o))
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orUnset(s string) string {
	if s == "" {
		return "не указан"
	}
	return s
}

// MaxMessageLen is Telegram's limit on message text, in characters.
const MaxMessageLen = 4096

func moreItems(n int) string {
	return fmt.Sprintf("… и ещё %d позиций\n", n)
}

// FormatOrder renders an order as plain text for the admin chat. Item lines
// that would push the text past MaxMessageLen are folded into a count.
func FormatOrder(o orders.Order) string {
	var head strings.Builder
	fmt.Fprintf(&head, "Новый заказ #%s\n", o.ID)
	fmt.Fprintf(&head, "Клиент: %s\n", orUnset(o.CustomerInfo.Name))
	fmt.Fprintf(&head, "Телефон: %s\n", orUnset(o.CustomerInfo.Phone))
	fmt.Fprintf(&head, "Адрес: %s\n", orUnset(o.CustomerInfo.Address))
	head.WriteString("\nТовары:\n")

	var tail strings.Builder
	fmt.Fprintf(&tail, "\nИтого: %s\n", formatNumber(o.TotalAmount))
	fmt.Fprintf(&tail, "Источник: %s", o.OrderSource)
	if o.Comments != "" {
		fmt.Fprintf(&tail, "\nКомментарий: %s", o.Comments)
	}

	budget := MaxMessageLen - utf8.RuneCountInString(head.String()) - utf8.RuneCountInString(tail.String())
	var b strings.Builder
	b.WriteString(head.String())
	used, shown := 0, 0
	for i, it := range o.Items {
		line := fmt.Sprintf("• %s: %s × %s = %s\n",
			it.Name, formatNumber(it.Quantity), formatNumber(it.Price), formatNumber(it.Price*it.Quantity))
		n := utf8.RuneCountInString(line)
		reserve := 0
		if rest := len(o.Items) - i - 1; rest > 0 {
			reserve = utf8.RuneCountInString(moreItems(rest))
		}
		if used+n+reserve > budget {
			break
		}
		b.WriteString(line)
		used += n
		shown++
	}
	if shown < len(o.Items) {
		b.WriteString(moreItems(len(o.Items) - shown))
	}
	b.WriteString(tail.String())

	return truncate(b.String(), MaxMessageLen)
}

// truncate cuts s to at most max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
