package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
	"github.com/mahdibujari75/Sampling-App/internal/domain/users"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

func (b *Bot) listPlans(ctx context.Context, chatID int64) {
	list, err := b.plans.List(ctx)
	if err != nil {
		b.fail(chatID, "list plans", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, formatSummaries(list)))
}

// loadPlan returns the stored plan or an unsaved one for a new date.
func (b *Bot) loadPlan(ctx context.Context, date string) (*production.DayPlan, int, error) {
	p, err := b.plans.Get(ctx, date)
	if err == nil {
		return p, 0, nil
	}
	if !errors.Is(err, production.ErrPlanNotFound) {
		return nil, 0, err
	}
	next, err := b.plans.SuggestDayNumber(ctx)
	if err != nil {
		return nil, 0, err
	}
	return production.NewDayPlan(date), next, nil
}

func (b *Bot) showPlan(ctx context.Context, chatID int64, line string) {
	a := args(line, 1)
	if len(a) != 1 {
		b.fail(chatID, "plan", usage("/plan <date>"))
		return
	}
	date, err := parseDate(a[0])
	if err != nil {
		b.fail(chatID, "plan", err)
		return
	}
	p, next, err := b.loadPlan(ctx, date)
	if err != nil {
		b.fail(chatID, "plan", err)
		return
	}
	m := tgbotapi.NewMessage(chatID, formatPlan(p, next))
	if p.DayNumber > 0 {
		m.ReplyMarkup = planKeyboard(p)
	}
	b.send(m)
}

func (b *Bot) replyPlan(chatID int64, p *production.DayPlan, note string) {
	m := tgbotapi.NewMessage(chatID, note+"\n\n"+formatPlan(p, 0))
	m.ReplyMarkup = planKeyboard(p)
	b.send(m)
}

func (b *Bot) editPlan(chatID int64, messageID int, p *production.DayPlan) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, formatPlan(p, 0), planKeyboard(p))
	b.send(edit)
}

func (b *Bot) addCard(ctx context.Context, chatID int64, u *users.User, line string) {
	a := args(line, 3)
	if len(a) != 3 {
		b.fail(chatID, "add card", usage("/card <date> <subproject id> <file>"))
		return
	}
	date, err := parseDate(a[0])
	if err != nil {
		b.fail(chatID, "add card", err)
		return
	}
	sub, err := b.subproject(ctx, a[1])
	if err != nil {
		b.fail(chatID, "add card", err)
		return
	}
	card, err := b.gen.ExtractCard(ctx, *sub, a[2])
	if err != nil {
		b.fail(chatID, "add card", err)
		return
	}
	p, added, err := b.plans.AddCard(ctx, date, card, u.DisplayName())
	if err != nil {
		b.fail(chatID, "add card", err)
		return
	}
	b.replyPlan(chatID, p, fmt.Sprintf("Card %s added with %d items.", shortID(added.ID), len(added.Items)))
}

func (b *Bot) removeCard(ctx context.Context, chatID int64, u *users.User, line string) {
	a := args(line, 2)
	if len(a) != 2 {
		b.fail(chatID, "remove card", usage("/uncard <date> <card id>"))
		return
	}
	date, err := parseDate(a[0])
	if err != nil {
		b.fail(chatID, "remove card", err)
		return
	}
	if _, err := b.plans.Get(ctx, date); err != nil {
		b.fail(chatID, "remove card", err)
		return
	}
	p, err := b.plans.RemoveCard(ctx, date, a[1], u.DisplayName())
	if err != nil {
		b.fail(chatID, "remove card", err)
		return
	}
	b.replyPlan(chatID, p, "Card removed.")
}

func (b *Bot) setStatus(ctx context.Context, chatID int64, u *users.User, line string) {
	a := args(line, 2)
	if len(a) != 2 {
		b.fail(chatID, "set status", usage("/status <date> <Open|In progress|Waiting>"))
		return
	}
	date, err := parseDate(a[0])
	if err != nil {
		b.fail(chatID, "set status", err)
		return
	}
	s, err := production.ParseStatus(a[1])
	if err != nil {
		b.fail(chatID, "set status", usage("unknown status %q", a[1]))
		return
	}
	var p *production.DayPlan
	if s == production.StatusClosed {
		p, err = b.plans.Close(ctx, date, u.DisplayName())
	} else {
		p, err = b.plans.SetStatus(ctx, date, s, u.DisplayName())
	}
	if err != nil {
		b.fail(chatID, "set status", err)
		return
	}
	b.replyPlan(chatID, p, "Status is now "+string(p.Status)+".")
}

func (b *Bot) closeDay(ctx context.Context, chatID int64, u *users.User, line string) {
	a := args(line, 1)
	if len(a) != 1 {
		b.fail(chatID, "close day", usage("/close <date>"))
		return
	}
	date, err := parseDate(a[0])
	if err != nil {
		b.fail(chatID, "close day", err)
		return
	}
	p, err := b.plans.Close(ctx, date, u.DisplayName())
	if err != nil {
		b.fail(chatID, "close day", err)
		return
	}
	b.replyPlan(chatID, p, "Day closed. Cards and materials are now fixed.")
}

func (b *Bot) dayDocument(ctx context.Context, chatID int64, line string) {
	a := args(line, 0)
	if len(a) < 1 || len(a) > 2 {
		b.fail(chatID, "day document", usage("/day <date> [RMC|RMF|RMR]"))
		return
	}
	date, err := parseDate(a[0])
	if err != nil {
		b.fail(chatID, "day document", err)
		return
	}
	t := versioning.DocRMC
	if len(a) == 2 {
		if t, err = docType(a[1]); err != nil {
			b.fail(chatID, "day document", err)
			return
		}
	}
	p, err := b.plans.Get(ctx, date)
	if err != nil {
		b.fail(chatID, "day document", err)
		return
	}
	pub, err := b.gen.DayDocument(ctx, t, p)
	if err != nil {
		b.fail(chatID, "day document", err)
		return
	}
	b.sendPublished(chatID, pub, fmt.Sprintf("DAY%s %s", versioning.Pad(p.DayNumber), p.Date))
}

func docType(s string) (versioning.DocType, error) {
	t, err := versioning.ParseDocType(s)
	if err != nil || t == versioning.DocSF {
		return "", usage("document type is one of RMC, RMF, RMR")
	}
	return t, nil
}
