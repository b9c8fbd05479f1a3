package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mahdibujari75/Sampling-App/internal/domain/projects"
	"github.com/mahdibujari75/Sampling-App/internal/domain/users"
)

func (b *Bot) addCustomer(ctx context.Context, chatID int64, line string) {
	a := args(line, 2)
	if len(a) != 2 {
		b.fail(chatID, "add customer", usage("/addcustomer <slug> <name>"))
		return
	}
	c, err := b.projects.CreateCustomer(ctx, strings.ToLower(a[0]), a[1])
	if err != nil {
		b.fail(chatID, "add customer", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Customer %s (%s) is ready.", c.Slug, c.Name)))
}

func (b *Bot) addSubproject(ctx context.Context, chatID int64, line string) {
	a := args(line, 0)
	if len(a) != 4 {
		b.fail(chatID, "add subproject", usage("/addsub <customer> <project> <code> <C|F|O>"))
		return
	}
	t, err := projects.ParseType(a[3])
	if err != nil {
		b.fail(chatID, "add subproject", usage("type is C, F or O"))
		return
	}
	c, err := b.projects.GetCustomerBySlug(ctx, strings.ToLower(a[0]))
	if err != nil {
		b.fail(chatID, "add subproject", err)
		return
	}
	if c == nil {
		b.fail(chatID, "add subproject", usage("customer %q does not exist", a[0]))
		return
	}
	s, err := b.projects.CreateSubproject(ctx, c.ID, a[1], a[2], t)
	if err != nil {
		b.fail(chatID, "add subproject", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Subproject #%d %s of %s is ready.", s.ID, s.Code, c.Name)))
}

func (b *Bot) listSubprojects(ctx context.Context, chatID int64, line string) {
	list, err := b.projects.ListSubprojects(ctx, strings.ToLower(strings.TrimSpace(line)))
	if err != nil {
		b.fail(chatID, "list subprojects", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, formatSubprojects(list)))
}

func (b *Bot) listPending(ctx context.Context, chatID int64) {
	list, err := b.users.ListPending(ctx)
	if err != nil {
		b.fail(chatID, "list pending", err)
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Nobody is waiting."))
		return
	}
	var sb strings.Builder
	for _, u := range list {
		fmt.Fprintf(&sb, "%s  /approve %d\n", u.DisplayName(), u.TelegramID)
	}
	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) approve(ctx context.Context, chatID int64, line string) {
	a := args(line, 0)
	if len(a) < 1 || len(a) > 2 {
		b.fail(chatID, "approve", usage("/approve <telegram id> [admin]"))
		return
	}
	tgID, err := strconv.ParseInt(a[0], 10, 64)
	if err != nil {
		b.fail(chatID, "approve", usage("%q is not a telegram id", a[0]))
		return
	}
	role := users.RoleOperator
	if len(a) == 2 && strings.EqualFold(a[1], "admin") {
		role = users.RoleAdmin
	}
	u, err := b.users.SetRole(ctx, tgID, role)
	if err != nil {
		b.fail(chatID, "approve", err)
		return
	}
	if u == nil {
		b.send(tgbotapi.NewMessage(chatID, "That user never sent /start."))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("%s is now %s.", u.DisplayName(), u.Role)))
	b.send(tgbotapi.NewMessage(u.TelegramID, "You were approved. Send /help to start."))
}
