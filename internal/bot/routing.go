package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mahdibujari75/Sampling-App/internal/dialog"
	"github.com/mahdibujari75/Sampling-App/internal/domain/users"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

const helpText = `Commands:
/plans - production days, newest first
/plan <date> - show a day
/card <date> <subproject id> <file> - attach a formulation to a day
/uncard <date> <card id> - detach a card
/status <date> <Open|In progress|Waiting> - relabel a day
/close <date> - close a day for planning
/day <date> [RMC|RMF|RMR] - day material document
/sources <subproject id> - formulation sheets
/rmc|/rmf|/rmr <subproject id> <file> - card material document
/upload <subproject id> - store the next .xlsx as a formulation sheet
/extract [C|F] - preview the next .xlsx without storing it
/subs [customer] - subprojects

Admin:
/addcustomer <slug> <name>
/addsub <customer> <project> <code> <C|F|O>
/pending, /approve <telegram id> [admin]`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID
	line := msg.CommandArguments()

	switch cmd := strings.ToLower(msg.Command()); cmd {
	case "start":
		b.start(ctx, msg)
	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "cancel":
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, "Cancelled."))

	case "plans":
		if b.operator(ctx, chatID, tgID) != nil {
			b.listPlans(ctx, chatID)
		}
	case "plan":
		if b.operator(ctx, chatID, tgID) != nil {
			b.showPlan(ctx, chatID, line)
		}
	case "card":
		if u := b.operator(ctx, chatID, tgID); u != nil {
			b.addCard(ctx, chatID, u, line)
		}
	case "uncard":
		if u := b.operator(ctx, chatID, tgID); u != nil {
			b.removeCard(ctx, chatID, u, line)
		}
	case "status":
		if u := b.operator(ctx, chatID, tgID); u != nil {
			b.setStatus(ctx, chatID, u, line)
		}
	case "close":
		if u := b.operator(ctx, chatID, tgID); u != nil {
			b.closeDay(ctx, chatID, u, line)
		}
	case "day":
		if b.operator(ctx, chatID, tgID) != nil {
			b.dayDocument(ctx, chatID, line)
		}

	case "sources":
		if b.operator(ctx, chatID, tgID) != nil {
			b.listSources(ctx, chatID, line)
		}
	case "rmc", "rmf", "rmr":
		if b.operator(ctx, chatID, tgID) != nil {
			b.cardDocument(ctx, chatID, versioning.DocType(strings.ToUpper(cmd)), line)
		}
	case "upload":
		if b.operator(ctx, chatID, tgID) != nil {
			b.awaitSource(ctx, chatID, line)
		}
	case "extract":
		if b.operator(ctx, chatID, tgID) != nil {
			b.awaitFormulation(ctx, chatID, line)
		}
	case "subs":
		if b.operator(ctx, chatID, tgID) != nil {
			b.listSubprojects(ctx, chatID, line)
		}

	case "addcustomer":
		if b.admin(ctx, chatID, tgID) != nil {
			b.addCustomer(ctx, chatID, line)
		}
	case "addsub":
		if b.admin(ctx, chatID, tgID) != nil {
			b.addSubproject(ctx, chatID, line)
		}
	case "pending":
		if b.admin(ctx, chatID, tgID) != nil {
			b.listPending(ctx, chatID)
		}
	case "approve":
		if b.admin(ctx, chatID, tgID) != nil {
			b.approve(ctx, chatID, line)
		}

	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Send /help"))
	}
}

func (b *Bot) start(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	role := users.RolePending
	if msg.From.ID == b.adminChat {
		role = users.RoleAdmin
	}
	u, err := b.users.UpsertFromTelegram(ctx, users.Telegram{
		ID:        msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}, role)
	if err != nil {
		b.fail(chatID, "register", err)
		return
	}
	if role == users.RoleAdmin && u.Role != users.RoleAdmin {
		if u, err = b.users.SetRole(ctx, msg.From.ID, users.RoleAdmin); err != nil || u == nil {
			b.fail(chatID, "promote admin", err)
			return
		}
	}
	_ = b.states.Reset(ctx, chatID)

	if u.CanOperate() {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Hello %s, you are registered as %s.\n\n%s", u.DisplayName(), u.Role, helpText)))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, "Your request was sent to the administrator. You will be notified once approved."))
	if b.adminChat != 0 {
		b.send(tgbotapi.NewMessage(b.adminChat, fmt.Sprintf("New operator request: %s (id %d). /approve %d", u.DisplayName(), u.TelegramID, u.TelegramID)))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.fail(chatID, "load dialog", err)
		return
	}

	switch st.State {
	case dialog.StateAwaitFormulation, dialog.StateAwaitSource:
		if msg.Document == nil {
			b.send(tgbotapi.NewMessage(chatID, "Please send the formulation as an .xlsx document, or /cancel."))
			return
		}
		if b.operator(ctx, chatID, msg.From.ID) == nil {
			return
		}
		if !strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".xlsx") {
			b.send(tgbotapi.NewMessage(chatID, "Only .xlsx files are supported."))
			return
		}
		data, err := b.downloadTelegramFile(msg.Document.FileID)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Could not download the file from Telegram: "+err.Error()))
			return
		}
		if st.State == dialog.StateAwaitSource {
			b.storeSource(ctx, chatID, st.Payload, msg.Document.FileName, data)
			return
		}
		b.previewFormulation(ctx, chatID, st.Payload, msg.Caption, msg.Document.FileName, data)
		return
	}

	if msg.Document != nil {
		b.send(tgbotapi.NewMessage(chatID, "Send /extract or /upload <subproject id> before the file."))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, "Send /help for the list of commands."))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	if cb.Data == cbCancel {
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Cancelled.")
		_ = b.answerCallback(cb, "Cancelled", false)
		return
	}

	u := b.operator(ctx, chatID, cb.From.ID)
	if u == nil {
		_ = b.answerCallback(cb, "Access denied", true)
		return
	}
	action, date, arg, ok := parseCallback(cb.Data)
	if !ok {
		_ = b.answerCallback(cb, "Unknown action", false)
		return
	}
	_ = b.answerCallback(cb, "", false)

	switch action {
	case cbStatus:
		s, ok := statusCodes[arg]
		if !ok {
			return
		}
		p, err := b.plans.SetStatus(ctx, date, s, u.DisplayName())
		if err != nil {
			b.fail(chatID, "set status", err)
			return
		}
		b.editPlan(chatID, cb.Message.MessageID, p)
	case cbClose:
		p, err := b.plans.Close(ctx, date, u.DisplayName())
		if err != nil {
			b.fail(chatID, "close day", err)
			return
		}
		b.editPlan(chatID, cb.Message.MessageID, p)
	case cbDay:
		b.dayDocument(ctx, chatID, date+" "+arg)
	}
}
