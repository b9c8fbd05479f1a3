package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mahdibujari75/Sampling-App/internal/dialog"
	"github.com/mahdibujari75/Sampling-App/internal/domain/formulation"
	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
	"github.com/mahdibujari75/Sampling-App/internal/domain/projects"
	"github.com/mahdibujari75/Sampling-App/internal/domain/render"
	"github.com/mahdibujari75/Sampling-App/internal/domain/users"
	"github.com/mahdibujari75/Sampling-App/internal/generator"
	"github.com/mahdibujari75/Sampling-App/internal/infra/storage"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	users     *users.Repo
	states    *dialog.Repo
	projects  *projects.Repo
	plans     *production.Controller
	gen       *generator.Service
	adminChat int64
}

type Deps struct {
	Users     *users.Repo
	States    *dialog.Repo
	Projects  *projects.Repo
	Plans     *production.Controller
	Generator *generator.Service
	AdminChat int64
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, d Deps) *Bot {
	return &Bot{
		api: api, log: log,
		users: d.Users, states: d.States, projects: d.Projects,
		plans: d.Plans, gen: d.Generator,
		adminChat: d.AdminChat,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}

// operator returns the sender when they may work with plans. Everyone
// else gets a refusal and nil.
func (b *Bot) operator(ctx context.Context, chatID, tgID int64) *users.User {
	u, err := b.users.GetByTelegramID(ctx, tgID)
	if err != nil {
		b.log.Error("load user", "err", err, "tg_id", tgID)
		b.send(tgbotapi.NewMessage(chatID, "Could not load your profile, try again later."))
		return nil
	}
	if !u.CanOperate() {
		b.send(tgbotapi.NewMessage(chatID, "Access denied. Send /start and wait for approval."))
		return nil
	}
	return u
}

func (b *Bot) admin(ctx context.Context, chatID, tgID int64) *users.User {
	u := b.operator(ctx, chatID, tgID)
	if u == nil {
		return nil
	}
	if !u.IsAdmin() {
		b.send(tgbotapi.NewMessage(chatID, "Only administrators can do that."))
		return nil
	}
	return u
}

// fail reports err to the chat. Unknown errors are logged and hidden.
func (b *Bot) fail(chatID int64, op string, err error) {
	text, known := describeError(err)
	var se *generator.StepError
	switch {
	case !known:
		b.log.Error(op+" failed", "err", err, "chat_id", chatID)
	case errors.As(err, &se):
		b.log.Warn(op+" failed", "step", se.Step, "target", se.Target, "err", se.Err, "chat_id", chatID)
	}
	b.send(tgbotapi.NewMessage(chatID, text))
}

func describeError(err error) (string, bool) {
	var (
		ipe *production.ImmutablePlanError
		dce *production.DateConflictError
		dnc *production.DayNumberConflictError
		vce *generator.VersionConflictError
		sre *formulation.SourceReadError
		mte *render.MalformedTemplateError
		se  *generator.StepError
	)
	switch {
	case errors.As(err, &ipe):
		return fmt.Sprintf("Day %s is closed and can no longer be changed.", ipe.Date), true
	case errors.As(err, &dce):
		return fmt.Sprintf("Another plan already uses %s.", dce.Date), true
	case errors.As(err, &dnc):
		return fmt.Sprintf("Day number %d was taken meanwhile, please save again.", dnc.DayNumber), true
	case errors.As(err, &vce):
		return fmt.Sprintf("%s was taken by someone else twice, please retry.", vce.FileName), true
	case errors.As(err, &sre):
		return fmt.Sprintf("Cannot read %s: %v", sre.File, sre.Err), true
	case errors.As(err, &mte):
		return "The document template is broken: " + mte.Reason, true
	case errors.Is(err, production.ErrPlanNotFound):
		return "No plan for that date yet.", true
	case errors.Is(err, production.ErrCardNotFound):
		return "No such card on that day.", true
	case errors.Is(err, production.ErrInvalidDate):
		return "Dates look like 1404/02/15.", true
	case errors.Is(err, storage.ErrExists):
		return "A file with that name already exists.", true
	case errors.Is(err, storage.ErrNotFound):
		return "File not found.", true
	case errors.Is(err, errUsage):
		return err.Error(), true
	case errors.As(err, &se):
		return fmt.Sprintf("The %s step failed for %s: %v", se.Step, se.Target, se.Err), true
	}
	return "Something went wrong, the error was logged.", false
}
