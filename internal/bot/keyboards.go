package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

// Callback data is "<action>:<date>[:<arg>]". Dates are stored in their
// folder form so the payload has no slashes and stays short.
const (
	cbStatus = "st"
	cbDay    = "day"
	cbClose  = "close"
	cbCancel = "nav:cancel"
)

var statusCodes = map[string]production.Status{
	"o": production.StatusOpen,
	"p": production.StatusInProgress,
	"w": production.StatusWaiting,
}

func callbackData(action, date, arg string) string {
	d := strings.ReplaceAll(date, "/", "-")
	if arg == "" {
		return action + ":" + d
	}
	return action + ":" + d + ":" + arg
}

func parseCallback(data string) (action, date, arg string, ok bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 {
		return "", "", "", false
	}
	action, date = parts[0], strings.ReplaceAll(parts[1], "-", "/")
	if len(parts) == 3 {
		arg = parts[2]
	}
	return action, date, arg, true
}

func navKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", cbCancel),
		),
	)
}

// planKeyboard offers status changes and day documents. Closed plans only
// get the documents.
func planKeyboard(p *production.DayPlan) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if !p.Closed() {
		var status []tgbotapi.InlineKeyboardButton
		for _, code := range []string{"o", "p", "w"} {
			s := statusCodes[code]
			if s == p.Status {
				continue
			}
			status = append(status, tgbotapi.NewInlineKeyboardButtonData(string(s), callbackData(cbStatus, p.Date, code)))
		}
		rows = append(rows, status)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 Close day", callbackData(cbClose, p.Date, "")),
		))
	}
	var docs []tgbotapi.InlineKeyboardButton
	for _, t := range []versioning.DocType{versioning.DocRMC, versioning.DocRMF, versioning.DocRMR} {
		docs = append(docs, tgbotapi.NewInlineKeyboardButtonData("📄 "+string(t), callbackData(cbDay, p.Date, string(t))))
	}
	rows = append(rows, docs)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
