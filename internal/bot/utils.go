package bot

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mahdibujari75/Sampling-App/internal/domain/jalali"
	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
)

var errUsage = errors.New("usage")

func usage(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, a...)...)
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// downloadTelegramFile fetches an uploaded file by its FileID.
func (b *Bot) downloadTelegramFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram returned status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// args splits command arguments on whitespace. The last argument takes
// the rest of the line so file names may contain spaces.
func args(line string, n int) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if n <= 0 {
		return strings.Fields(line)
	}
	var out []string
	for len(out) < n-1 {
		line = strings.TrimLeft(line, " \t")
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			break
		}
		out = append(out, line[:i])
		line = line[i:]
	}
	if rest := strings.TrimSpace(line); rest != "" {
		out = append(out, rest)
	}
	return out
}

func parseDate(s string) (string, error) {
	if !jalali.Valid(s) {
		return "", fmt.Errorf("%w: %q", production.ErrInvalidDate, s)
	}
	return jalali.Full(s), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, usage("%q is not an id", s)
	}
	return id, nil
}
