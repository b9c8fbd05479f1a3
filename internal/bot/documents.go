package bot

import (
	"context"
	"fmt"
	"path"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mahdibujari75/Sampling-App/internal/dialog"
	"github.com/mahdibujari75/Sampling-App/internal/domain/formulation"
	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
	"github.com/mahdibujari75/Sampling-App/internal/domain/projects"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
	"github.com/mahdibujari75/Sampling-App/internal/generator"
)

func (b *Bot) subproject(ctx context.Context, arg string) (*projects.Subproject, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	sub, err := b.projects.GetSubproject(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, usage("subproject #%d does not exist, see /subs", id)
	}
	return sub, nil
}

func (b *Bot) sendPublished(chatID int64, pub *generator.Published, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  pub.FileName,
		Bytes: pub.Data,
	})
	doc.Caption = fmt.Sprintf("%s\n%d page(s), stored in %s", caption, pub.Pages, pub.Dir)
	b.send(doc)
}

func (b *Bot) listSources(ctx context.Context, chatID int64, line string) {
	a := args(line, 1)
	if len(a) != 1 {
		b.fail(chatID, "list sources", usage("/sources <subproject id>"))
		return
	}
	sub, err := b.subproject(ctx, a[0])
	if err != nil {
		b.fail(chatID, "list sources", err)
		return
	}
	files, err := b.gen.SourceFiles(ctx, *sub)
	if err != nil {
		b.fail(chatID, "list sources", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, formatSources(*sub, files)))
}

func (b *Bot) cardDocument(ctx context.Context, chatID int64, t versioning.DocType, line string) {
	a := args(line, 2)
	if len(a) != 2 {
		b.fail(chatID, "card document", usage("/%s <subproject id> <file>", t))
		return
	}
	sub, err := b.subproject(ctx, a[0])
	if err != nil {
		b.fail(chatID, "card document", err)
		return
	}
	kind, err := sub.FormulationKind()
	if err != nil {
		b.fail(chatID, "card document", usage("%s has no formulation sheets", sub.Code))
		return
	}
	card := production.Card{
		SubprojectID:    sub.ID,
		SubprojectCode:  sub.Code,
		CustomerSlug:    sub.CustomerSlug,
		CustomerName:    sub.CustomerName,
		Kind:            kind,
		FormulationFile: a[1],
	}
	pub, err := b.gen.CardDocument(ctx, t, card)
	if err != nil {
		b.fail(chatID, "card document", err)
		return
	}
	b.sendPublished(chatID, pub, fmt.Sprintf("%s from %s", t, a[1]))
}

func (b *Bot) awaitSource(ctx context.Context, chatID int64, line string) {
	a := args(line, 1)
	if len(a) != 1 {
		b.fail(chatID, "upload", usage("/upload <subproject id>"))
		return
	}
	sub, err := b.subproject(ctx, a[0])
	if err != nil {
		b.fail(chatID, "upload", err)
		return
	}
	if _, err := sub.SourceScope(); err != nil {
		b.fail(chatID, "upload", usage("%s has no formulation sheets", sub.Code))
		return
	}
	if err := b.states.Set(ctx, chatID, dialog.StateAwaitSource, dialog.Payload{dialog.KeySubprojectID: sub.ID}); err != nil {
		b.fail(chatID, "upload", err)
		return
	}
	m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Send the formulation sheet of %s as an .xlsx document.", sub.Code))
	m.ReplyMarkup = navKeyboard()
	b.send(m)
}

// storeSource checks that the upload is readable before it is written.
func (b *Bot) storeSource(ctx context.Context, chatID int64, p dialog.Payload, name string, data []byte) {
	id, ok := dialog.GetInt64(p, dialog.KeySubprojectID)
	if !ok {
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, "The upload was not started, send /upload again."))
		return
	}
	sub, err := b.projects.GetSubproject(ctx, id)
	if err != nil {
		b.fail(chatID, "store source", err)
		return
	}
	if sub == nil {
		_ = b.states.Reset(ctx, chatID)
		b.fail(chatID, "store source", usage("subproject #%d no longer exists", id))
		return
	}
	name = path.Base(name)
	pub, doc, err := b.gen.StoreSource(ctx, *sub, name, data)
	if err != nil {
		b.fail(chatID, "store source", err)
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Stored as %s in %s.\n\n%s", pub.FileName, pub.Dir, formatExtraction(doc))))
}

func (b *Bot) awaitFormulation(ctx context.Context, chatID int64, line string) {
	p := dialog.Payload{}
	if a := args(line, 1); len(a) == 1 {
		kind, err := formulation.ParseKind(a[0])
		if err != nil {
			b.fail(chatID, "extract", usage("kind is C or F"))
			return
		}
		p[dialog.KeyKind] = string(kind)
	}
	if err := b.states.Set(ctx, chatID, dialog.StateAwaitFormulation, p); err != nil {
		b.fail(chatID, "extract", err)
		return
	}
	m := tgbotapi.NewMessage(chatID, "Send the formulation as an .xlsx document. Put C or F in the caption unless you gave the kind already.")
	m.ReplyMarkup = navKeyboard()
	b.send(m)
}

func (b *Bot) previewFormulation(ctx context.Context, chatID int64, p dialog.Payload, caption, name string, data []byte) {
	raw, _ := dialog.GetString(p, dialog.KeyKind)
	if caption != "" {
		raw = caption
	}
	kind, err := formulation.ParseKind(raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Tell me the kind: resend the file with C or F as its caption."))
		return
	}
	doc, err := formulation.ExtractBytes(kind, name, data)
	if err != nil {
		b.fail(chatID, "extract", err)
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, formatExtraction(doc)))
}
