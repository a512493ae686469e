package telegram

import (
	"fmt"
	"strings"

	"go-alternance-automation/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// inside (...) of a MarkdownV2 link only ")" and "\" need escaping
func escapeURL(link string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(link)
}

func offerMessage(rec models.OfferRecord) string {
	o, c := rec.Offer, rec.Classification

	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 *%s*\n", escapeMarkdown(o.Title))

	org := o.Organization
	if org == "" {
		org = "N/A"
	}
	fmt.Fprintf(&sb, "🏢 %s\n", escapeMarkdown(org))

	loc := o.Location
	if loc == "" {
		loc = "N/A"
	}
	fmt.Fprintf(&sb, "📍 %s\n", escapeMarkdown(loc))

	score := fmt.Sprintf("%g/%g (%s)", c.JobScore, c.TrainingScore, c.DecisionReason)
	fmt.Fprintf(&sb, "🧮 Job/Training: %s\n", escapeMarkdown(score))

	if rec.ApplicationStatus != "" && rec.ApplicationStatus != models.StatusNotApplied {
		fmt.Fprintf(&sb, "📨 %s\n", escapeMarkdown(string(rec.ApplicationStatus)))
	}
	if o.Link != "" {
		fmt.Fprintf(&sb, "🔗 [Voir l'offre](%s)\n", escapeURL(o.Link))
	}
	return sb.String()
}

func (b *Bot) SendOffer(rec models.OfferRecord) error {
	msg := tgbotapi.NewMessage(b.chatID, offerMessage(rec))
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true

	if rec.Offer.Link != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 Voir l'offre", rec.Offer.Link),
			),
		)
	}

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
