// Package telegram routes bot commands, free-text payment requests and
// inline-keyboard selections into the payment workflow. Every failure is
// converted to a user-facing message plus a log record; handlers never crash
// the update poller.
package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/TickSnap/internal/domain"
	"github.com/MiltonKlun/TickSnap/internal/service"
)

type CreditFinder interface {
	FindCredits(ctx context.Context, firstName, lastName string) ([]domain.CreditMatch, error)
}

type PaymentRegistrar interface {
	RegisterPayment(ctx context.Context, req domain.PaymentRequest, deliver service.DeliverFunc) (domain.PaymentOutcome, error)
}

type SnapshotTaker interface {
	CreateSnapshot(ctx context.Context) (string, error)
}

type LedgerPinger interface {
	Ping(ctx context.Context) error
}

type Bot struct {
	api       *tgbotapi.BotAPI
	allowed   map[int64]struct{}
	credits   CreditFinder
	payments  PaymentRegistrar
	snapshots SnapshotTaker
	ledger    LedgerPinger
	log       *logrus.Logger
}

func NewBot(token string, allowedIDs []int64, credits CreditFinder, payments PaymentRegistrar, snapshots SnapshotTaker, ledger LedgerPinger, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	allowed := make(map[int64]struct{}, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = struct{}{}
	}

	return &Bot{
		api:       api,
		allowed:   allowed,
		credits:   credits,
		payments:  payments,
		snapshots: snapshots,
		ledger:    ledger,
		log:       log,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := b.api.GetUpdatesChan(cfg)

	b.log.WithField("bot", b.api.Self.UserName).Info("telegram bot polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// one logical transaction per interaction; interactions from
			// independent operators run concurrently
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithField("panic", r).Error("recovered from panic while handling update")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) isAllowed(userID int64) bool {
	_, ok := b.allowed[userID]
	if !ok {
		b.log.WithField("user_id", userID).Warn("unauthorized access attempt")
	}
	return ok
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAllowed(msg.From.ID) {
		b.reply(msg.Chat.ID, "⛔ Access Denied. You are not authorized to use this bot.")
		return
	}

	switch msg.Command() {
	case "start", "help", "ayuda", "reiniciar":
		// probe the ledger now so a broken connection surfaces before the
		// operator types a whole payment request
		if err := b.ledger.Ping(ctx); err != nil {
			b.log.WithError(err).WithField("user_id", msg.From.ID).Error("ledger unreachable on /start")
			b.reply(msg.Chat.ID, "⚠️ *Critical Error:* Could not connect to the data source.\nPlease contact the administrator.")
			return
		}
		b.reply(msg.Chat.ID,
			"¡Hola! 👋 Welcome to TickSnap!\n\n"+
				"To register a payment, send the client's details and installments in this format:\n"+
				"*FirstName LastName NumberOfInstallments*\n\n"+
				"Example:\n`John Doe 3`\n\n"+
				"🔹 Use spaces to separate parts.\n"+
				"🔹 Number of installments must be greater than 0.")
	case "snapshot":
		saved, err := b.snapshots.CreateSnapshot(ctx)
		if err != nil {
			b.log.WithError(err).WithField("user_id", msg.From.ID).Error("snapshot failed")
			b.reply(msg.Chat.ID, "⚠️ Could not create the master snapshot. Please try again later.")
			return
		}
		b.reply(msg.Chat.ID, fmt.Sprintf("🗂 Master snapshot archived as `%s`.", saved))
	default:
		b.reply(msg.Chat.ID, "Unknown command. Use /start for instructions.")
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAllowed(msg.From.ID) {
		return
	}

	cmd, err := parsePaymentCommand(msg.Text)
	if errors.Is(err, errNotACommand) {
		b.log.WithField("user_id", msg.From.ID).Debug("message without payment shape ignored")
		return
	}
	if err != nil {
		b.reply(msg.Chat.ID, "❌ *Error:* 'Number of Installments' must be a whole number greater than 0.")
		return
	}

	log := b.log.WithFields(logrus.Fields{
		"user_id": msg.From.ID,
		"client":  cmd.FirstName + " " + cmd.LastName,
	})
	log.WithField("installments", cmd.Installments).Info("payment registration requested")

	matches, err := b.credits.FindCredits(ctx, cmd.FirstName, cmd.LastName)
	if err != nil {
		log.WithError(err).Error("credit lookup failed")
		b.reply(msg.Chat.ID, lookupErrorText(err))
		return
	}
	if len(matches) == 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"❌ No active credits found for *%s %s*.\nPlease check the name or add the credit to the master sheet.",
			cmd.FirstName, cmd.LastName))
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range matches {
		label := fmt.Sprintf("%s (Code: %s)", m.Item, m.ItemCode)
		data := formatSelection(m.Row, cmd.Installments, m.ItemCode)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}

	text := fmt.Sprintf(
		"📄 Found %d item(s) for *%s %s*.\nPlease select the item for which to register *%d* installment(s):",
		len(matches), cmd.FirstName, cmd.LastName, cmd.Installments)

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeMarkdown
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(out); err != nil {
		log.WithError(err).Error("failed to send selection keyboard")
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.WithError(err).Warn("failed to acknowledge callback")
	}

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	if !b.isAllowed(query.From.ID) {
		b.edit(chatID, messageID, "⛔ Access Denied. You are not authorized for this action.")
		return
	}

	sel, err := parseSelection(query.Data)
	if err != nil {
		b.log.WithError(err).WithField("user_id", query.From.ID).Error("bad selection callback")
		b.edit(chatID, messageID, "❌ *Error:* Invalid selection data. Please try the process again.")
		return
	}

	log := b.log.WithFields(logrus.Fields{
		"user_id":      query.From.ID,
		"row":          sel.Row,
		"installments": sel.Installments,
	})

	b.edit(chatID, messageID, fmt.Sprintf(
		"⏳ Processing payment for item (Code: %s), %d installment(s)...", sel.ItemCode, sel.Installments))

	deliver := func(ctx context.Context, image []byte, caption string) error {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "ticket.png", Bytes: image})
		photo.Caption = "📄 " + caption
		_, err := b.api.Send(photo)
		return err
	}

	outcome, err := b.payments.RegisterPayment(ctx,
		domain.PaymentRequest{Row: sel.Row, InstallmentsToPay: sel.Installments}, deliver)
	if err != nil {
		log.WithError(err).Error("payment workflow failed")
		b.edit(chatID, messageID, workflowErrorText(err))
		return
	}

	switch outcome.Status {
	case domain.OutcomeAlreadySettled:
		rec := outcome.Record
		b.edit(chatID, messageID, fmt.Sprintf(
			"✅ *Credit Fully Paid!*\nItem: %s (Code: %s)\nClient: %s %s\nAll %d installments already paid.",
			rec.Item, rec.ItemCode, rec.FirstName, rec.LastName, rec.TotalInstallments))
	case domain.OutcomeExceedsRemaining:
		rec := outcome.Record
		b.edit(chatID, messageID, fmt.Sprintf(
			"⚠️ *Payment Exceeds Remaining Installments!*\nItem: %s (Code: %s)\nClient: %s %s\n"+
				"Attempting to pay: *%d* installments.\nRemaining installments: *%d*.\n\n"+
				"Please restart the process (/start) with the correct number of installments.",
			rec.Item, rec.ItemCode, rec.FirstName, rec.LastName, sel.Installments, outcome.Remaining))
	case domain.OutcomeRegistered:
		b.edit(chatID, messageID, fmt.Sprintf(
			"✅ Payment of %d installment(s) for '%s' registered successfully!",
			sel.Installments, outcome.Record.Item))
	}
}

// lookupErrorText maps failures before any side effects occurred.
func lookupErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrConnection):
		return "⚠️ A database connection error occurred while searching for the client. Please try again later."
	case errors.Is(err, domain.ErrRemoteAPI):
		return "⚠️ An error occurred with the data source. Please try again or contact an administrator."
	default:
		return "❌ An unexpected error occurred. Please try again."
	}
}

// workflowErrorText maps payment workflow failures, including the
// delivered-but-not-logged window, onto operator guidance.
func workflowErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrPaymentUncertain):
		return "❌ Payment status uncertain: the receipt was issued but the ledger write failed. Please contact an administrator immediately. Do not retry."
	case errors.Is(err, domain.ErrInvalidLedgerData):
		return "❌ Data error in the master sheet. Payment not processed. Please correct the row or contact an administrator."
	case errors.Is(err, domain.ErrConnection), errors.Is(err, domain.ErrRemoteAPI):
		return "⚠️ Data source error. Payment might not be fully processed. Please verify before retrying."
	case errors.Is(err, domain.ErrInvalidUserInput):
		return "❌ *Error:* Invalid selection data. Please try the process again."
	default:
		return "❌ An unexpected critical error occurred. Payment status uncertain. Please contact an administrator immediately."
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("failed to send message")
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		// editing can fail when the message is too old; fall back to a new one
		b.log.WithError(err).Warn("failed to edit message, sending a new one")
		b.reply(chatID, text)
	}
}
