package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/TickSnap/internal/clients"
	"github.com/MiltonKlun/TickSnap/internal/domain"
)

// ReceiptNumberError is written on the receipt when the item identifier
// cannot be coerced to a number; a broken receipt number never fails the
// transaction.
const ReceiptNumberError = "Error/Format"

type CreditSource interface {
	LoadCredit(ctx context.Context, row int) (domain.CreditRecord, error)
}

type PaymentLog interface {
	NextFreeRow(ctx context.Context) (int, error)
	Append(ctx context.Context, row int, entry domain.LogEntry) error
}

type TicketRenderer interface {
	Ticket(text string) ([]byte, error)
}

// DeliverFunc hands the rendered receipt back to the conversation; the
// transport binds it to the right chat.
type DeliverFunc func(ctx context.Context, image []byte, caption string) error

type PaymentService struct {
	credits   CreditSource
	plog      PaymentLog
	renderer  TicketRenderer
	archive   *clients.ArchiveClient
	collector string
	log       *logrus.Logger
	now       func() time.Time
}

func NewPaymentService(credits CreditSource, plog PaymentLog, renderer TicketRenderer, archive *clients.ArchiveClient, collector string, log *logrus.Logger) *PaymentService {
	return &PaymentService{
		credits:   credits,
		plog:      plog,
		renderer:  renderer,
		archive:   archive,
		collector: collector,
		log:       log,
		now:       time.Now,
	}
}

// RegisterPayment runs one payment transaction: load the credit, validate
// feasibility, render and deliver the receipt, then append the log entry.
//
// Receipt delivery intentionally happens before the log append; if the
// append fails afterwards the ledger is under-counted relative to a
// delivered receipt and the caller gets ErrPaymentUncertain. The append is
// never retried since that would risk a duplicate log entry. The master
// table's installments-paid counter is never written here; the sheet derives
// totals from the log on its own.
func (s *PaymentService) RegisterPayment(ctx context.Context, req domain.PaymentRequest, deliver DeliverFunc) (domain.PaymentOutcome, error) {
	if req.InstallmentsToPay <= 0 {
		return domain.PaymentOutcome{}, fmt.Errorf("%w: installments to pay must be > 0", domain.ErrInvalidUserInput)
	}

	rec, err := s.credits.LoadCredit(ctx, req.Row)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}

	if rec.InstallmentsPaid >= rec.TotalInstallments {
		s.log.WithFields(logrus.Fields{"row": rec.Row, "item": rec.Item}).
			Warn("payment attempt against a fully paid credit")
		return domain.PaymentOutcome{Status: domain.OutcomeAlreadySettled, Record: rec}, nil
	}

	remaining := rec.Remaining()
	if req.InstallmentsToPay > remaining {
		s.log.WithFields(logrus.Fields{"row": rec.Row, "requested": req.InstallmentsToPay, "remaining": remaining}).
			Warn("payment exceeds remaining installments")
		return domain.PaymentOutcome{
			Status:    domain.OutcomeExceedsRemaining,
			Record:    rec,
			Remaining: remaining,
		}, nil
	}

	// one scan serves both the write target and the receipt number
	logRow, err := s.plog.NextFreeRow(ctx)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}

	outcome := domain.PaymentOutcome{
		Status:        domain.OutcomeRegistered,
		Record:        rec,
		ReceiptNumber: receiptNumber(rec.ItemID, logRow, s.log),
		LogRow:        logRow,
		RangeLabel:    rangeLabel(rec.InstallmentsPaid, req.InstallmentsToPay, rec.TotalInstallments),
		AmountDueNow:  rec.InstallmentAmount.Mul(decimal.NewFromInt(int64(req.InstallmentsToPay))),
		PaidToDate:    rec.InstallmentAmount.Mul(decimal.NewFromInt(int64(rec.InstallmentsPaid + req.InstallmentsToPay))),
		Remaining:     remaining - req.InstallmentsToPay,
	}

	when := s.now()
	image, err := s.renderer.Ticket(ticketText(outcome, req.InstallmentsToPay, when, s.collector))
	if err != nil {
		return domain.PaymentOutcome{}, fmt.Errorf("failed to render receipt: %w", err)
	}

	caption := fmt.Sprintf("Payment ticket for %s (Code: %s).", rec.Item, rec.ItemCode)
	if err := deliver(ctx, image, caption); err != nil {
		return domain.PaymentOutcome{}, fmt.Errorf("failed to deliver receipt: %w", err)
	}

	s.archiveReceipt(ctx, outcome, image)

	entry := domain.LogEntry{
		Date:              when,
		FirstName:         rec.FirstName,
		LastName:          rec.LastName,
		Item:              rec.Item,
		ItemID:            rec.ItemID,
		Merchant:          rec.Merchant,
		Address:           rec.Address,
		InstallmentAmount: rec.InstallmentAmount,
		InstallmentsPaid:  req.InstallmentsToPay,
	}
	if err := s.plog.Append(ctx, logRow, entry); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"row": rec.Row, "log_row": logRow}).
			Error("log append failed after receipt delivery")
		return domain.PaymentOutcome{}, fmt.Errorf("%w: %v", domain.ErrPaymentUncertain, err)
	}

	s.log.WithFields(logrus.Fields{
		"row":          rec.Row,
		"log_row":      logRow,
		"installments": req.InstallmentsToPay,
		"receipt":      outcome.ReceiptNumber,
	}).Info("payment registered")

	return outcome, nil
}

func (s *PaymentService) archiveReceipt(ctx context.Context, outcome domain.PaymentOutcome, image []byte) {
	if s.archive == nil {
		return
	}
	name := fmt.Sprintf("receipt_%04d.png", outcome.LogRow)
	if _, err := s.archive.Save(ctx, name, image); err != nil {
		// the receipt already reached the operator; keep going
		s.log.WithError(err).Warn("failed to archive receipt copy")
	}
}

// receiptNumber formats "<3-digit item id>/<4-digit log row>". A non-numeric
// item identifier degrades to an explicit marker instead of failing.
func receiptNumber(itemID string, logRow int, log *logrus.Logger) string {
	id, err := strconv.Atoi(itemID)
	if err != nil {
		log.WithField("item_id", itemID).Error("item identifier is not numeric, receipt number degraded")
		return ReceiptNumberError
	}
	return fmt.Sprintf("%03d/%04d", id, logRow)
}

// rangeLabel names the installments covered by this payment, e.g.
// "4 to 5 of 12", collapsing to "4 of 12" for a single installment.
func rangeLabel(paidBefore, toPay, total int) string {
	start := paidBefore + 1
	if toPay == 1 {
		return fmt.Sprintf("%d of %d", start, total)
	}
	return fmt.Sprintf("%d to %d of %d", start, paidBefore+toPay, total)
}
