package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

type LogRepository struct {
	ledger Ledger
	log    *logrus.Logger
}

func NewLogRepository(ledger Ledger, log *logrus.Logger) *LogRepository {
	return &LogRepository{ledger: ledger, log: log}
}

// NextFreeRow scans the log table from its first data row and returns the
// 1-based index of the first row whose tracked columns (A:D) are all empty.
// When every scanned row holds data, the next row is one past the window.
//
// Two concurrent workflows can compute the same target row; that race is a
// known limitation of the single shared log table.
func (r *LogRepository) NextFreeRow(ctx context.Context) (int, error) {
	topLeft := fmt.Sprintf("%s%d", colLogDate, firstDataRow)
	bottomRight := fmt.Sprintf("%s%d", colLogItem, logScanLastRow)

	rows, err := r.ledger.ReadRange(ctx, topLeft, bottomRight)
	if err != nil {
		return 0, err
	}

	for i, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			return firstDataRow + i, nil
		}
	}

	next := firstDataRow + len(rows)
	r.log.WithField("row", next).Debug("no empty row inside scan window, appending past it")
	return next, nil
}

// Append writes one payment log entry into the given row (columns A:I).
// The per-installment amount is written with a "," decimal separator to
// match the sheet's locale.
func (r *LogRepository) Append(ctx context.Context, row int, entry domain.LogEntry) error {
	if row < firstDataRow {
		return fmt.Errorf("%w: log row %d out of range", domain.ErrInvalidLedgerData, row)
	}

	cells := []string{
		entry.Date.Format("02/01/2006"),
		entry.FirstName,
		entry.LastName,
		entry.Item,
		entry.ItemID,
		entry.Merchant,
		entry.Address,
		strings.ReplaceAll(entry.InstallmentAmount.StringFixed(2), ".", ","),
		strconv.Itoa(entry.InstallmentsPaid),
	}

	a1 := fmt.Sprintf("%s%d:%s%d", colLogDate, row, colLogInstallmentsPaid, row)
	if err := r.ledger.WriteRow(ctx, a1, cells); err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{"row": row, "item_id": entry.ItemID}).
		Info("payment logged")
	return nil
}
