package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

// Ledger is the slice of the spreadsheet client the repositories need.
type Ledger interface {
	ReadRange(ctx context.Context, topLeft, bottomRight string) ([][]string, error)
	ReadRow(ctx context.Context, row int) ([]string, error)
	WriteRow(ctx context.Context, a1Range string, cells []string) error
}

type CreditRepository struct {
	ledger Ledger
	log    *logrus.Logger
}

func NewCreditRepository(ledger Ledger, log *logrus.Logger) *CreditRepository {
	return &CreditRepository{ledger: ledger, log: log}
}

// FindCredits scans the master table for rows whose first/last name match
// case-insensitively. Matching rows missing an item code or item identifier
// are skipped with a data-quality warning, never returned and never fatal.
// An empty result means "no active credit found" and is not an error.
func (r *CreditRepository) FindCredits(ctx context.Context, firstName, lastName string) ([]domain.CreditMatch, error) {
	topLeft := fmt.Sprintf("%s%d", colMasterFirstName, firstDataRow)
	bottomRight := fmt.Sprintf("%s%d", colMasterItemID, masterScanLastRow)

	rows, err := r.ledger.ReadRange(ctx, topLeft, bottomRight)
	if err != nil {
		return nil, err
	}

	// indexes relative to the fetched range, which starts at the first name column
	relLast := idxMasterLastName - idxMasterFirstName
	relItem := idxMasterItem - idxMasterFirstName
	relCode := idxMasterItemCode - idxMasterFirstName
	relID := idxMasterItemID - idxMasterFirstName

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	var matches []domain.CreditMatch
	for i, row := range rows {
		if len(row) <= relID {
			continue
		}

		if !strings.EqualFold(strings.TrimSpace(row[0]), firstName) ||
			!strings.EqualFold(strings.TrimSpace(row[relLast]), lastName) {
			continue
		}

		sheetRow := firstDataRow + i
		item := textOrSentinel(row[relItem])
		code := textOrSentinel(row[relCode])
		itemID := textOrSentinel(row[relID])

		if itemID == domain.TextSentinel {
			r.log.WithFields(logrus.Fields{"row": sheetRow, "client": firstName + " " + lastName}).
				Warn("master row skipped: missing item identifier")
			continue
		}
		if code == domain.TextSentinel {
			r.log.WithFields(logrus.Fields{"row": sheetRow, "client": firstName + " " + lastName}).
				Warn("master row skipped: missing item code")
			continue
		}

		matches = append(matches, domain.CreditMatch{
			Row:      sheetRow,
			Item:     item,
			ItemCode: code,
			ItemID:   itemID,
		})
	}

	return matches, nil
}

// LoadCredit reads one master row in full and parses it into a CreditRecord.
// Cosmetic fields degrade to defaults on bad cells; the identifying and
// financial fields abort the load with ErrInvalidLedgerData instead.
func (r *CreditRepository) LoadCredit(ctx context.Context, row int) (domain.CreditRecord, error) {
	if row < firstDataRow {
		return domain.CreditRecord{}, fmt.Errorf("%w: master row %d out of range", domain.ErrInvalidLedgerData, row)
	}

	cells, err := r.ledger.ReadRow(ctx, row)
	if err != nil {
		return domain.CreditRecord{}, err
	}
	if len(cells) == 0 {
		return domain.CreditRecord{}, fmt.Errorf("%w: no data in master row %d", domain.ErrInvalidLedgerData, row)
	}

	rec := domain.CreditRecord{
		Row:               row,
		FirstName:         r.textCell(cells, idxMasterFirstName),
		LastName:          r.textCell(cells, idxMasterLastName),
		Item:              r.textCell(cells, idxMasterItem),
		ItemCode:          r.textCell(cells, idxMasterItemCode),
		ItemID:            r.textCell(cells, idxMasterItemID),
		Merchant:          r.textCell(cells, idxMasterMerchant),
		Address:           r.textCell(cells, idxMasterAddress),
		TotalCredit:       r.amountCell(cells, idxMasterTotalCredit, row),
		InstallmentAmount: r.amountCell(cells, idxMasterInstallmentAmount, row),
		TotalInstallments: r.intCell(cells, idxMasterTotalInstallments, row),
		InstallmentsPaid:  r.intCell(cells, idxMasterInstallmentsPaid, row),
	}

	// single rejection point for inconsistent rows, before any payment math
	switch {
	case rec.ItemID == domain.TextSentinel:
		return domain.CreditRecord{}, fmt.Errorf("%w: item identifier missing in master row %d", domain.ErrInvalidLedgerData, row)
	case rec.ItemCode == domain.TextSentinel:
		return domain.CreditRecord{}, fmt.Errorf("%w: item code missing in master row %d", domain.ErrInvalidLedgerData, row)
	case !rec.InstallmentAmount.IsPositive():
		return domain.CreditRecord{}, fmt.Errorf("%w: per-installment amount must be > 0 in master row %d", domain.ErrInvalidLedgerData, row)
	case rec.TotalInstallments <= 0:
		return domain.CreditRecord{}, fmt.Errorf("%w: total installment count must be > 0 in master row %d", domain.ErrInvalidLedgerData, row)
	}

	return rec, nil
}

func (r *CreditRepository) textCell(cells []string, idx int) string {
	if idx >= len(cells) {
		return domain.TextSentinel
	}
	return textOrSentinel(cells[idx])
}

func (r *CreditRepository) intCell(cells []string, idx int, row int) int {
	if idx >= len(cells) {
		return 0
	}
	raw := strings.TrimSpace(cells[idx])
	if raw == "" {
		return 0
	}
	n, err := parseLedgerInt(raw)
	if err != nil {
		r.log.WithFields(logrus.Fields{"row": row, "cell": raw}).
			Warn("unparseable integer cell, defaulting to 0")
		return 0
	}
	return n
}

func (r *CreditRepository) amountCell(cells []string, idx int, row int) decimal.Decimal {
	if idx >= len(cells) {
		return decimal.Zero
	}
	raw := strings.TrimSpace(cells[idx])
	if raw == "" {
		return decimal.Zero
	}
	d, err := ParseLedgerAmount(raw)
	if err != nil {
		r.log.WithFields(logrus.Fields{"row": row, "cell": raw}).
			Warn("unparseable amount cell, defaulting to 0")
		return decimal.Zero
	}
	return d
}

func textOrSentinel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.TextSentinel
	}
	return s
}

// parseLedgerInt parses an integer cell that may carry a currency symbol,
// "." thousands separators and a "," decimal tail ("$1.500,00" -> 1500).
func parseLedgerInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ".", "")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// ParseLedgerAmount parses a money cell using the ledger's locale: "." is a
// thousands separator and "," the decimal separator ("1.234,56" -> 1234.56).
func ParseLedgerAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(strings.TrimSpace(s))
}
