package repository

import "context"

type recordedWrite struct {
	a1    string
	cells []string
}

// fakeLedger is an in-memory Ledger for repository and service tests.
type fakeLedger struct {
	rangeRows [][]string
	rangeErr  error

	rows   map[int][]string
	rowErr error

	writes   []recordedWrite
	writeErr error
}

func (f *fakeLedger) ReadRange(ctx context.Context, topLeft, bottomRight string) ([][]string, error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	return f.rangeRows, nil
}

func (f *fakeLedger) ReadRow(ctx context.Context, row int) ([]string, error) {
	if f.rowErr != nil {
		return nil, f.rowErr
	}
	return f.rows[row], nil
}

func (f *fakeLedger) WriteRow(ctx context.Context, a1Range string, cells []string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, recordedWrite{a1: a1Range, cells: cells})
	return nil
}

// masterSheetRow builds a full sheet row (columns A:X) with the master table
// fields placed at their fixed columns M:X.
func masterSheetRow(first, last, item, code, itemID, merchant, address, total, cuota, totalCuotas, paid string) []string {
	row := make([]string, 24)
	row[idxMasterFirstName] = first
	row[idxMasterLastName] = last
	row[idxMasterItem] = item
	row[idxMasterItemCode] = code
	row[idxMasterItemID] = itemID
	row[idxMasterMerchant] = merchant
	row[idxMasterAddress] = address
	row[idxMasterTotalCredit] = total
	row[idxMasterInstallmentAmount] = cuota
	row[idxMasterTotalInstallments] = totalCuotas
	row[idxMasterInstallmentsPaid] = paid
	return row
}

// lookupRow builds a row as returned by the lookup range scan (M:R relative).
func lookupRow(first, last, item, code, itemID string) []string {
	return []string{first, last, "", item, code, itemID}
}
