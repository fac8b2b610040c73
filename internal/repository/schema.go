package repository

import "github.com/MiltonKlun/TickSnap/pkg/colref"

// Fixed ledger schema. Master table columns M:X hold the active credits;
// columns Y and Z are derived inside the sheet and never read here. Log
// table columns A:I hold one appended row per registered payment.
const (
	colMasterFirstName         = "M"
	colMasterLastName          = "N"
	colMasterItem              = "P"
	colMasterItemCode          = "Q"
	colMasterItemID            = "R"
	colMasterMerchant          = "S"
	colMasterAddress           = "T"
	colMasterTotalCredit       = "U"
	colMasterInstallmentAmount = "V"
	colMasterTotalInstallments = "W"
	colMasterInstallmentsPaid  = "X"

	colLogDate              = "A"
	colLogItem              = "D"
	colLogInstallmentsPaid  = "I"

	// both tables have a header in row 1
	firstDataRow = 2

	// scan windows; rows beyond these are not served by the bot
	masterScanLastRow = 500
	logScanLastRow    = 1000
)

var (
	idxMasterFirstName         = colref.MustIndex(colMasterFirstName)
	idxMasterLastName          = colref.MustIndex(colMasterLastName)
	idxMasterItem              = colref.MustIndex(colMasterItem)
	idxMasterItemCode          = colref.MustIndex(colMasterItemCode)
	idxMasterItemID            = colref.MustIndex(colMasterItemID)
	idxMasterMerchant          = colref.MustIndex(colMasterMerchant)
	idxMasterAddress           = colref.MustIndex(colMasterAddress)
	idxMasterTotalCredit       = colref.MustIndex(colMasterTotalCredit)
	idxMasterInstallmentAmount = colref.MustIndex(colMasterInstallmentAmount)
	idxMasterTotalInstallments = colref.MustIndex(colMasterTotalInstallments)
	idxMasterInstallmentsPaid  = colref.MustIndex(colMasterInstallmentsPaid)
)
