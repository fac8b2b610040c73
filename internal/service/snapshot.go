package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/MiltonKlun/TickSnap/internal/clients"
)

type MasterReader interface {
	ReadRange(ctx context.Context, topLeft, bottomRight string) ([][]string, error)
}

// columns M:X of the master table, in sheet order; O is unused in the ledger
var snapshotHeaders = []string{
	"First Name", "Last Name", "", "Item", "Item Code", "Item ID",
	"Merchant", "Address", "Total Credit", "Installment Amount",
	"Total Installments", "Installments Paid",
}

// SnapshotService writes an offline XLSX copy of the master credit table into
// the local archive. Read-only with respect to the ledger.
type SnapshotService struct {
	ledger  MasterReader
	archive *clients.ArchiveClient
	log     *logrus.Logger
}

func NewSnapshotService(ledger MasterReader, archive *clients.ArchiveClient, log *logrus.Logger) *SnapshotService {
	return &SnapshotService{ledger: ledger, archive: archive, log: log}
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context) (string, error) {
	rows, err := s.ledger.ReadRange(ctx, "M2", "X500")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	sheet := "Master"
	f.SetSheetName(f.GetSheetName(0), sheet)
	_ = f.SetDocProps(&excelize.DocProperties{Creator: "TickSnap"})

	for i, header := range snapshotHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	rowIdx := 2
	kept := 0
	for _, row := range rows {
		if isBlankRow(row) {
			rowIdx++
			continue
		}
		for colIdx, cell := range row {
			if colIdx >= len(snapshotHeaders) {
				break
			}
			name, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			_ = f.SetCellValue(sheet, name, cell)
		}
		rowIdx++
		kept++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to build snapshot workbook: %w", err)
	}

	fileName := fmt.Sprintf("master_%s.xlsx", time.Now().Format("20060102_150405"))
	saved, err := s.archive.Save(ctx, fileName, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.WithFields(logrus.Fields{"file": saved, "rows": kept}).Info("master snapshot archived")
	return saved, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
