package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

func TestNextFreeRow(t *testing.T) {
	t.Run("first all-empty row wins", func(t *testing.T) {
		ledger := &fakeLedger{rangeRows: [][]string{
			{"01/02/2026", "Maria", "Lopez", "Heladera"},
			{"", "  ", ""},
			{"03/02/2026", "Juan", "Perez", "Televisor"},
		}}
		repo := NewLogRepository(ledger, testLogger())

		row, err := repo.NextFreeRow(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, row)
	})

	t.Run("short empty row counts as empty", func(t *testing.T) {
		ledger := &fakeLedger{rangeRows: [][]string{
			{"01/02/2026", "Maria", "Lopez", "Heladera"},
			{},
		}}
		repo := NewLogRepository(ledger, testLogger())

		row, err := repo.NextFreeRow(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, row)
	})

	t.Run("no empty row appends past the window", func(t *testing.T) {
		ledger := &fakeLedger{rangeRows: [][]string{
			{"01/02/2026", "Maria", "Lopez", "Heladera"},
			{"02/02/2026", "Juan", "Perez", "Televisor"},
		}}
		repo := NewLogRepository(ledger, testLogger())

		row, err := repo.NextFreeRow(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, row)
	})

	t.Run("empty log starts at the first data row", func(t *testing.T) {
		repo := NewLogRepository(&fakeLedger{}, testLogger())

		row, err := repo.NextFreeRow(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, row)
	})

	t.Run("ledger error surfaces", func(t *testing.T) {
		repo := NewLogRepository(&fakeLedger{rangeErr: domain.ErrRemoteAPI}, testLogger())

		_, err := repo.NextFreeRow(context.Background())
		assert.ErrorIs(t, err, domain.ErrRemoteAPI)
	})
}

func TestAppend(t *testing.T) {
	ledger := &fakeLedger{}
	repo := NewLogRepository(ledger, testLogger())

	entry := domain.LogEntry{
		Date:              time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC),
		FirstName:         "Maria",
		LastName:          "Lopez",
		Item:              "Heladera",
		ItemID:            "12",
		Merchant:          "Casa Central",
		Address:           "Av. Siempreviva 742",
		InstallmentAmount: decimal.RequireFromString("1500"),
		InstallmentsPaid:  2,
	}

	require.NoError(t, repo.Append(context.Background(), 12, entry))
	require.Len(t, ledger.writes, 1)

	w := ledger.writes[0]
	assert.Equal(t, "A12:I12", w.a1)
	assert.Equal(t, []string{
		"14/02/2026", "Maria", "Lopez", "Heladera", "12",
		"Casa Central", "Av. Siempreviva 742", "1500,00", "2",
	}, w.cells)
}

func TestAppend_RejectsHeaderRow(t *testing.T) {
	ledger := &fakeLedger{}
	repo := NewLogRepository(ledger, testLogger())

	err := repo.Append(context.Background(), 1, domain.LogEntry{})
	assert.ErrorIs(t, err, domain.ErrInvalidLedgerData)
	assert.Empty(t, ledger.writes)
}
