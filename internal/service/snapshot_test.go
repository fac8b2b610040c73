package service

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MiltonKlun/TickSnap/internal/clients"
	"github.com/MiltonKlun/TickSnap/internal/domain"
)

type fakeMaster struct {
	rows [][]string
	err  error
}

func (f *fakeMaster) ReadRange(ctx context.Context, topLeft, bottomRight string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func TestCreateSnapshot(t *testing.T) {
	archive, err := clients.NewArchive(t.TempDir())
	require.NoError(t, err)

	master := &fakeMaster{rows: [][]string{
		{"Maria", "Lopez", "", "Heladera", "HL-1", "12", "Casa Central", "Calle 1", "18.000,00", "1.500,00", "12", "3"},
		{"", "", ""},
		{"Juan", "Perez", "", "Televisor", "TV-9", "7", "Sucursal Norte", "Calle 2", "9.000,00", "750,00", "12", "0"},
	}}
	svc := NewSnapshotService(master, archive, testLogger())

	saved, err := svc.CreateSnapshot(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(archive.Path(saved))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Master", "A1")
	require.NoError(t, err)
	assert.Equal(t, "First Name", header)

	first, err := f.GetCellValue("Master", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Maria", first)

	// blank ledger rows keep their position so row numbers line up
	gap, err := f.GetCellValue("Master", "A3")
	require.NoError(t, err)
	assert.Equal(t, "", gap)

	second, err := f.GetCellValue("Master", "D4")
	require.NoError(t, err)
	assert.Equal(t, "Televisor", second)
}

func TestCreateSnapshot_LedgerError(t *testing.T) {
	archive, err := clients.NewArchive(t.TempDir())
	require.NoError(t, err)

	svc := NewSnapshotService(&fakeMaster{err: domain.ErrRemoteAPI}, archive, testLogger())
	_, err = svc.CreateSnapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteAPI)
}
