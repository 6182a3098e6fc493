package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportReservations(t *testing.T) {
	svc := NewReservationService(seededLedger())

	data, err := svc.ExportReservations(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"2024-01-01", "10:00", "yes", "Kim", "010", "window"}, rows[1])
	require.GreaterOrEqual(t, len(rows[2]), 3)
	assert.Equal(t, []string{"2024-01-01", "11:00", "no"}, rows[2][:3])
}

func TestExportReservations_StoreFailure(t *testing.T) {
	svc := NewReservationService(&fakeLedger{fail: errStoreDown})

	_, err := svc.ExportReservations(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
}
