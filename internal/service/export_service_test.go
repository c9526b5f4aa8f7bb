package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

func TestWriteWorkbook(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	require.NoError(t, f.exportSvc.WriteWorkbook(&buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{SheetSuppliers, SheetRequests}, wb.GetSheetList())

	rows, err := wb.GetRows(SheetSuppliers)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Nome", rows[0][1])
	assert.Equal(t, "Equipamentos Gastronômicos Silva", rows[1][1])
	assert.Equal(t, "approved", rows[1][3])

	rows, err = wb.GetRows(SheetRequests)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Sistema de PDV Completo", rows[2][1])
	assert.Equal(t, "5", rows[2][9])
}

func TestSnapshotJSON(t *testing.T) {
	f := newFixture(t)

	raw, takenAt, err := f.exportSvc.SnapshotJSON()
	require.NoError(t, err)
	assert.False(t, takenAt.IsZero())

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "takenAt")

	var suppliers []models.Supplier
	require.NoError(t, json.Unmarshal(doc[store.KeySuppliers], &suppliers))
	assert.Len(t, suppliers, 5)

	var users []models.User
	require.NoError(t, json.Unmarshal(doc[store.KeyUsers], &users))
	assert.Len(t, users, 5)

	var services []models.ServiceRequest
	require.NoError(t, json.Unmarshal(doc[store.KeyServices], &services))
	assert.Len(t, services, 3)
}
