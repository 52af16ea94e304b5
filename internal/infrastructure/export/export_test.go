package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fieldsales/visitform/internal/domain/entity"
)

func workbookFromRows(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParseRoster(t *testing.T) {
	r := workbookFromRows(t, [][]interface{}{
		{"Nombre", "Teléfono", "Activo"},
		{"  laura   GÓMEZ ", "664-123-4567", "sí"},
		{"Pedro Ruiz", "(664) 765 4321", "no"},
		{"", "", ""},
		{"Sin Telefono", "12345", ""},
		{"", "6640000000", ""},
		{"Duplicado", "6641234567", ""},
		{"Ana Torres", "6649998888"},
	})

	people, rowErrors, err := ParseRoster(r)
	require.NoError(t, err)

	require.Len(t, people, 3)
	assert.Equal(t, "Laura Gómez", people[0].Name)
	assert.Equal(t, "6641234567", people[0].Phone)
	assert.True(t, people[0].Active)
	assert.Equal(t, "Pedro Ruiz", people[1].Name)
	assert.False(t, people[1].Active)
	assert.Equal(t, "6649998888", people[2].Phone)
	assert.True(t, people[2].Active)

	require.Len(t, rowErrors, 3)
	assert.Equal(t, 5, rowErrors[0].Row)
	assert.Equal(t, 6, rowErrors[1].Row)
	assert.Equal(t, 7, rowErrors[2].Row)
	assert.Contains(t, rowErrors[2].Error(), "duplicate phone")
}

func TestParseRoster_EnglishHeadersWithoutActive(t *testing.T) {
	r := workbookFromRows(t, [][]interface{}{
		{"Phone", "Name"},
		{"6641234567", "Laura"},
	})

	people, rowErrors, err := ParseRoster(r)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, people, 1)
	assert.Equal(t, "Laura", people[0].Name)
	assert.True(t, people[0].Active)
}

func TestParseRoster_Invalid(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, _, err := ParseRoster(bytes.NewReader([]byte("name,phone\n")))
		assert.Error(t, err)
	})

	t.Run("missing phone column", func(t *testing.T) {
		_, _, err := ParseRoster(workbookFromRows(t, [][]interface{}{{"Nombre", "Zona"}}))
		assert.Error(t, err)
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, _, err := ParseRoster(workbookFromRows(t, nil))
		assert.Error(t, err)
	})
}

func TestRosterWorkbook_RoundTrip(t *testing.T) {
	in := []*entity.Salesperson{
		{Name: "Laura Gómez", Phone: "6641234567", Active: true},
		{Name: "Pedro Ruiz", Phone: "6647654321", Active: false},
	}

	data, err := RosterWorkbook(in)
	require.NoError(t, err)

	out, rowErrors, err := ParseRoster(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].Name, out[0].Name)
	assert.Equal(t, in[1].Phone, out[1].Phone)
	assert.False(t, out[1].Active)
}

func TestVisitsWorkbook(t *testing.T) {
	sent := time.Date(2024, 3, 5, 14, 31, 0, 0, time.UTC)
	visits := []*entity.Visit{
		{
			ID:               "v-1",
			ClientNumber:     "12345",
			ClientName:       "Abarrotes Peña",
			Latitude:         32.5333,
			Longitude:        -117.0167,
			SalespersonName:  "Laura Gómez",
			SalespersonPhone: "6641234567",
			Status:           entity.VisitStatusSent,
			CreatedAt:        time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
			SentAt:           &sent,
		},
		{
			ID:           "v-2",
			ClientNumber: "999",
			ClientName:   "Farmacia Sol",
			Status:       entity.VisitStatusFailed,
			ErrorMessage: "relay down",
			CreatedAt:    time.Date(2024, 3, 5, 16, 0, 0, 0, time.UTC),
		},
	}

	data, err := VisitsWorkbook(visits, time.UTC)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, visitsSheet, f.GetSheetName(0))

	rows, err := f.GetRows(visitsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "N° Cliente", rows[0][2])
	assert.Equal(t, "v-1", rows[1][0])
	assert.Equal(t, "2024-03-05 14:30", rows[1][1])
	assert.Equal(t, "Abarrotes Peña", rows[1][3])
	assert.Equal(t, entity.MapSearchURL+"32.5333,-117.0167", rows[1][6])
	assert.Equal(t, entity.VisitStatusSent, rows[1][9])
	assert.Equal(t, "relay down", rows[2][10])

	ok, target, err := f.GetCellHyperLink(visitsSheet, "G2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entity.MapSearchURL+"32.5333,-117.0167", target)
}

func TestVisitsWorkbook_Empty(t *testing.T) {
	data, err := VisitsWorkbook(nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(visitsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
