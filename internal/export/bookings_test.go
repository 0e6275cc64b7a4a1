package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/diewo77/go-gestion/internal/models"
)

func TestBookingsXLSX(t *testing.T) {
	bookings := []models.Booking{
		{
			Numero:         "BK-001",
			Date:           time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
			TypeContenaire: models.Container20,
			TypeProduit:    models.ProductMatierePremiere,
			NombreTC:       2,
			FraisTransport: 100,
			FauxFrais:      10,
			Manutention:    models.Manutention{Facture: 50, DFU: 5, Honoraire: 5, Caution: 5},
		},
		{
			Numero:         "BK-002",
			Date:           time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
			TypeContenaire: models.Container40,
			TypeProduit:    models.ProductSemiFini,
			NombreTC:       3,
			FraisTransport: 50,
			FauxFrais:      5,
			Manutention:    models.Manutention{Facture: 20, DFU: 999, Honoraire: 999, Caution: 999},
		},
	}

	b, err := BookingsXLSX(bookings, "fr", "FCFA")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	raw := func(cell string) string {
		v, err := f.GetCellValue(BookingsSheet, cell, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Numéro", raw("A1"))
	assert.Equal(t, "Total (FCFA)", raw("K1"))
	assert.Equal(t, "Faux frais par TC (FCFA)", raw("G1"))
	assert.Equal(t, "Faux frais (FCFA)", raw("I1"))
	header, err := f.GetRows(BookingsSheet)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, label := range header[0] {
		assert.False(t, seen[label], "duplicate header %q", label)
		seen[label] = true
	}

	assert.Equal(t, "BK-001", raw("A2"))
	assert.Equal(t, "2024-05-02", raw("B2"))
	assert.Equal(t, "20 pieds", raw("C2"))
	assert.Equal(t, "Matière première", raw("D2"))
	assert.Equal(t, "200", raw("H2"))
	assert.Equal(t, "20", raw("I2"))
	assert.Equal(t, "65", raw("J2"))
	assert.Equal(t, "285", raw("K2"))

	assert.Equal(t, "185", raw("K3"))
	assert.Equal(t, "20", raw("J3"))

	assert.Equal(t, "Total", raw("A4"))
	assert.Equal(t, "5", raw("E4"))
	assert.Equal(t, "470", raw("K4"))
}

func TestBookingsXLSXEmpty(t *testing.T) {
	b, err := BookingsXLSX(nil, "en", "EUR")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(BookingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Number", rows[0][0])
	assert.Equal(t, "Total", rows[1][0])
}
