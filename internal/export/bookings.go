// Package export writes booking lists as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
)

// BookingsSheet is the name of the single worksheet.
const BookingsSheet = "Bookings"

// XLSXContentType is the MIME type of the generated workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var bookingColumns = []string{
	"booking.numero",
	"common.date",
	"booking.type_contenaire",
	"booking.type_produit",
	"booking.nombre_tc",
	"booking.frais_transport",
	"booking.faux_frais_tc",
	"booking.transport",
	"booking.faux_frais",
	"booking.manutention",
	"common.total",
}

// BookingsXLSX renders one row per booking with its computed cost breakdown,
// followed by a grand total row. Amounts are written as numbers in unit.
func BookingsXLSX(bookings []models.Booking, lang, unit string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", BookingsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(bookingColumns))
	for i, code := range bookingColumns {
		label := i18n.T(lang, code)
		if i >= 5 {
			label += " (" + unit + ")"
		}
		header[i] = label
	}
	if err := f.SetSheetRow(BookingsSheet, "A1", &header); err != nil {
		return nil, err
	}

	var sum services.BookingTotals
	var containers int
	for i := range bookings {
		b := &bookings[i]
		t := services.ComputeBookingTotals(b)
		sum = sum.Add(t)
		containers += b.NombreTC
		row := []any{
			b.Numero,
			b.Date.Format("2006-01-02"),
			i18n.T(lang, "container."+string(b.TypeContenaire)),
			i18n.T(lang, "product."+string(b.TypeProduit)),
			b.NombreTC,
			b.FraisTransport,
			b.FauxFrais,
			t.Transport,
			t.FauxFrais,
			t.Manutention,
			t.Total,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(BookingsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	totalRow := len(bookings) + 2
	total := []any{i18n.T(lang, "common.total"), "", "", "", containers, "", "", sum.Transport, sum.FauxFrais, sum.Manutention, sum.Total}
	totalCell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(BookingsSheet, totalCell, &total); err != nil {
		return nil, err
	}

	if err := styleSheet(f, totalRow); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func styleSheet(f *excelize.File, totalRow int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}
	boldMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	if err != nil {
		return err
	}
	last := fmt.Sprintf("K%d", totalRow)
	steps := []struct {
		from, to string
		style    int
	}{
		{"A1", "K1", bold},
		{"F2", last, money},
		{fmt.Sprintf("A%d", totalRow), fmt.Sprintf("E%d", totalRow), bold},
		{fmt.Sprintf("F%d", totalRow), last, boldMoney},
	}
	for _, s := range steps {
		if err := f.SetCellStyle(BookingsSheet, s.from, s.to, s.style); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(BookingsSheet, "A", "K", 18); err != nil {
		return err
	}
	return f.SetPanes(BookingsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
