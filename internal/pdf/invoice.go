// Package pdf renders invoices as PDF documents.
package pdf

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/currency"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
)

// ContentType is the MIME type of the generated document.
const ContentType = "application/pdf"

// InvoiceData is everything printed on an invoice.
type InvoiceData struct {
	Invoice *models.Invoice
	Issuer  *models.CompanySettings // optional
	Money   *currency.Formatter
	Lang    string
}

var (
	headerBg = &props.Color{Red: 230, Green: 230, Blue: 230}
	bold     = props.Text{Style: fontstyle.Bold, Size: 10}
	right    = props.Text{Align: align.Right, Size: 10}
	boldR    = props.Text{Style: fontstyle.Bold, Align: align.Right, Size: 10}
	small    = props.Text{Size: 9}
)

// Filename returns the download name of an invoice.
func Filename(inv *models.Invoice) string {
	return "facture-" + inv.Numero + ".pdf"
}

// Invoice renders d as a PDF. Totals come from services.ComputeInvoiceTotals
// so the document always matches the screens.
func Invoice(d InvoiceData) ([]byte, error) {
	if d.Invoice == nil {
		return nil, fmt.Errorf("pdf: nil invoice")
	}
	if d.Money == nil {
		d.Money = currency.New("")
	}
	t := func(code string) string { return i18n.T(d.Lang, code) }
	inv := d.Invoice
	totals := services.ComputeInvoiceTotals(inv)

	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	var legal []string
	if d.Issuer != nil {
		legal = d.Issuer.FooterLines(d.Lang)
	}
	if len(legal) > 0 {
		var footer []core.Row
		for _, l := range legal {
			footer = append(footer, row.New(5).Add(text.NewCol(12, l, props.Text{Size: 8, Align: align.Center})))
		}
		if err := m.RegisterFooter(footer...); err != nil {
			return nil, fmt.Errorf("pdf footer: %w", err)
		}
	}

	// issuer on the left, invoice reference on the right
	issuer := []string{"", "", "", ""}
	if d.Issuer != nil {
		issuer = []string{d.Issuer.Name, d.Issuer.Activity, d.Issuer.Address, d.Issuer.Phone}
	}
	m.AddRow(9,
		text.NewCol(7, issuer[0], props.Text{Style: fontstyle.Bold, Size: 14}),
		text.NewCol(5, t("facture.invoice"), props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(7, issuer[1], small),
		text.NewCol(5, "N°: "+inv.Numero, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(7, issuer[2], small),
		text.NewCol(5, t("common.date")+": "+inv.Date.Format("02/01/2006"), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(7, issuer[3], small),
		text.NewCol(5, t("facture.statut")+": "+t("status."+string(inv.Statut)), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6)

	// client snapshot
	m.AddRow(7, text.NewCol(12, t("facture.bill_to"), bold))
	for _, s := range []string{inv.Client.Nom, inv.Client.Adresse, inv.Client.Telephone, inv.Client.Email} {
		if s != "" {
			m.AddRow(5, text.NewCol(12, s, small))
		}
	}
	m.AddRow(6)

	// lines in input order
	m.AddRows(row.New(8).Add(
		text.NewCol(6, t("facture.description"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 1.5, Left: 1}),
		text.NewCol(2, t("facture.quantite"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 1.5, Align: align.Right}),
		text.NewCol(2, t("facture.prix_unitaire"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 1.5, Align: align.Right}),
		text.NewCol(2, t("facture.line_total"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 1.5, Right: 1, Align: align.Right}),
	).WithStyle(&props.Cell{BackgroundColor: headerBg}))
	for _, l := range inv.Lines {
		m.AddRow(7,
			text.NewCol(6, l.Description, props.Text{Size: 10, Top: 1, Left: 1}),
			text.NewCol(2, strconv.FormatFloat(l.Quantite, 'f', -1, 64), props.Text{Size: 10, Top: 1, Align: align.Right}),
			text.NewCol(2, d.Money.Format(l.PrixUnitaire), props.Text{Size: 10, Top: 1, Align: align.Right}),
			text.NewCol(2, d.Money.Format(l.Total()), props.Text{Size: 10, Top: 1, Right: 1, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))

	// totals
	pct := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "%" }
	totalRows := []struct {
		label, value string
		strong       bool
	}{
		{t("facture.subtotal"), d.Money.Format(totals.Subtotal), false},
		{t("facture.tax") + " (" + pct(inv.TVA) + ")", d.Money.Format(totals.TaxAmount), false},
		{t("facture.discount") + " (" + pct(inv.Remise) + ")", "-" + d.Money.Format(totals.DiscountAmount), false},
		{t("facture.grand_total"), d.Money.Format(totals.GrandTotal), true},
	}
	for _, r := range totalRows {
		label, value := right, right
		if r.strong {
			label, value = boldR, boldR
		}
		m.AddRow(7,
			text.NewCol(8, r.label, label),
			text.NewCol(4, r.value, value),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
