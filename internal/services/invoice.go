package services

import (
	"context"
	"fmt"

	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/gorm"
)

// InvoiceTotals is the amount breakdown of an invoice.
type InvoiceTotals struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	GrandTotal     float64 `json:"grand_total"`
}

// ComputeInvoiceTotals derives subtotal, tax, discount and grand total from
// the lines of inv. Both percentages apply to the whole subtotal. An invoice
// without lines totals zero everywhere.
func ComputeInvoiceTotals(inv *models.Invoice) InvoiceTotals {
	if inv == nil {
		return InvoiceTotals{}
	}
	var t InvoiceTotals
	for _, l := range inv.Lines {
		t.Subtotal += l.Total()
	}
	t.TaxAmount = t.Subtotal * (inv.TVA / 100)
	t.DiscountAmount = t.Subtotal * (inv.Remise / 100)
	t.GrandTotal = t.Subtotal + t.TaxAmount - t.DiscountAmount
	return t
}

type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// Revenue sums grand totals of paid invoices (collected) and of unpaid or
// overdue invoices (outstanding).
func (s *InvoiceService) Revenue(ctx context.Context) (collected, outstanding float64, err error) {
	var invoices []models.Invoice
	err = s.db.WithContext(ctx).
		Preload("Lines").
		Find(&invoices).Error
	if err != nil {
		return 0, 0, fmt.Errorf("load invoices: %w", err)
	}
	for i := range invoices {
		total := ComputeInvoiceTotals(&invoices[i]).GrandTotal
		switch {
		case invoices[i].Statut == models.InvoiceStatusPaid:
			collected += total
		case invoices[i].Statut.Outstanding():
			outstanding += total
		}
	}
	return collected, outstanding, nil
}
