package services

import (
	"github.com/diewo77/go-gestion/internal/models"
)

// BookingTotals is the cost breakdown of a booking.
type BookingTotals struct {
	Transport   float64 `json:"transport"`
	FauxFrais   float64 `json:"faux_frais"`
	Manutention float64 `json:"manutention"`
	Total       float64 `json:"total"`
}

// Add returns the component-wise sum of t and o.
func (t BookingTotals) Add(o BookingTotals) BookingTotals {
	return BookingTotals{
		Transport:   t.Transport + o.Transport,
		FauxFrais:   t.FauxFrais + o.FauxFrais,
		Manutention: t.Manutention + o.Manutention,
		Total:       t.Total + o.Total,
	}
}

// ComputeBookingTotals derives the cost breakdown of b. Transport and faux
// frais are per container; handling fees are per booking and depend on the
// product type. The booking is not modified and no rounding is applied.
func ComputeBookingTotals(b *models.Booking) BookingTotals {
	if b == nil {
		return BookingTotals{}
	}
	n := float64(b.NombreTC)
	t := BookingTotals{
		Transport:   n * b.FraisTransport,
		FauxFrais:   n * b.FauxFrais,
		Manutention: HandlingCost(b.TypeProduit, b.Manutention),
	}
	t.Total = t.Transport + t.FauxFrais + t.Manutention
	return t
}

// HandlingCost returns the handling fees charged for product type p.
// Raw material pays every component, semi-finished goods only the invoice
// fee, and any other type pays nothing.
func HandlingCost(p models.ProductType, m models.Manutention) float64 {
	switch p {
	case models.ProductMatierePremiere:
		return m.Facture + m.DFU + m.Honoraire + m.Caution
	case models.ProductSemiFini:
		return m.Facture
	default:
		return 0
	}
}

// SumBookingTotals adds up the breakdowns of every booking in bs.
func SumBookingTotals(bs []models.Booking) BookingTotals {
	var sum BookingTotals
	for i := range bs {
		sum = sum.Add(ComputeBookingTotals(&bs[i]))
	}
	return sum
}
