package services

import (
	"context"
	"fmt"

	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/gorm"
)

// DashboardStats is the summary shown on the dashboard.
type DashboardStats struct {
	Clients       int64         `json:"clients"`
	Articles      int64         `json:"articles"`
	Bookings      int64         `json:"bookings"`
	Factures      int64         `json:"factures"`
	BookingTotals BookingTotals `json:"booking_totals"`
	Collected     float64       `json:"collected"`
	Outstanding   float64       `json:"outstanding"`
}

type DashboardService struct {
	db       *gorm.DB
	invoices *InvoiceService
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, invoices: NewInvoiceService(db)}
}

// Stats computes counts and money totals over every record.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	db := s.db.WithContext(ctx)
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Client{}, &st.Clients},
		{&models.Article{}, &st.Articles},
		{&models.Booking{}, &st.Bookings},
		{&models.Invoice{}, &st.Factures},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return st, fmt.Errorf("count: %w", err)
		}
	}

	var bookings []models.Booking
	if err := db.Find(&bookings).Error; err != nil {
		return st, fmt.Errorf("load bookings: %w", err)
	}
	st.BookingTotals = SumBookingTotals(bookings)

	collected, outstanding, err := s.invoices.Revenue(ctx)
	if err != nil {
		return st, err
	}
	st.Collected = collected
	st.Outstanding = outstanding
	return st, nil
}
