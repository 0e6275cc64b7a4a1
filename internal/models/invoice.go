package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// InvoiceStatus is the payment state of an invoice. It does not affect totals.
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "payée"
	InvoiceStatusUnpaid  InvoiceStatus = "impayée"
	InvoiceStatusOverdue InvoiceStatus = "en_retard"
)

// InvoiceStatuses lists the accepted statuses in display order.
var InvoiceStatuses = []InvoiceStatus{InvoiceStatusPaid, InvoiceStatusUnpaid, InvoiceStatusOverdue}

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusUnpaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Outstanding reports whether the invoice still has to be collected.
func (s InvoiceStatus) Outstanding() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusOverdue
}

// Invoice defaults applied to new invoices.
const (
	DefaultTVA    = 18.0
	DefaultRemise = 0.0
)

// ClientSnapshot is the client contact data frozen on an invoice.
type ClientSnapshot struct {
	Nom       string `gorm:"column:nom;size:255;not null" json:"nom" validate:"required"`
	Adresse   string `gorm:"column:adresse;size:500" json:"adresse"`
	Telephone string `gorm:"column:telephone;size:50" json:"telephone"`
	Email     string `gorm:"column:email;size:255" json:"email" validate:"omitempty,email"`
}

// Invoice (facture) bills a client snapshot for an ordered list of lines.
// TVA and Remise are percentages applied to the whole subtotal; totals are
// never stored.
type Invoice struct {
	Record
	Numero string         `gorm:"size:100;not null;index" json:"numero" validate:"required"`
	Date   time.Time      `gorm:"not null;index" json:"date"`
	Client ClientSnapshot `gorm:"embedded;embeddedPrefix:client_" json:"client"`
	Lines  []InvoiceLine  `gorm:"foreignKey:InvoiceID" json:"articles" validate:"min=1,dive"`
	TVA    float64        `gorm:"column:tva;not null" json:"tva" validate:"gte=0,lte=100"`
	Remise float64        `gorm:"not null;default:0" json:"remise" validate:"gte=0,lte=100"`
	Statut InvoiceStatus  `gorm:"size:20;not null" json:"statut" validate:"required,oneof=payée impayée en_retard"`
}

// TableName keeps the collection name used by the rest of the system.
func (Invoice) TableName() string { return "factures" }

// InvoiceLine is one billed line. Position preserves the order in which
// lines were entered.
type InvoiceLine struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	InvoiceID    string  `gorm:"size:36;index;not null" json:"-"`
	Position     int     `gorm:"not null;default:0" json:"-"`
	Description  string  `gorm:"size:500;not null" json:"description" validate:"required"`
	Quantite     float64 `gorm:"not null" json:"quantite" validate:"gt=0"`
	PrixUnitaire float64 `gorm:"not null" json:"prix_unitaire" validate:"gte=0"`
}

// TableName groups lines under their parent collection.
func (InvoiceLine) TableName() string { return "facture_lines" }

// Total returns quantite × prixUnitaire.
func (l InvoiceLine) Total() float64 {
	return l.Quantite * l.PrixUnitaire
}

// BeforeCreate assigns the id and numbers lines in their input order.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if err := i.Record.BeforeCreate(tx); err != nil {
		return err
	}
	i.numberLines()
	return nil
}

func (i *Invoice) numberLines() {
	for n := range i.Lines {
		i.Lines[n].ID = 0
		i.Lines[n].InvoiceID = i.ID
		i.Lines[n].Position = n
	}
}

// ReplaceChildren rewrites the lines of an existing invoice inside tx.
func (i *Invoice) ReplaceChildren(tx *gorm.DB) error {
	if err := tx.Where("invoice_id = ?", i.ID).Delete(&InvoiceLine{}).Error; err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	if len(i.Lines) == 0 {
		return nil
	}
	i.numberLines()
	if err := tx.Create(&i.Lines).Error; err != nil {
		return fmt.Errorf("insert invoice lines: %w", err)
	}
	return nil
}

// OrderedLines is the preload scope returning lines in input order.
func OrderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
