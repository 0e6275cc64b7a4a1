package models

// Article is a catalogue item used to prefill invoice lines.
type Article struct {
	Record
	Nom         string  `gorm:"size:255;not null;index" json:"nom" validate:"required"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Prix        float64 `gorm:"not null" json:"prix" validate:"gte=0"`
	Unite       string  `gorm:"size:50" json:"unite,omitempty"`
}

// Line returns an invoice line for quantity units of the article.
func (a *Article) Line(quantite float64) InvoiceLine {
	return InvoiceLine{
		Description:  a.Nom,
		Quantite:     quantite,
		PrixUnitaire: a.Prix,
	}
}
