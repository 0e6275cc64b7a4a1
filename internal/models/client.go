package models

// Client is an entry of the customer directory. Invoices copy its
// contact fields at creation time instead of referencing it.
type Client struct {
	Record
	Nom        string `gorm:"size:255;not null;index" json:"nom" validate:"required"`
	Email      string `gorm:"size:255" json:"email,omitempty" validate:"omitempty,email"`
	Telephone  string `gorm:"size:50" json:"telephone,omitempty"`
	Entreprise string `gorm:"size:255" json:"entreprise,omitempty"`
	Adresse    string `gorm:"size:500" json:"adresse,omitempty"`
}

// Snapshot returns the contact fields copied onto an invoice.
func (c *Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		Nom:       c.Nom,
		Adresse:   c.Adresse,
		Telephone: c.Telephone,
		Email:     c.Email,
	}
}
