package models

import (
	"strings"
	"time"

	"github.com/diewo77/go-gestion/i18n"
)

// CompanySettings is the issuer printed on invoice previews and PDFs.
// A single row exists; it is created on first save.
type CompanySettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Activity string `gorm:"size:255" json:"activity,omitempty"`
	Address  string `gorm:"size:500" json:"address,omitempty"`
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
	Email    string `gorm:"size:255" json:"email,omitempty"`

	// Legal mentions printed in the footer
	Capital string `gorm:"size:100" json:"capital,omitempty"`
	RCCM    string `gorm:"column:rccm;size:100" json:"rccm,omitempty"`
	TaxID   string `gorm:"size:100" json:"tax_id,omitempty"`
}

// FooterLines returns the legal mentions as printable lines in lang,
// skipping empty parts.
func (c *CompanySettings) FooterLines(lang string) []string {
	mention := func(code, value string) string { return i18n.T(lang, code) + ": " + value }
	var first, second []string
	if c.Name != "" {
		first = append(first, c.Name)
	}
	if c.Capital != "" {
		first = append(first, mention("settings.capital", c.Capital))
	}
	if c.RCCM != "" {
		first = append(first, mention("settings.rccm", c.RCCM))
	}
	if c.TaxID != "" {
		second = append(second, mention("settings.tax_id", c.TaxID))
	}
	if c.Phone != "" {
		second = append(second, mention("settings.phone", c.Phone))
	}
	if c.Email != "" {
		second = append(second, mention("settings.email", c.Email))
	}
	var out []string
	for _, parts := range [][]string{first, second} {
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, " - "))
		}
	}
	return out
}
