package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-gestion/internal/currency"
	"github.com/diewo77/go-gestion/internal/models"
)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		Numero: "F-2024-001",
		Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Client: models.ClientSnapshot{Nom: "Kouassi SARL", Adresse: "Abidjan", Telephone: "+225 07", Email: "k@example.ci"},
		Lines: []models.InvoiceLine{
			{Description: "Ciment", Quantite: 2, PrixUnitaire: 10},
			{Description: "Fer", Quantite: 1, PrixUnitaire: 30},
		},
		TVA:    18,
		Remise: 0,
		Statut: models.InvoiceStatusUnpaid,
	}
}

func TestInvoicePDF(t *testing.T) {
	issuer := &models.CompanySettings{Name: "ENTREPRISE OKOTAN", Activity: "Import/Export", Capital: "10.000.000 FCFA"}
	b, err := Invoice(InvoiceData{Invoice: sampleInvoice(), Issuer: issuer, Money: currency.New("FCFA"), Lang: "fr"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "missing PDF header")
	assert.Greater(t, len(b), 500)
}

func TestInvoicePDFWithoutIssuerOrLines(t *testing.T) {
	inv := sampleInvoice()
	inv.Lines = nil
	b, err := Invoice(InvoiceData{Invoice: inv, Lang: "en"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestInvoicePDFNil(t *testing.T) {
	_, err := Invoice(InvoiceData{})
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "facture-F-2024-001.pdf", Filename(sampleInvoice()))
}
