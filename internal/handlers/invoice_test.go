package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/obs"
	"github.com/diewo77/go-gestion/internal/services"
)

func seedCatalog(t *testing.T, gdb *gorm.DB) (*models.Client, *models.Article) {
	t.Helper()
	c := &models.Client{Nom: "SOCOCE", Adresse: "Zone 4, Abidjan", Telephone: "0707", Email: "achats@sococe.ci"}
	require.NoError(t, gdb.Create(c).Error)
	a := &models.Article{Nom: "Ciment CPJ 45", Prix: 4500, Unite: "sac"}
	require.NoError(t, gdb.Create(a).Error)
	return c, a
}

func TestInvoiceCreateFromClientAndArticle(t *testing.T) {
	gdb := setupTestDB(t)
	c, a := seedCatalog(t, gdb)
	h := NewInvoiceHandler(gdb, nil, nil)

	w := serve(h.Create, request(t, http.MethodPost, "/factures", map[string]any{
		"numero":    "F-2024-001",
		"client_id": c.ID,
		"articles": []map[string]any{
			{"article_id": a.ID, "quantite": 2},
			{"description": "Transport", "quantite": 1, "prix_unitaire": 1000},
		},
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	row := decode[invoiceRow](t, w)

	assert.Equal(t, models.ClientSnapshot{Nom: "SOCOCE", Adresse: "Zone 4, Abidjan", Telephone: "0707", Email: "achats@sococe.ci"}, row.Client)
	require.Len(t, row.Lines, 2)
	assert.Equal(t, "Ciment CPJ 45", row.Lines[0].Description)
	assert.Equal(t, 4500.0, row.Lines[0].PrixUnitaire)
	assert.Equal(t, 2.0, row.Lines[0].Quantite)
	assert.Equal(t, "Transport", row.Lines[1].Description)
	assert.Equal(t, models.DefaultTVA, row.TVA)
	assert.Equal(t, models.DefaultRemise, row.Remise)
	assert.Equal(t, models.InvoiceStatusUnpaid, row.Statut)
	assert.Equal(t, 10000.0, row.Totals.Subtotal)
	assert.InDelta(t, 11800.0, row.Totals.GrandTotal, 1e-6)

	// the snapshot does not follow later client edits
	require.NoError(t, gdb.Model(c).Update("nom", "Renamed").Error)
	w = serve(h.Show, withID(jsonRequest(t, http.MethodGet, "/factures/"+row.ID), row.ID))
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[invoiceRow](t, w)
	assert.Equal(t, "SOCOCE", got.Client.Nom)
	assert.Equal(t, "Ciment CPJ 45", got.Lines[0].Description)
}

func TestInvoiceValidation(t *testing.T) {
	h := NewInvoiceHandler(setupTestDB(t), nil, nil)

	w := serve(h.Create, request(t, http.MethodPost, "/factures", map[string]any{
		"numero":    "F-1",
		"client_id": "nope",
		"articles":  []map[string]any{{"article_id": "nope"}, {"description": "", "quantite": 0, "prix_unitaire": -5}},
		"tva":       120,
		"statut":    "annulée",
	}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	d := decode[errorBody](t, w).Details
	assert.Equal(t, "not_found", d["client_id"])
	assert.Equal(t, "not_found", d["articles[0].article_id"])
	assert.Equal(t, "required", d["client.nom"])
	assert.Equal(t, "required", d["articles[1].description"])
	assert.Equal(t, "must_be_positive", d["articles[1].quantite"])
	assert.Equal(t, "out_of_range", d["articles[1].prix_unitaire"])
	assert.Equal(t, "out_of_range", d["tva"])
	assert.Equal(t, "invalid_choice", d["statut"])

	w = serve(h.Create, request(t, http.MethodPost, "/factures", map[string]any{
		"numero": "F-2",
		"client": map[string]any{"nom": "X", "email": "bad"},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	d = decode[errorBody](t, w).Details
	assert.Equal(t, "required", d["articles"])
	assert.Equal(t, "invalid_email", d["client.email"])
}

func TestInvoiceFormCreateAndUpdateReplacesLines(t *testing.T) {
	gdb := setupTestDB(t)
	_, a := seedCatalog(t, gdb)
	h := NewInvoiceHandler(gdb, nil, nil)

	form := url.Values{
		"numero":             {"F-10"},
		"client_nom":         {"Client comptoir"},
		"tva":                {"18"},
		"remise":             {"10"},
		"statut":             {"payée"},
		"line_article_id":    {"", a.ID, ""},
		"line_description":   {"Pose", "", ""},
		"line_quantite":      {"2", "", "1"},
		"line_prix_unitaire": {"2 500", "", ""},
	}
	w := serve(h.Create, request(t, http.MethodPost, "/factures", form))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	var inv models.Invoice
	require.NoError(t, gdb.Preload("Lines", models.OrderedLines).First(&inv).Error)
	assert.Equal(t, "/factures/"+inv.ID, w.Header().Get("Location"))
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Pose", inv.Lines[0].Description)
	assert.Equal(t, 2500.0, inv.Lines[0].PrixUnitaire)
	assert.Equal(t, "Ciment CPJ 45", inv.Lines[1].Description)
	assert.Equal(t, 1.0, inv.Lines[1].Quantite)
	assert.Equal(t, models.InvoiceStatusPaid, inv.Statut)
	created := inv.Date

	update := url.Values{
		"numero":             {"F-10"},
		"client_nom":         {"Client comptoir"},
		"statut":             {"en_retard"},
		"line_description":   {"Forfait"},
		"line_quantite":      {"1"},
		"line_prix_unitaire": {"100"},
	}
	w = serve(h.Update, withID(request(t, http.MethodPost, "/factures/"+inv.ID, update), inv.ID))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	var after models.Invoice
	require.NoError(t, gdb.Preload("Lines", models.OrderedLines).First(&after, "id = ?", inv.ID).Error)
	require.Len(t, after.Lines, 1)
	assert.Equal(t, "Forfait", after.Lines[0].Description)
	assert.Equal(t, models.DefaultTVA, after.TVA)
	assert.Equal(t, 0.0, after.Remise)
	assert.True(t, created.Equal(after.Date))

	var lines int64
	require.NoError(t, gdb.Model(&models.InvoiceLine{}).Count(&lines).Error)
	assert.EqualValues(t, 1, lines)
}

func TestInvoiceFormRejectsBlankLines(t *testing.T) {
	h := NewInvoiceHandler(setupTestDB(t), nil, nil)
	form := url.Values{
		"numero":           {"F-1"},
		"client_nom":       {"A"},
		"line_description": {""},
		"line_quantite":    {"1"},
	}
	w := serve(h.Create, request(t, http.MethodPost, "/factures", form))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	doc := document(t, w)
	assert.Equal(t, 1, doc.Find(`.alert-error li[data-field="articles"]`).Length())
	assert.Equal(t, 1, doc.Find("#line-rows tr.line").Length())
}

func TestInvoiceListAndPreview(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewInvoiceHandler(gdb, nil, nil)
	require.NoError(t, gdb.Create(&models.CompanySettings{Name: "ENTREPRISE OKOTAN", RCCM: "CI-ABJ-1"}).Error)
	inv := &models.Invoice{
		Numero: "F-7",
		Client: models.ClientSnapshot{Nom: "Bamba"},
		TVA:    20,
		Remise: 0,
		Statut: models.InvoiceStatusOverdue,
		Lines: []models.InvoiceLine{
			{Description: "A", Quantite: 2, PrixUnitaire: 25},
			{Description: "B", Quantite: 1, PrixUnitaire: 0},
		},
	}
	require.NoError(t, gdb.Create(inv).Error)

	w := serve(h.List, request(t, http.MethodGet, "/factures?statut=en_retard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	require.Equal(t, 1, doc.Find("#factures tbody tr[data-id]").Length())
	assert.Equal(t, "50 FCFA", doc.Find(`#factures td[data-col="subtotal"]`).Text())
	assert.Equal(t, "60 FCFA", doc.Find(`#factures td[data-col="grand_total"]`).Text())

	w = serve(h.List, jsonRequest(t, http.MethodGet, "/factures?statut=pay%C3%A9e"))
	assert.EqualValues(t, 0, decode[listResponse[invoiceRow]](t, w).Total)

	w = serve(h.Show, withID(request(t, http.MethodGet, "/factures/"+inv.ID, nil), inv.ID))
	require.Equal(t, http.StatusOK, w.Code)
	doc = document(t, w)
	assert.Contains(t, doc.Find(".issuer").Text(), "ENTREPRISE OKOTAN")
	assert.Equal(t, 2, doc.Find("#lines tbody tr").Length())
	assert.Equal(t, "A", doc.Find("#lines tbody tr td").First().Text())
	assert.Equal(t, 0, doc.Find(`#totals tr[data-col="discount"]`).Length())
	assert.Contains(t, doc.Find(".legal").Text(), "RCCM: CI-ABJ-1")
}

func TestInvoicePDF(t *testing.T) {
	gdb := setupTestDB(t)
	metrics := obs.NewMetrics("test", prometheus.NewRegistry())
	h := NewInvoiceHandler(gdb, metrics, nil)
	inv := &models.Invoice{
		Numero: "F-42",
		Client: models.ClientSnapshot{Nom: "Bamba"},
		TVA:    18,
		Statut: models.InvoiceStatusUnpaid,
		Lines:  []models.InvoiceLine{{Description: "A", Quantite: 1, PrixUnitaire: 100}},
	}
	require.NoError(t, gdb.Create(inv).Error)

	w := serve(h.PDF, withID(request(t, http.MethodGet, "/factures/"+inv.ID+"/pdf", nil), inv.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "facture-F-42.pdf", params["filename"])
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Documents.WithLabelValues("pdf")))

	w = serve(h.PDF, withID(request(t, http.MethodGet, "/factures/missing/pdf", nil), "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoicePDFFilenameWithQuotes(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewInvoiceHandler(gdb, nil, nil)
	inv := &models.Invoice{
		Numero: `F"2025; x=1`,
		Client: models.ClientSnapshot{Nom: "Bamba"},
		Statut: models.InvoiceStatusUnpaid,
		Lines:  []models.InvoiceLine{{Description: "A", Quantite: 1, PrixUnitaire: 100}},
	}
	require.NoError(t, gdb.Create(inv).Error)

	w := serve(h.PDF, withID(request(t, http.MethodGet, "/factures/"+inv.ID+"/pdf", nil), inv.ID))
	require.Equal(t, http.StatusOK, w.Code)
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, `facture-F"2025; x=1.pdf`, params["filename"])
	assert.NotContains(t, params, "x")
}

func TestInvoiceDeleteCascadesLines(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewInvoiceHandler(gdb, nil, nil)
	inv := &models.Invoice{
		Numero: "F-1",
		Client: models.ClientSnapshot{Nom: "A"},
		Statut: models.InvoiceStatusUnpaid,
		Lines:  []models.InvoiceLine{{Description: "A", Quantite: 1, PrixUnitaire: 1}},
	}
	require.NoError(t, gdb.Create(inv).Error)

	w := serve(h.Delete, withID(jsonRequest(t, http.MethodDelete, "/factures/"+inv.ID), inv.ID))
	require.Equal(t, http.StatusNoContent, w.Code)
	var lines int64
	require.NoError(t, gdb.Model(&models.InvoiceLine{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestInvoiceKeepsExplicitZeroTVA(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewInvoiceHandler(gdb, nil, nil)

	w := serve(h.Create, request(t, http.MethodPost, "/factures", map[string]any{
		"numero":   "F-0",
		"client":   map[string]any{"nom": "Exonéré"},
		"articles": []map[string]any{{"description": "A", "quantite": 1, "prix_unitaire": 100}},
		"tva":      0,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	row := decode[invoiceRow](t, w)

	var stored models.Invoice
	require.NoError(t, gdb.Preload("Lines").First(&stored, "id = ?", row.ID).Error)
	assert.Zero(t, stored.TVA)
	assert.Equal(t, 100.0, services.ComputeInvoiceTotals(&stored).GrandTotal)
}
