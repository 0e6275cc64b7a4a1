package handlers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
)

func TestCompanySettingsSaveOverwritesSingleRow(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewCompanyHandler(gdb)

	w := serve(h.Edit, jsonRequest(t, http.MethodGet, "/settings"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[models.CompanySettings](t, w).Name)

	w = serve(h.Update, request(t, http.MethodPost, "/settings", url.Values{
		"name": {"ENTREPRISE OKOTAN"}, "rccm": {"CI-ABJ-1"}, "email": {"contact@okotan.ci"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/settings", w.Header().Get("Location"))

	w = serve(h.Update, request(t, http.MethodPost, "/settings", map[string]any{"name": "OKOTAN SARL", "capital": "1 000 000 FCFA"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var n int64
	require.NoError(t, gdb.Model(&models.CompanySettings{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	w = serve(h.Edit, request(t, http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, w.Code)
	v, _ := document(t, w).Find(`input[name="name"]`).Attr("value")
	assert.Equal(t, "OKOTAN SARL", v)
	// full overwrite
	v, _ = document(t, w).Find(`input[name="rccm"]`).Attr("value")
	assert.Empty(t, v)
}

func TestCompanySettingsValidation(t *testing.T) {
	h := NewCompanyHandler(setupTestDB(t))

	w := serve(h.Update, request(t, http.MethodPost, "/settings", map[string]any{"email": "bad"}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	d := decode[errorBody](t, w).Details
	assert.Equal(t, "required", d["name"])
	assert.Equal(t, "invalid_email", d["email"])

	w = serve(h.Update, request(t, http.MethodPost, "/settings", url.Values{"phone": {"0707"}}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	doc := document(t, w)
	assert.Equal(t, 1, doc.Find(`.alert-error li[data-field="name"]`).Length())
	v, _ := doc.Find(`input[name="phone"]`).Attr("value")
	assert.Equal(t, "0707", v)
}

func TestDashboardStats(t *testing.T) {
	gdb := setupTestDB(t)
	seedCatalog(t, gdb)
	seedBooking(t, gdb, "BK-1", time.Now(), models.Container20, models.ProductSemiFini, 2, 100, 10, models.Manutention{Facture: 30, DFU: 99})
	for _, st := range []models.InvoiceStatus{models.InvoiceStatusPaid, models.InvoiceStatusOverdue} {
		require.NoError(t, gdb.Create(&models.Invoice{
			Numero: "F-" + string(st),
			Client: models.ClientSnapshot{Nom: "A"},
			TVA:    0,
			Statut: st,
			Lines:  []models.InvoiceLine{{Description: "A", Quantite: 1, PrixUnitaire: 100}},
		}).Error)
	}
	h := NewDashboardHandler(gdb)

	w := serve(h.Show, jsonRequest(t, http.MethodGet, "/dashboard"))
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[services.DashboardStats](t, w)
	assert.EqualValues(t, 1, st.Clients)
	assert.EqualValues(t, 1, st.Articles)
	assert.EqualValues(t, 1, st.Bookings)
	assert.EqualValues(t, 2, st.Factures)
	assert.Equal(t, 250.0, st.BookingTotals.Total)
	assert.Equal(t, 100.0, st.Collected)
	assert.Equal(t, 100.0, st.Outstanding)

	w = serve(h.Show, request(t, http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Positive(t, document(t, w).Find(".stat-card").Length())
}

func TestHealth(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewHealthHandler(gdb)

	w := serve(h.Live, request(t, http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(h.Ready, request(t, http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	w = serve(h.Ready, request(t, http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
