package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/currency"
	"github.com/diewo77/go-gestion/internal/middleware"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/obs"
	"github.com/diewo77/go-gestion/internal/pdf"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/diewo77/go-gestion/validation"
)

// invoiceRow is an invoice with its computed totals.
type invoiceRow struct {
	models.Invoice
	Totals services.InvoiceTotals `json:"totals"`
}

func newInvoiceRow(inv *models.Invoice) invoiceRow {
	return invoiceRow{Invoice: *inv, Totals: services.ComputeInvoiceTotals(inv)}
}

// invoiceInput is the request shape of an invoice write. ClientID and the
// per-line ArticleID copy data from the directory and the catalogue.
type invoiceInput struct {
	Numero   string                `json:"numero"`
	Date     *time.Time            `json:"date"`
	ClientID string                `json:"client_id"`
	Client   models.ClientSnapshot `json:"client"`
	Articles []lineInput           `json:"articles"`
	TVA      *float64              `json:"tva"`
	Remise   *float64              `json:"remise"`
	Statut   models.InvoiceStatus  `json:"statut"`
}

type lineInput struct {
	ArticleID    string  `json:"article_id"`
	Description  string  `json:"description"`
	Quantite     float64 `json:"quantite"`
	PrixUnitaire float64 `json:"prix_unitaire"`
}

type InvoiceHandler struct {
	invoices *store.Collection[models.Invoice, *models.Invoice]
	clients  *store.Collection[models.Client, *models.Client]
	articles *store.Collection[models.Article, *models.Article]
	company  *services.CompanyService
	metrics  *obs.Metrics
	money    *currency.Formatter
}

// NewInvoiceHandler builds the invoice handler; metrics may be nil.
func NewInvoiceHandler(db *gorm.DB, metrics *obs.Metrics, money *currency.Formatter) *InvoiceHandler {
	if money == nil {
		money = currency.New("")
	}
	return &InvoiceHandler{
		invoices: store.NewCollection[models.Invoice](db).WithPreload("Lines", models.OrderedLines),
		clients:  store.NewCollection[models.Client](db),
		articles: store.NewCollection[models.Article](db),
		company:  services.NewCompanyService(db),
		metrics:  metrics,
		money:    money,
	}
}

// List shows invoices with their subtotal and grand total, filtered by
// numero or client name (q) and by statut.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	statut := models.InvoiceStatus(r.URL.Query().Get("statut"))
	page := pageParam(r)
	scopes := []store.Scope{store.Search(q, "numero", "client_nom")}
	if statut.Valid() {
		scopes = append(scopes, store.Where("statut = ?", statut))
	}

	total, err := h.invoices.Count(r.Context(), scopes...)
	if err != nil {
		serverError(w, r, err)
		return
	}
	items, err := h.invoices.List(r.Context(), append(scopes, store.OrderBy("date DESC"), store.Paginate(page, store.PageSize))...)
	if err != nil {
		serverError(w, r, err)
		return
	}
	rows := make([]invoiceRow, len(items))
	for i := range items {
		rows[i] = newInvoiceRow(&items[i])
	}
	pages := store.Pages(total, store.PageSize)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listResponse[invoiceRow]{Items: rows, Total: total, Page: page, Pages: pages})
		return
	}
	render(w, r, http.StatusOK, "factures/index.html", map[string]any{
		"Title":    "facture.title",
		"Items":    rows,
		"Q":        q,
		"Statut":   string(statut),
		"Statuses": models.InvoiceStatuses,
		"Page":     page,
		"Pages":    pages,
		"Total":    total,
	})
}

func (h *InvoiceHandler) New(w http.ResponseWriter, r *http.Request) {
	inv := &models.Invoice{
		Date:   time.Now(),
		TVA:    models.DefaultTVA,
		Remise: models.DefaultRemise,
		Statut: models.InvoiceStatusUnpaid,
		Lines:  []models.InvoiceLine{{Quantite: 1}},
	}
	h.renderForm(w, r, http.StatusOK, inv, nil)
}

func (h *InvoiceHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, inv *models.Invoice, errs validation.Violations) {
	clients, err := h.clients.List(r.Context(), store.OrderBy("nom ASC"))
	if err != nil {
		serverError(w, r, err)
		return
	}
	articles, err := h.articles.List(r.Context(), store.OrderBy("nom ASC"))
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, status, "factures/form.html", map[string]any{
		"Title":    "facture.title",
		"Form":     inv,
		"Totals":   services.ComputeInvoiceTotals(inv),
		"Errors":   errs,
		"Clients":  clients,
		"Articles": articles,
		"Statuses": models.InvoiceStatuses,
	})
}

// Show renders the invoice preview with the issuer block.
func (h *InvoiceHandler) Show(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	row := newInvoiceRow(inv)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, row)
		return
	}
	issuer, err := h.company.Get(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "factures/view.html", map[string]any{
		"Title":  "facture.title",
		"Item":   row,
		"Issuer": issuer,
	})
}

func (h *InvoiceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, inv, nil)
}

// PDF downloads the invoice as facture-<numero>.pdf.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	issuer, err := h.company.Get(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	body, err := pdf.Invoice(pdf.InvoiceData{
		Invoice: inv,
		Issuer:  issuer,
		Money:   h.money,
		Lang:    middleware.LangFrom(r),
	})
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.metrics.DocumentGenerated("pdf")
	zerolog.Ctx(r.Context()).Info().Str("invoice_id", inv.ID).Int("bytes", len(body)).Msg("invoice pdf generated")
	httpx.Attachment(w, pdf.ContentType, pdf.Filename(inv), body)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	inv, err := h.resolve(r.Context(), in, errs)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now()
	}
	errs.Merge(validation.Struct(inv))
	if !errs.Empty() {
		h.rejected(w, r, inv, errs)
		return
	}
	id, err := h.invoices.Create(r.Context(), inv)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, newInvoiceRow(inv))
		return
	}
	redirectWithFlash(w, r, "/factures/"+id, "flash.created")
}

// Update overwrites the invoice and its lines. The creation date is kept
// unless a new one is given.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	in, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	inv, err := h.resolve(r.Context(), in, errs)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if inv.Date.IsZero() {
		inv.Date = existing.Date
	}
	inv.ID = id
	errs.Merge(validation.Struct(inv))
	if !errs.Empty() {
		h.rejected(w, r, inv, errs)
		return
	}
	if err := h.invoices.Update(r.Context(), id, inv); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, newInvoiceRow(inv))
		return
	}
	redirectWithFlash(w, r, "/factures/"+id, "flash.updated")
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.invoices.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirectWithFlash(w, r, "/factures", "flash.deleted")
}

func (h *InvoiceHandler) rejected(w http.ResponseWriter, r *http.Request, inv *models.Invoice, errs validation.Violations) {
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		invalid(w, errs)
		return
	}
	if len(inv.Lines) == 0 {
		inv.Lines = []models.InvoiceLine{{Quantite: 1}}
	}
	h.renderForm(w, r, http.StatusUnprocessableEntity, inv, errs)
}

// resolve applies defaults and copies client and article data into a new
// invoice. Unknown ids are recorded as not_found violations.
func (h *InvoiceHandler) resolve(ctx context.Context, in *invoiceInput, errs validation.Violations) (*models.Invoice, error) {
	inv := &models.Invoice{
		Numero: strings.TrimSpace(in.Numero),
		Client: in.Client,
		TVA:    models.DefaultTVA,
		Remise: models.DefaultRemise,
		Statut: in.Statut,
	}
	if in.Date != nil {
		inv.Date = *in.Date
	}
	if in.TVA != nil {
		inv.TVA = *in.TVA
	}
	if in.Remise != nil {
		inv.Remise = *in.Remise
	}
	if inv.Statut == "" {
		inv.Statut = models.InvoiceStatusUnpaid
	}

	if id := strings.TrimSpace(in.ClientID); id != "" {
		c, err := h.clients.Get(ctx, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			errs["client_id"] = "not_found"
		case err != nil:
			return nil, err
		default:
			inv.Client = c.Snapshot()
		}
	}

	inv.Lines = make([]models.InvoiceLine, 0, len(in.Articles))
	for i, l := range in.Articles {
		line := models.InvoiceLine{
			Description:  strings.TrimSpace(l.Description),
			Quantite:     l.Quantite,
			PrixUnitaire: l.PrixUnitaire,
		}
		if id := strings.TrimSpace(l.ArticleID); id != "" {
			a, err := h.articles.Get(ctx, id)
			switch {
			case errors.Is(err, store.ErrNotFound):
				errs[fmt.Sprintf("articles[%d].article_id", i)] = "not_found"
			case err != nil:
				return nil, err
			default:
				q := l.Quantite
				if q == 0 {
					q = 1
				}
				line = a.Line(q)
			}
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv, nil
}

// bind reads an invoice write from a JSON body or from the invoice form,
// whose lines arrive as parallel line_* arrays.
func (h *InvoiceHandler) bind(w http.ResponseWriter, r *http.Request) (*invoiceInput, validation.Violations, bool) {
	in := &invoiceInput{}
	errs := validation.Violations{}
	if httpx.IsJSONBody(r) {
		if err := decodeJSON(r, in); err != nil {
			badJSON(w, err)
			return nil, nil, false
		}
		return in, errs, true
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, nil, false
	}
	in.Numero = formText(r, "numero")
	if raw := formText(r, "date"); raw != "" {
		if d, ok := parseDay(raw); ok {
			in.Date = &d
		} else {
			errs["date"] = "invalid_date"
		}
	}
	in.ClientID = formText(r, "client_id")
	in.Client = models.ClientSnapshot{
		Nom:       formText(r, "client_nom"),
		Adresse:   formText(r, "client_adresse"),
		Telephone: formText(r, "client_telephone"),
		Email:     formText(r, "client_email"),
	}
	tva := formFloat(r, "tva", "tva", models.DefaultTVA, errs)
	remise := formFloat(r, "remise", "remise", models.DefaultRemise, errs)
	in.TVA, in.Remise = &tva, &remise
	in.Statut = models.InvoiceStatus(formText(r, "statut"))

	descs := r.PostForm["line_description"]
	qtys := r.PostForm["line_quantite"]
	prices := r.PostForm["line_prix_unitaire"]
	refs := r.PostForm["line_article_id"]
	n := max(len(descs), len(qtys), len(prices), len(refs))
	for i := 0; i < n; i++ {
		l := lineInput{
			ArticleID:   strings.TrimSpace(at(refs, i)),
			Description: strings.TrimSpace(at(descs, i)),
		}
		rawQ, rawP := strings.TrimSpace(at(qtys, i)), strings.TrimSpace(at(prices, i))
		// blank rows of the form are not lines
		if l.ArticleID == "" && l.Description == "" && rawP == "" && (rawQ == "" || rawQ == "1") {
			continue
		}
		pos := len(in.Articles)
		l.Quantite = numberAt(rawQ, fmt.Sprintf("articles[%d].quantite", pos), errs)
		l.PrixUnitaire = numberAt(rawP, fmt.Sprintf("articles[%d].prix_unitaire", pos), errs)
		in.Articles = append(in.Articles, l)
	}
	return in, errs, true
}

func at(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}
	return ""
}

func numberAt(raw, field string, errs validation.Violations) float64 {
	if raw == "" {
		return 0
	}
	f, err := parseNumber(raw)
	if err != nil {
		errs[field] = "invalid_number"
		return 0
	}
	return f
}
