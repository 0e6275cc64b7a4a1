package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/export"
	"github.com/diewo77/go-gestion/internal/middleware"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/obs"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/diewo77/go-gestion/validation"
)

// bookingRow is a booking with its computed cost breakdown.
type bookingRow struct {
	models.Booking
	Totals services.BookingTotals `json:"totals"`
}

func newBookingRows(bs []models.Booking) []bookingRow {
	rows := make([]bookingRow, len(bs))
	for i := range bs {
		rows[i] = bookingRow{Booking: bs[i], Totals: services.ComputeBookingTotals(&bs[i])}
	}
	return rows
}

// bookingFilter holds the list filters as typed by the user.
type bookingFilter struct {
	Type string
	From string
	To   string
	Q    string
}

func parseBookingFilter(q url.Values) bookingFilter {
	return bookingFilter{
		Type: q.Get("type_contenaire"),
		From: q.Get("from"),
		To:   q.Get("to"),
		Q:    q.Get("q"),
	}
}

// scopes turns the filter into query scopes. Unparsable dates and unknown
// container types are ignored. Both date bounds are inclusive days.
func (f bookingFilter) scopes() []store.Scope {
	var out []store.Scope
	if ct := models.ContainerType(f.Type); ct.Valid() {
		out = append(out, store.Where("type_contenaire = ?", ct))
	}
	if from, ok := parseDay(f.From); ok {
		out = append(out, store.Where("date >= ?", from))
	}
	if to, ok := parseDay(f.To); ok {
		out = append(out, store.Where("date < ?", to.AddDate(0, 0, 1)))
	}
	if f.Q != "" {
		out = append(out, store.Search(f.Q, "numero"))
	}
	return out
}

// Query re-encodes the filter for pagination and export links.
func (f bookingFilter) Query() string {
	v := url.Values{}
	for k, s := range map[string]string{"type_contenaire": f.Type, "from": f.From, "to": f.To, "q": f.Q} {
		if s != "" {
			v.Set(k, s)
		}
	}
	return v.Encode()
}

type BookingHandler struct {
	bookings *store.Collection[models.Booking, *models.Booking]
	metrics  *obs.Metrics
	unit     string
}

// NewBookingHandler builds the booking handler; metrics may be nil.
func NewBookingHandler(db *gorm.DB, metrics *obs.Metrics, unit string) *BookingHandler {
	return &BookingHandler{
		bookings: store.NewCollection[models.Booking](db),
		metrics:  metrics,
		unit:     unit,
	}
}

// List shows one page of filtered bookings and the totals of the whole filtered set.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	f := parseBookingFilter(r.URL.Query())
	page := pageParam(r)
	scopes := f.scopes()

	all, err := h.bookings.List(r.Context(), scopes...)
	if err != nil {
		serverError(w, r, err)
		return
	}
	total := int64(len(all))
	paged := append(scopes, store.OrderBy("date DESC"), store.Paginate(page, store.PageSize))
	items, err := h.bookings.List(r.Context(), paged...)
	if err != nil {
		serverError(w, r, err)
		return
	}
	rows := newBookingRows(items)
	sum := services.SumBookingTotals(all)
	pages := store.Pages(total, store.PageSize)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"items":  rows,
			"total":  total,
			"page":   page,
			"pages":  pages,
			"totals": sum,
		})
		return
	}
	render(w, r, http.StatusOK, "bookings/index.html", map[string]any{
		"Title":          "booking.title",
		"Items":          rows,
		"Sum":            sum,
		"Filter":         f,
		"ContainerTypes": models.ContainerTypes,
		"Page":           page,
		"Pages":          pages,
		"Total":          total,
	})
}

// Export downloads the filtered bookings as a spreadsheet.
func (h *BookingHandler) Export(w http.ResponseWriter, r *http.Request) {
	f := parseBookingFilter(r.URL.Query())
	items, err := h.bookings.List(r.Context(), append(f.scopes(), store.OrderBy("date ASC"))...)
	if err != nil {
		serverError(w, r, err)
		return
	}
	body, err := export.BookingsXLSX(items, middleware.LangFrom(r), h.unit)
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.metrics.DocumentGenerated("xlsx")
	zerolog.Ctx(r.Context()).Info().Int("rows", len(items)).Msg("bookings exported")
	httpx.Attachment(w, export.XLSXContentType, "bookings-"+time.Now().Format(dayLayout)+".xlsx", body)
}

func (h *BookingHandler) New(w http.ResponseWriter, r *http.Request) {
	b := &models.Booking{
		Date:           time.Now(),
		TypeContenaire: models.Container20,
		TypeProduit:    models.ProductSemiFini,
	}
	h.renderForm(w, r, http.StatusOK, b, nil)
}

func (h *BookingHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, b *models.Booking, errs validation.Violations) {
	render(w, r, status, "bookings/form.html", map[string]any{
		"Title":          "booking.title",
		"Form":           b,
		"Totals":         services.ComputeBookingTotals(b),
		"Errors":         errs,
		"ContainerTypes": models.ContainerTypes,
		"ProductTypes":   models.ProductTypes,
	})
}

// Show renders the per-component cost breakdown of one booking.
func (h *BookingHandler) Show(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	row := bookingRow{Booking: *b, Totals: services.ComputeBookingTotals(b)}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, row)
		return
	}
	render(w, r, http.StatusOK, "bookings/view.html", map[string]any{"Title": "booking.title", "Item": row})
}

func (h *BookingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, b, nil)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	if b.Date.IsZero() {
		b.Date = time.Now()
	}
	errs.Merge(validation.Struct(b))
	if !errs.Empty() {
		h.rejected(w, r, b, errs)
		return
	}
	id, err := h.bookings.Create(r.Context(), b)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, bookingRow{Booking: *b, Totals: services.ComputeBookingTotals(b)})
		return
	}
	redirectWithFlash(w, r, "/bookings/"+id, "flash.created")
}

// Update overwrites the booking. The original date is kept unless a new one is given.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	b, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	if b.Date.IsZero() {
		b.Date = existing.Date
	}
	b.ID = id
	errs.Merge(validation.Struct(b))
	if !errs.Empty() {
		h.rejected(w, r, b, errs)
		return
	}
	if err := h.bookings.Update(r.Context(), id, b); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, bookingRow{Booking: *b, Totals: services.ComputeBookingTotals(b)})
		return
	}
	redirectWithFlash(w, r, "/bookings/"+id, "flash.updated")
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirectWithFlash(w, r, "/bookings", "flash.deleted")
}

func (h *BookingHandler) rejected(w http.ResponseWriter, r *http.Request, b *models.Booking, errs validation.Violations) {
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		invalid(w, errs)
		return
	}
	h.renderForm(w, r, http.StatusUnprocessableEntity, b, errs)
}

// bind reads a booking from a JSON body or the booking form. Form amounts
// left empty are zero.
func (h *BookingHandler) bind(w http.ResponseWriter, r *http.Request) (*models.Booking, validation.Violations, bool) {
	b := &models.Booking{}
	errs := validation.Violations{}
	if httpx.IsJSONBody(r) {
		if err := decodeJSON(r, b); err != nil {
			badJSON(w, err)
			return nil, nil, false
		}
		b.ID = ""
		return b, errs, true
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, nil, false
	}
	b.Numero = formText(r, "numero")
	if raw := formText(r, "date"); raw != "" {
		if d, ok := parseDay(raw); ok {
			b.Date = d
		} else {
			errs["date"] = "invalid_date"
		}
	}
	b.TypeContenaire = models.ContainerType(formText(r, "type_contenaire"))
	b.TypeProduit = models.ProductType(formText(r, "type_produit"))
	b.NombreTC = formInt(r, "nombre_tc", "nombre_tc", errs)
	b.FraisTransport = formFloat(r, "frais_transport", "frais_transport", 0, errs)
	b.FauxFrais = formFloat(r, "faux_frais", "faux_frais", 0, errs)
	b.Manutention = models.Manutention{
		Facture:   formFloat(r, "manutention_facture", "manutention.facture", 0, errs),
		DFU:       formFloat(r, "manutention_dfu", "manutention.dfu", 0, errs),
		Honoraire: formFloat(r, "manutention_honoraire", "manutention.honoraire", 0, errs),
		Caution:   formFloat(r, "manutention_caution", "manutention.caution", 0, errs),
	}
	return b, errs, true
}
