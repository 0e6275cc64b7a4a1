package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/validation"
)

// CompanyHandler edits the issuer printed on invoices.
type CompanyHandler struct {
	company *services.CompanyService
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{company: services.NewCompanyService(db)}
}

// Edit shows the company settings form.
func (h *CompanyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	settings, err := h.company.Get(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	// not saved yet: show an empty form
	if settings == nil {
		settings = &models.CompanySettings{}
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, settings)
		return
	}
	render(w, r, http.StatusOK, "settings/company.html", map[string]any{
		"Title":    "settings.title",
		"Settings": settings,
	})
}

// Update saves the company settings.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	settings := &models.CompanySettings{}
	if httpx.IsJSONBody(r) {
		if err := decodeJSON(r, settings); err != nil {
			badJSON(w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		settings.Name = formText(r, "name")
		settings.Activity = formText(r, "activity")
		settings.Address = formText(r, "address")
		settings.Phone = formText(r, "phone")
		settings.Email = formText(r, "email")
		settings.Capital = formText(r, "capital")
		settings.RCCM = formText(r, "rccm")
		settings.TaxID = formText(r, "tax_id")
	}

	errs := validation.Violations{}
	validation.Required("name", settings.Name, errs)
	validation.Email("email", settings.Email, errs)
	if !errs.Empty() {
		if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
			invalid(w, errs)
			return
		}
		render(w, r, http.StatusUnprocessableEntity, "settings/company.html", map[string]any{
			"Title":    "settings.title",
			"Settings": settings,
			"Errors":   errs,
		})
		return
	}

	if err := h.company.Save(r.Context(), settings); err != nil {
		serverError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, settings)
		return
	}
	redirectWithFlash(w, r, "/settings", "flash.updated")
}
