package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/diewo77/go-gestion/validation"
)

type ClientHandler struct {
	clients *store.Collection[models.Client, *models.Client]
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{clients: store.NewCollection[models.Client](db)}
}

// List shows the client directory, searchable on name, company and email.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, models.Client{}, nil)
}

func (h *ClientHandler) renderList(w http.ResponseWriter, r *http.Request, status int, form models.Client, errs validation.Violations) {
	q := r.URL.Query().Get("q")
	page := pageParam(r)
	search := store.Search(q, "nom", "entreprise", "email")

	total, err := h.clients.Count(r.Context(), search)
	if err != nil {
		serverError(w, r, err)
		return
	}
	items, err := h.clients.List(r.Context(), search, store.OrderBy("nom ASC"), store.Paginate(page, store.PageSize))
	if err != nil {
		serverError(w, r, err)
		return
	}
	pages := store.Pages(total, store.PageSize)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listResponse[models.Client]{Items: items, Total: total, Page: page, Pages: pages})
		return
	}
	render(w, r, status, "clients/index.html", map[string]any{
		"Title":  "client.title",
		"Items":  items,
		"Q":      q,
		"Page":   page,
		"Pages":  pages,
		"Total":  total,
		"Form":   form,
		"Errors": errs,
	})
}

// Get returns one client as JSON; browsers are sent to the edit form.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.clients.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, c)
		return
	}
	http.Redirect(w, r, "/clients/"+id+"/edit", http.StatusSeeOther)
}

// Edit shows the client form.
func (h *ClientHandler) Edit(w http.ResponseWriter, r *http.Request) {
	c, err := h.clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "clients/form.html", map[string]any{"Title": "client.title", "Form": c})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bind(w, r)
	if !ok {
		return
	}
	if errs := validation.Struct(c); !errs.Empty() {
		if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
			invalid(w, errs)
			return
		}
		h.renderList(w, r, http.StatusUnprocessableEntity, *c, errs)
		return
	}
	if _, err := h.clients.Create(r.Context(), c); err != nil {
		serverError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, c)
		return
	}
	redirectWithFlash(w, r, "/clients", "flash.created")
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := h.bind(w, r)
	if !ok {
		return
	}
	if errs := validation.Struct(c); !errs.Empty() {
		if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
			invalid(w, errs)
			return
		}
		c.ID = id
		render(w, r, http.StatusUnprocessableEntity, "clients/form.html", map[string]any{"Title": "client.title", "Form": c, "Errors": errs})
		return
	}
	if err := h.clients.Update(r.Context(), id, c); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, c)
		return
	}
	redirectWithFlash(w, r, "/clients", "flash.updated")
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clients.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirectWithFlash(w, r, "/clients", "flash.deleted")
}

// bind reads a client from a JSON body or a form.
func (h *ClientHandler) bind(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	c := &models.Client{}
	if httpx.IsJSONBody(r) {
		if err := decodeJSON(r, c); err != nil {
			badJSON(w, err)
			return nil, false
		}
		c.ID = ""
		return c, true
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	c.Nom = formText(r, "nom")
	c.Email = formText(r, "email")
	c.Telephone = formText(r, "telephone")
	c.Entreprise = formText(r, "entreprise")
	c.Adresse = formText(r, "adresse")
	return c, true
}
