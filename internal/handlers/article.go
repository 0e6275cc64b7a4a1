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

// ArticleHandler manages the catalogue used to prefill invoice lines.
type ArticleHandler struct {
	articles *store.Collection[models.Article, *models.Article]
}

func NewArticleHandler(db *gorm.DB) *ArticleHandler {
	return &ArticleHandler{articles: store.NewCollection[models.Article](db)}
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, models.Article{}, nil)
}

func (h *ArticleHandler) renderList(w http.ResponseWriter, r *http.Request, status int, form models.Article, errs validation.Violations) {
	q := r.URL.Query().Get("q")
	page := pageParam(r)
	search := store.Search(q, "nom", "description")

	total, err := h.articles.Count(r.Context(), search)
	if err != nil {
		serverError(w, r, err)
		return
	}
	items, err := h.articles.List(r.Context(), search, store.OrderBy("nom ASC"), store.Paginate(page, store.PageSize))
	if err != nil {
		serverError(w, r, err)
		return
	}
	pages := store.Pages(total, store.PageSize)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listResponse[models.Article]{Items: items, Total: total, Page: page, Pages: pages})
		return
	}
	render(w, r, status, "articles/index.html", map[string]any{
		"Title":  "article.title",
		"Items":  items,
		"Q":      q,
		"Page":   page,
		"Pages":  pages,
		"Total":  total,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.articles.Get(r.Context(), id)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, a)
		return
	}
	http.Redirect(w, r, "/articles/"+id+"/edit", http.StatusSeeOther)
}

func (h *ArticleHandler) Edit(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "articles/form.html", map[string]any{"Title": "article.title", "Form": a})
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	errs.Merge(validation.Struct(a))
	if !errs.Empty() {
		if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
			invalid(w, errs)
			return
		}
		h.renderList(w, r, http.StatusUnprocessableEntity, *a, errs)
		return
	}
	if _, err := h.articles.Create(r.Context(), a); err != nil {
		serverError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, a)
		return
	}
	redirectWithFlash(w, r, "/articles", "flash.created")
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, errs, ok := h.bind(w, r)
	if !ok {
		return
	}
	errs.Merge(validation.Struct(a))
	if !errs.Empty() {
		if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
			invalid(w, errs)
			return
		}
		a.ID = id
		render(w, r, http.StatusUnprocessableEntity, "articles/form.html", map[string]any{"Title": "article.title", "Form": a, "Errors": errs})
		return
	}
	if err := h.articles.Update(r.Context(), id, a); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, a)
		return
	}
	redirectWithFlash(w, r, "/articles", "flash.updated")
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirectWithFlash(w, r, "/articles", "flash.deleted")
}

func (h *ArticleHandler) bind(w http.ResponseWriter, r *http.Request) (*models.Article, validation.Violations, bool) {
	a := &models.Article{}
	errs := validation.Violations{}
	if httpx.IsJSONBody(r) {
		if err := decodeJSON(r, a); err != nil {
			badJSON(w, err)
			return nil, nil, false
		}
		a.ID = ""
		return a, errs, true
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, nil, false
	}
	a.Nom = formText(r, "nom")
	a.Description = formText(r, "description")
	a.Unite = formText(r, "unite")
	if formText(r, "prix") == "" {
		errs["prix"] = "required"
	}
	a.Prix = formFloat(r, "prix", "prix", 0, errs)
	return a, errs, true
}
