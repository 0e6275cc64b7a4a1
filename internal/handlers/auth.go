package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
)

const minPasswordLen = 8

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// LoginForm shows the login page, or sends a logged-in user to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && h.userExists(r, uid) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, "login.html", map[string]any{"Title": "nav.login"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bind(w, r)
	if !ok {
		return
	}
	if c.Email == "" || c.Password == "" {
		h.fail(w, r, "login.html", http.StatusUnprocessableEntity, c, "invalid_credentials")
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).Where("email = ?", c.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			serverError(w, r, err)
			return
		}
		h.fail(w, r, "login.html", http.StatusUnauthorized, c, "invalid_credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(c.Password)) != nil {
		h.fail(w, r, "login.html", http.StatusUnauthorized, c, "invalid_credentials")
		return
	}

	auth.CreateSession(w, user.ID)
	zerolog.Ctx(r.Context()).Info().Uint("user_id", user.ID).Msg("login")
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		httpx.JSON(w, http.StatusOK, user)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "signup.html", map[string]any{"Title": "nav.signup"})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bind(w, r)
	if !ok {
		return
	}
	errs := validation.Violations{}
	validation.Required("email", c.Email, errs)
	validation.Email("email", c.Email, errs)
	validation.Required("password", c.Password, errs)
	if _, bad := errs["password"]; !bad && len(c.Password) < minPasswordLen {
		errs["password"] = "password_too_short"
	}
	if !errs.Empty() {
		if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
			invalid(w, errs)
			return
		}
		render(w, r, http.StatusUnprocessableEntity, "signup.html", map[string]any{
			"Title":  "nav.signup",
			"Form":   c,
			"Errors": errs,
		})
		return
	}

	var taken int64
	if err := h.db.WithContext(r.Context()).Model(&models.User{}).Where("email = ?", c.Email).Count(&taken).Error; err != nil {
		serverError(w, r, err)
		return
	}
	if taken > 0 {
		h.fail(w, r, "signup.html", http.StatusConflict, c, "email_taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, r, err)
		return
	}
	user := models.User{Email: c.Email, Name: c.Name, Password: string(hash)}
	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		serverError(w, r, err)
		return
	}

	auth.CreateSession(w, user.ID)
	zerolog.Ctx(r.Context()).Info().Uint("user_id", user.ID).Msg("signup")
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		httpx.JSON(w, http.StatusCreated, user)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) userExists(r *http.Request, uid uint) bool {
	var n int64
	err := h.db.WithContext(r.Context()).Model(&models.User{}).Where("id = ?", uid).Count(&n).Error
	return err == nil && n > 0
}

// fail answers a rejected login or signup with code.
func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, page string, status int, c *credentials, code string) {
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		httpx.JSONError(w, status, code, nil)
		return
	}
	title := "nav.login"
	if page == "signup.html" {
		title = "nav.signup"
	}
	render(w, r, status, page, map[string]any{
		"Title": title,
		"Form":  &credentials{Email: c.Email, Name: c.Name},
		"Error": code,
	})
}

func (h *AuthHandler) bind(w http.ResponseWriter, r *http.Request) (*credentials, bool) {
	c := &credentials{}
	if httpx.IsJSONBody(r) {
		if err := decodeJSON(r, c); err != nil {
			badJSON(w, err)
			return nil, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return nil, false
		}
		c.Email = r.PostFormValue("email")
		c.Password = r.PostFormValue("password")
		c.Name = r.PostFormValue("name")
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Name = strings.TrimSpace(c.Name)
	return c, true
}
