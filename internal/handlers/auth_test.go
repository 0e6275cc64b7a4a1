package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-gestion/internal/models"
)

func TestSignupCreatesSession(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewAuthHandler(gdb)

	w := serve(h.Signup, request(t, http.MethodPost, "/signup", url.Values{
		"email": {"  Admin@Okotan.CI "}, "password": {"s3cretpass"}, "name": {"Admin"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	require.NotEmpty(t, w.Result().Cookies())
	assert.Equal(t, "session", w.Result().Cookies()[0].Name)

	var u models.User
	require.NoError(t, gdb.First(&u).Error)
	assert.Equal(t, "admin@okotan.ci", u.Email)
	assert.NotEqual(t, "s3cretpass", u.Password)

	w = serve(h.Signup, request(t, http.MethodPost, "/signup", map[string]any{
		"email": "admin@okotan.ci", "password": "anotherpass",
	}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_taken", decode[errorBody](t, w).Error)
}

func TestSignupValidation(t *testing.T) {
	h := NewAuthHandler(setupTestDB(t))

	w := serve(h.Signup, request(t, http.MethodPost, "/signup", map[string]any{"email": "nope", "password": "short"}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	d := decode[errorBody](t, w).Details
	assert.Equal(t, "invalid_email", d["email"])
	assert.Equal(t, "password_too_short", d["password"])

	w = serve(h.Signup, request(t, http.MethodPost, "/signup", url.Values{"email": {"a@b.ci"}}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	doc := document(t, w)
	assert.Equal(t, 1, doc.Find(`.alert-error li[data-field="password"]`).Length())
}

func TestLogin(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewAuthHandler(gdb)
	w := serve(h.Signup, request(t, http.MethodPost, "/signup", map[string]any{
		"email": "admin@okotan.ci", "password": "s3cretpass",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(h.Login, request(t, http.MethodPost, "/login", url.Values{"email": {"ADMIN@okotan.ci"}, "password": {"s3cretpass"}}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies())

	w = serve(h.Login, request(t, http.MethodPost, "/login", map[string]any{"email": "admin@okotan.ci", "password": "wrongpass"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode[errorBody](t, w).Error)

	w = serve(h.Login, request(t, http.MethodPost, "/login", url.Values{"email": {"ghost@okotan.ci"}, "password": {"whatever1"}}))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	doc := document(t, w)
	assert.Equal(t, 1, doc.Find(".alert-error").Length())
	v, _ := doc.Find(`input[name="email"]`).Attr("value")
	assert.Equal(t, "ghost@okotan.ci", v)

	w = serve(h.Login, request(t, http.MethodPost, "/login", url.Values{}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLoginFormRedirectsKnownUser(t *testing.T) {
	gdb := setupTestDB(t)
	h := NewAuthHandler(gdb)

	// request() carries user 1, who does not exist yet
	w := serve(h.LoginForm, request(t, http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, gdb.Create(&models.User{Email: "a@b.ci", Password: "x"}).Error)
	w = serve(h.LoginForm, request(t, http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	h := NewAuthHandler(setupTestDB(t))
	w := serve(h.Logout, request(t, http.MethodPost, "/logout", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	require.NotEmpty(t, w.Result().Cookies())
	assert.Empty(t, w.Result().Cookies()[0].Value)
}
