// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inventario/internal/forms"
	"inventario/internal/middleware"
	"inventario/internal/models"
	"inventario/internal/render"
	"inventario/internal/session"
	"inventario/internal/store"
)

const (
	totpIssuer = "Inventario"

	setupPath = "/accounts/2fa/setup"

	msgInvalidCode  = "Código inválido. Inténtelo de nuevo."
	msgTOTPEnabled  = "Verificación en dos pasos activada."
	msgTOTPDisabled = "Verificación en dos pasos desactivada."
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		renderer:  renderer,
		sessions:  sessions,
		userStore: userStore,
	}
}

// LoginPage renders the login form. A fully signed-in user is sent on to
// the next page right away.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := forms.SafeNext(r.URL.Query().Get(middleware.NextParam))

	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	a.loginForm(w, r, forms.LoginForm{Next: next}, forms.Errors{}, "")
}

// LoginSubmit checks the credentials and starts a new session. Users with
// TOTP enabled continue to the verification page; everyone else goes to
// the requested page.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := forms.BindLogin(r.PostForm)
	if errs := f.Validate(); !errs.Valid() {
		a.loginForm(w, r, f, errs, "")
		return
	}

	user, err := a.userStore.FindByUsername(r.Context(), f.Username)
	if err != nil {
		serverError(w, r, "login lookup failed", err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, f.Password) {
		slog.Info("login rejected", "username", f.Username)
		a.loginForm(w, r, forms.LoginForm{Username: f.Username, Next: f.Next}, forms.Errors{}, forms.MsgBadCredentials)
		return
	}

	// Drop any previous session so its id is never reused after login.
	if old := middleware.SessionFromCtx(r.Context()); old != nil {
		if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
			slog.Warn("old session destroy failed", "error", err)
		}
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		IsStaff:   user.IsStaff,
		TwoFADone: !user.Needs2FAVerify(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		serverError(w, r, "session create failed", err)
		return
	}

	if user.Needs2FAVerify() {
		http.Redirect(w, r, verifyURL(f.Next), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, f.Next, http.StatusSeeOther)
}

// TwoFAVerifyPage renders the TOTP code form for a half-signed-in user.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	next := forms.SafeNext(r.URL.Query().Get(middleware.NextParam))
	if sess == nil {
		http.Redirect(w, r, middleware.LoginURL(next), http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "2fa_verify", &render.PageData{
		Title: "Verificación en dos pasos",
		Data:  map[string]any{"Next": next},
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes the sign-in.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	next := forms.SafeNext(r.FormValue(middleware.NextParam))

	user, ok := a.sessionUser(w, r, sess)
	if !ok {
		return
	}

	if user.Needs2FAVerify() && !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		a.renderer.Page(w, r, "2fa_verify", &render.PageData{
			Title: "Verificación en dos pasos",
			Data:  map[string]any{"Next": next, "Error": msgInvalidCode},
		})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		serverError(w, r, "session update failed", err)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// TwoFASetupPage shows the current 2FA status. When 2FA is off it creates a
// fresh secret and displays it as a QR code for enrollment.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, ok := a.sessionUser(w, r, sess)
	if !ok {
		return
	}

	if user.TOTPEnabled {
		a.renderer.Page(w, r, "2fa_setup", &render.PageData{
			Title: "Verificación en dos pasos",
			Data:  map[string]any{"Enabled": true},
		})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Username,
	})
	if err != nil {
		serverError(w, r, "totp generate failed", err)
		return
	}
	if err := a.userStore.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		serverError(w, r, "save totp secret failed", err)
		return
	}

	a.setupForm(w, r, user.Username, key.Secret(), "")
}

// TwoFASetupSubmit enables 2FA once the user proves their authenticator
// produces valid codes for the pending secret.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, ok := a.sessionUser(w, r, sess)
	if !ok {
		return
	}
	if user.TOTPEnabled || user.TOTPSecret == nil {
		http.Redirect(w, r, setupPath, http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		a.setupForm(w, r, user.Username, *user.TOTPSecret, msgInvalidCode)
		return
	}

	if err := a.userStore.EnableTOTP(r.Context(), user.ID); err != nil {
		serverError(w, r, "enable totp failed", err)
		return
	}
	a.flash(r, session.FlashSuccess, msgTOTPEnabled)
	http.Redirect(w, r, setupPath, http.StatusSeeOther)
}

// TwoFADisable turns 2FA off and forgets the secret.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, ok := a.sessionUser(w, r, sess)
	if !ok {
		return
	}
	if err := a.userStore.ResetTOTP(r.Context(), user.ID); err != nil {
		serverError(w, r, "reset totp failed", err)
		return
	}
	a.flash(r, session.FlashInfo, msgTOTPDisabled)
	http.Redirect(w, r, setupPath, http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// sessionUser loads the user behind sess. A session whose user no longer
// exists is destroyed and the client is sent to the login page.
func (a *Auth) sessionUser(w http.ResponseWriter, r *http.Request, sess *session.Data) (*models.User, bool) {
	if sess == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return nil, false
	}
	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil {
		serverError(w, r, "session user lookup failed", err)
		return nil, false
	}
	if user == nil {
		a.Logout(w, r)
		return nil, false
	}
	return user, true
}

func (a *Auth) loginForm(w http.ResponseWriter, r *http.Request, f forms.LoginForm, errs forms.Errors, msg string) {
	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Iniciar sesión",
		Data: map[string]any{
			"Form":   f,
			"Errors": errs,
			"Error":  msg,
		},
	})
}

func (a *Auth) setupForm(w http.ResponseWriter, r *http.Request, username, secret, msg string) {
	qr, err := qrDataURI(username, secret)
	if err != nil {
		serverError(w, r, "qr code generation failed", err)
		return
	}

	a.renderer.Page(w, r, "2fa_setup", &render.PageData{
		Title: "Verificación en dos pasos",
		Data: map[string]any{
			"QRCode": qr,
			"Secret": secret,
			"Error":  msg,
		},
	})
}

func (a *Auth) flash(r *http.Request, kind, msg string) {
	if err := a.sessions.AddFlash(r.Context(), r, session.Flash{Type: kind, Message: msg}); err != nil {
		slog.Warn("flash add failed", "error", err)
	}
}

// otpauthURL builds the key URI understood by authenticator apps.
func otpauthURL(username, secret string) string {
	u := url.URL{
		Scheme: "otpauth",
		Host:   "totp",
		Path:   "/" + totpIssuer + ":" + username,
		RawQuery: url.Values{
			"secret": {secret},
			"issuer": {totpIssuer},
		}.Encode(),
	}
	return u.String()
}

// qrDataURI renders the key URI as a PNG QR code inlined as a data: URI.
func qrDataURI(username, secret string) (template.URL, error) {
	png, err := qrcode.Encode(otpauthURL(username, secret), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

// verifyURL returns the 2FA verification page, carrying next along.
func verifyURL(next string) string {
	if next == "" || next == "/" {
		return middleware.TwoFAVerifyPath
	}
	return middleware.TwoFAVerifyPath + "?" + url.Values{middleware.NextParam: {next}}.Encode()
}
