// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caresite/internal/middleware"
	"caresite/internal/models"
	"caresite/internal/session"
)

type fakeUsers struct {
	user     *models.User
	password string
	err      error
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil || f.user.Email != email {
		return nil, nil
	}
	return f.user, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, nil
	}
	return f.user, nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, _ uuid.UUID, secret string) error {
	f.user.TOTPSecret = &secret
	f.user.TOTPEnabled = false
	return nil
}

func (f *fakeUsers) EnableTOTP(context.Context, uuid.UUID) error {
	f.user.TOTPEnabled = true
	return nil
}

func (f *fakeUsers) CheckPassword(_ *models.User, password string) bool {
	return password == f.password
}

type fakeSessions struct {
	created   *session.Data
	updated   *session.Data
	destroyed bool
}

func (f *fakeSessions) Create(_ context.Context, _ http.ResponseWriter, data *session.Data) (string, error) {
	f.created = data
	return "sid", nil
}

func (f *fakeSessions) Update(_ context.Context, _ *http.Request, data *session.Data) error {
	f.updated = data
	return nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed = true
	return nil
}

func newAuthEnv(t *testing.T) (*Auth, *fakeUsers, *fakeSessions) {
	t.Helper()
	users := &fakeUsers{
		user:     &models.User{ID: uuid.New(), Email: "owner@caresite.test", DisplayName: "Owner"},
		password: "correct horse",
	}
	sessions := &fakeSessions{}
	return NewAuth(newRenderer(t), sessions, users), users, sessions
}

func loginForm(email, password string) *http.Request {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withSession(req *http.Request, data *session.Data) *http.Request {
	return req.WithContext(middleware.WithAdmin(req.Context(), data))
}

func TestLoginPageRedirectsWhenSignedIn(t *testing.T) {
	a, _, _ := newAuthEnv(t)

	rec := httptest.NewRecorder()
	a.LoginPage(rec, withAdmin(httptest.NewRequest(http.MethodGet, "/admin/login", nil)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	a.LoginPage(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginSubmit(t *testing.T) {
	a, users, sessions := newAuthEnv(t)

	rec := httptest.NewRecorder()
	a.LoginSubmit(rec, loginForm(" Owner@Caresite.test ", "correct horse"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/2fa/setup", rec.Header().Get("Location"))
	require.NotNil(t, sessions.created)
	assert.Equal(t, users.user.ID, sessions.created.UserID)
	assert.False(t, sessions.created.TwoFADone)

	users.user.TOTPEnabled = true
	rec = httptest.NewRecorder()
	a.LoginSubmit(rec, loginForm("owner@caresite.test", "correct horse"))
	assert.Equal(t, "/admin/2fa/verify", rec.Header().Get("Location"))
}

func TestLoginSubmitRejectsBadCredentials(t *testing.T) {
	a, _, sessions := newAuthEnv(t)

	for _, tc := range []struct{ email, password string }{
		{"owner@caresite.test", "wrong"},
		{"nobody@caresite.test", "correct horse"},
	} {
		rec := httptest.NewRecorder()
		a.LoginSubmit(rec, loginForm(tc.email, tc.password))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password.")
	}
	assert.Nil(t, sessions.created)
}

func TestLoginSubmitStoreDown(t *testing.T) {
	a, users, _ := newAuthEnv(t)
	users.err = errDown

	rec := httptest.NewRecorder()
	a.LoginSubmit(rec, loginForm("owner@caresite.test", "correct horse"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTwoFASetupAndVerify(t *testing.T) {
	a, users, sessions := newAuthEnv(t)
	half := &session.Data{UserID: users.user.ID, Email: users.user.Email}

	rec := httptest.NewRecorder()
	a.TwoFASetupPage(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin/2fa/setup", nil), half))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, users.user.TOTPSecret)
	assert.Contains(t, rec.Body.String(), *users.user.TOTPSecret)
	assert.Contains(t, rec.Body.String(), "data:image/png;base64,")

	verify := func(code string) *httptest.ResponseRecorder {
		form := url.Values{"code": {code}}
		req := httptest.NewRequest(http.MethodPost, "/admin/2fa/verify", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		a.TwoFAVerifySubmit(rec, withSession(req, half))
		return rec
	}

	// A wrong code during enrollment shows the QR code again.
	rec = verify("000000")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "data:image/png;base64,")
	assert.False(t, users.user.TOTPEnabled)

	code, err := totp.GenerateCode(*users.user.TOTPSecret, time.Now())
	require.NoError(t, err)
	rec = verify(code)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	assert.True(t, users.user.TOTPEnabled)
	require.NotNil(t, sessions.updated)
	assert.True(t, sessions.updated.TwoFADone)
}

func TestTwoFAVerifyWrongCodeWhenEnrolled(t *testing.T) {
	a, users, _ := newAuthEnv(t)
	secret := "JBSWY3DPEHPK3PXP"
	users.user.TOTPSecret = &secret
	users.user.TOTPEnabled = true

	form := url.Values{"code": {"123"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/2fa/verify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.TwoFAVerifySubmit(rec, withSession(req, &session.Data{UserID: users.user.ID, Email: users.user.Email}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid code")
	assert.NotContains(t, rec.Body.String(), "base64")
}

func TestTwoFAPagesRequireSession(t *testing.T) {
	a, _, _ := newAuthEnv(t)

	for _, h := range []http.HandlerFunc{a.TwoFASetupPage, a.TwoFAVerifyPage, a.TwoFAVerifySubmit} {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/admin/2fa/verify", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
	}
}

func TestLogout(t *testing.T) {
	a, _, sessions := newAuthEnv(t)

	rec := httptest.NewRecorder()
	a.Logout(rec, withAdmin(httptest.NewRequest(http.MethodPost, "/admin/logout", nil)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, sessions.destroyed)
}

func TestTOTPURLEscapesAccount(t *testing.T) {
	u, err := url.Parse(totpURL("a b@caresite.test", "SECRET"))
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "SECRET", u.Query().Get("secret"))
	assert.Equal(t, totpIssuer, u.Query().Get("issuer"))
}
