// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore returns a Store on Valkey DB 15, skipping when Valkey is not
// reachable.
func testStore(t *testing.T, secure bool) (*Store, *redis.Client) {
	t.Helper()

	addr := os.Getenv("VALKEY_HOST")
	if addr == "" {
		addr = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	t.Cleanup(func() {
		if keys, _ := client.Keys(ctx, keyPrefix+"*").Result(); len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return NewStore(client, secure), client
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

// TestLoginSessionFlow follows a login: the password step creates a
// half-finished session, the TOTP step completes it, logout removes it.
func TestLoginSessionFlow(t *testing.T) {
	store, client := testStore(t, false)
	ctx := context.Background()

	half := &Data{UserID: uuid.New(), Email: "owner@caresite.test", DisplayName: "Owner"}
	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, half)
	require.NoError(t, err)
	assert.Len(t, id, idLength*2)

	cookie := sessionCookie(t, rec)
	assert.Equal(t, id, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	ttl, err := client.TTL(ctx, keyPrefix+id).Result()
	require.NoError(t, err)
	assert.InDelta(t, DefaultTTL.Seconds(), ttl.Seconds(), 5)

	got, err := store.Get(ctx, requestWith(cookie))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, half.UserID, got.UserID)
	assert.False(t, got.TwoFADone)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

	got.TwoFADone = true
	require.NoError(t, store.Update(ctx, requestWith(cookie), got))
	got, err = store.Get(ctx, requestWith(cookie))
	require.NoError(t, err)
	assert.True(t, got.TwoFADone)

	out := httptest.NewRecorder()
	require.NoError(t, store.Destroy(ctx, out, requestWith(cookie)))
	assert.Equal(t, -1, sessionCookie(t, out).MaxAge)
	got, err = store.Get(ctx, requestWith(cookie))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionWithoutCookie(t *testing.T) {
	store, _ := testStore(t, false)
	ctx := context.Background()

	got, err := store.Get(ctx, requestWith(nil))
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get(ctx, requestWith(&http.Cookie{Name: CookieName, Value: "expired-or-forged"}))
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, store.Update(ctx, requestWith(nil), &Data{}))
	assert.NoError(t, store.Destroy(ctx, httptest.NewRecorder(), requestWith(nil)))
}

func TestSecureStoreSetsSecureCookie(t *testing.T) {
	store, _ := testStore(t, true)

	rec := httptest.NewRecorder()
	_, err := store.Create(context.Background(), rec, &Data{UserID: uuid.New(), Email: "owner@caresite.test"})
	require.NoError(t, err)
	assert.True(t, sessionCookie(t, rec).Secure)
}

func TestGenerateIDIsRandomHex(t *testing.T) {
	a, err := generateID()
	require.NoError(t, err)
	b, err := generateID()
	require.NoError(t, err)

	assert.Len(t, a, idLength*2)
	assert.Regexp(t, "^[0-9a-f]+$", a)
	assert.NotEqual(t, a, b)
}
