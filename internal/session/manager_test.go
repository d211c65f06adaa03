package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

const cookieName = "test_session"

func newTestManager(store Store) *Manager {
	return NewManager(store, jwt.NewJWTMaker("test-secret", time.Hour), Options{CookieName: cookieName, TTL: time.Hour}, sl.Discard())
}

// run выполняет handler через Middleware и возвращает ответ.
func run(m *Manager, cookies []*http.Cookie, handler http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	m.Middleware(handler).ServeHTTP(rec, req)
	return rec
}

func lastCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[len(cookies)-1]
}

var alice = Identity{UserID: 1, Username: "alice", FullName: "Alice A", Role: models.RoleStandard}

func TestManager_LoginThenIdentity(t *testing.T) {
	m := newTestManager(NewMemoryStore())

	rec := run(m, nil, func(w http.ResponseWriter, r *http.Request) {
		_, ok := IdentityFromContext(r.Context())
		assert.False(t, ok)
		require.NoError(t, m.Login(w, r, alice))
	})
	cookie := lastCookie(t, rec)
	assert.Equal(t, cookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	run(m, []*http.Cookie{cookie}, func(_ http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, alice, identity)
	})
}

func TestManager_LoginRotatesSessionID(t *testing.T) {
	store := NewMemoryStore()
	m := newTestManager(store)

	first := lastCookie(t, run(m, nil, func(w http.ResponseWriter, r *http.Request) {
		m.AddFlash(w, r, FlashError, "try again")
	}))
	second := lastCookie(t, run(m, []*http.Cookie{first}, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, m.Login(w, r, alice))
	}))
	assert.NotEqual(t, first.Value, second.Value)

	run(m, []*http.Cookie{first}, func(_ http.ResponseWriter, r *http.Request) {
		_, ok := IdentityFromContext(r.Context())
		assert.False(t, ok, "старый идентификатор не должен давать доступ")
	})
	run(m, []*http.Cookie{second}, func(w http.ResponseWriter, r *http.Request) {
		flashes := m.PopFlashes(w, r)
		assert.Equal(t, []Flash{{Kind: FlashError, Message: "try again"}}, flashes)
	})
}

func TestManager_Logout(t *testing.T) {
	m := newTestManager(NewMemoryStore())

	cookie := lastCookie(t, run(m, nil, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, m.Login(w, r, alice))
	}))

	rec := run(m, []*http.Cookie{cookie}, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, m.Logout(w, r))
		_, ok := IdentityFromContext(r.Context())
		assert.False(t, ok)
		require.NoError(t, m.Logout(w, r))
	})
	assert.Equal(t, -1, lastCookie(t, rec).MaxAge)

	run(m, []*http.Cookie{cookie}, func(_ http.ResponseWriter, r *http.Request) {
		_, ok := IdentityFromContext(r.Context())
		assert.False(t, ok)
	})
}

func TestManager_LogoutWithoutSession(t *testing.T) {
	m := newTestManager(NewMemoryStore())
	run(m, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, m.Logout(w, r))
	})
}

func TestManager_FlashesAreOneShot(t *testing.T) {
	m := newTestManager(NewMemoryStore())

	cookie := lastCookie(t, run(m, nil, func(w http.ResponseWriter, r *http.Request) {
		m.AddFlash(w, r, FlashSuccess, "first")
		m.AddFlash(w, r, FlashError, "second")
	}))

	run(m, []*http.Cookie{cookie}, func(w http.ResponseWriter, r *http.Request) {
		assert.Len(t, m.PopFlashes(w, r), 2)
		assert.Empty(t, m.PopFlashes(w, r))
	})
	run(m, []*http.Cookie{cookie}, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, m.PopFlashes(w, r))
	})
}

func TestManager_RejectsForgedCookie(t *testing.T) {
	store := NewMemoryStore()
	m := newTestManager(store)
	require.NoError(t, store.Save(t.Context(), "known-id", &Data{Identity: &alice}, time.Hour))

	forged := jwt.NewJWTMaker("attacker-secret", time.Hour)
	token, err := forged.GenerateToken("known-id")
	require.NoError(t, err)

	cookies := []*http.Cookie{
		{Name: cookieName, Value: token},
		{Name: cookieName, Value: "known-id"},
	}
	for _, c := range cookies {
		run(m, []*http.Cookie{c}, func(_ http.ResponseWriter, r *http.Request) {
			_, ok := IdentityFromContext(r.Context())
			assert.False(t, ok)
		})
	}
}

func TestWithIdentity(t *testing.T) {
	ctx := WithIdentity(t.Context(), Identity{Username: "admin", Role: models.RoleAdmin})
	identity, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.True(t, identity.IsAdmin())
}
