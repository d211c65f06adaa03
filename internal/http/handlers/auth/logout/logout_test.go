package logout

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

func TestLogoutHandler(t *testing.T) {
	for _, logoutErr := range []error{nil, errors.New("redis down")} {
		sess := new(handlertest.SessionsMock)
		sess.On("Logout").Return(logoutErr).Once()

		w := httptest.NewRecorder()
		New(sl.Discard(), sess).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, []session.Flash{{Kind: session.FlashSuccess, Message: "Logout realizado com sucesso!"}}, sess.Added)
		sess.AssertExpectations(t)
	}
}
