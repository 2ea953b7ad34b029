package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	email string
	err   error
}

func (f *fakeVerifier) VerifyAdminAccess(tokenString string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.email, nil
}

func newProtectedRouter(verifier AdminVerifier) (*mux.Router, *string) {
	var seenEmail string
	r := mux.NewRouter()
	r.Use(AdminAuthMiddleware(verifier))
	r.HandleFunc("/admin/bookings", func(w http.ResponseWriter, req *http.Request) {
		seenEmail = AdminEmailFromContext(req.Context())
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	return r, &seenEmail
}

func TestAdminAuthMiddleware(t *testing.T) {
	t.Run("missing header is denied", func(t *testing.T) {
		r, _ := newProtectedRouter(&fakeVerifier{email: "owner@soundhaus.example"})
		req := httptest.NewRequest("GET", "/admin/bookings", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer header is denied", func(t *testing.T) {
		r, _ := newProtectedRouter(&fakeVerifier{email: "owner@soundhaus.example"})
		req := httptest.NewRequest("GET", "/admin/bookings", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected token is denied", func(t *testing.T) {
		r, _ := newProtectedRouter(&fakeVerifier{err: errors.New("not an admin")})
		req := httptest.NewRequest("GET", "/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("verified admin passes with identity in context", func(t *testing.T) {
		r, seenEmail := newProtectedRouter(&fakeVerifier{email: "owner@soundhaus.example"})
		req := httptest.NewRequest("GET", "/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "owner@soundhaus.example", *seenEmail)
	})
}
