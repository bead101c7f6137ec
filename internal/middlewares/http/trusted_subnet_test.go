package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrustedSubnetMiddleware(t *testing.T) {
	const validCIDR = "192.168.1.0/24"

	// handler to test if next was called
	nextCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no subnet passes through", func(t *testing.T) {
		nextCalled = false
		mw, err := NewTrustedSubnetMiddleware("")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		mw(nextHandler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, nextCalled)
	})

	t.Run("allowed IP", func(t *testing.T) {
		nextCalled = false
		mw, err := NewTrustedSubnetMiddleware(validCIDR)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "192.168.1.42")
		w := httptest.NewRecorder()
		mw(nextHandler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, nextCalled)
	})

	t.Run("IP outside subnet", func(t *testing.T) {
		nextCalled = false
		mw, err := NewTrustedSubnetMiddleware(validCIDR)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		w := httptest.NewRecorder()
		mw(nextHandler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, nextCalled)
	})

	t.Run("missing header", func(t *testing.T) {
		nextCalled = false
		mw, err := NewTrustedSubnetMiddleware(validCIDR)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		mw(nextHandler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, nextCalled)
	})

	t.Run("malformed CIDR", func(t *testing.T) {
		_, err := NewTrustedSubnetMiddleware("not-a-cidr")
		assert.Error(t, err)
	})
}
