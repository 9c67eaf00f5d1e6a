package studentclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("active_student", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/students/42", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"42","name":"Ana","email":"ana@school.dev","active":true}`))
		}))
		defer srv.Close()

		st, err := New(srv.URL, false).FindByID(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "42", st.ID)
		assert.Equal(t, "Ana", st.Name)
		assert.True(t, st.Active)
	})

	t.Run("inactive_student", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"42","name":"Ivo","email":"ivo@school.dev","active":false}`))
		}))
		defer srv.Close()

		st, err := New(srv.URL, false).FindByID(ctx, "42")
		require.NoError(t, err)
		assert.False(t, st.Active)
	})

	t.Run("registry_404_is_distinguishable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := New(srv.URL, false).FindByID(ctx, "42")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("registry_500_is_an_opaque_failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := New(srv.URL, false).FindByID(ctx, "42")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("malformed_body_is_an_opaque_failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, false).FindByID(ctx, "42")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("unreachable_registry_is_an_opaque_failure", func(t *testing.T) {
		_, err := New("http://127.0.0.1:1", false).FindByID(ctx, "42")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("skip_mode_returns_active_mock", func(t *testing.T) {
		st, err := New("http://unused", true).FindByID(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "42", st.ID)
		assert.True(t, st.Active)
	})

	t.Run("empty_id_is_rejected", func(t *testing.T) {
		_, err := New("http://unused", false).FindByID(ctx, "")
		assert.Error(t, err)
	})
}
