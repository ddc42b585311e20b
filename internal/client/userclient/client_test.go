package userclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meethub/eventsvc/internal/client/userclient"
	"github.com/meethub/eventsvc/internal/domain/user"
)

func TestGetUserByID(t *testing.T) {
	t.Run("decodes a found user", func(t *testing.T) {
		var gotPath, gotCaller string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotCaller = r.Header.Get("X-User-Id")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":42,"name":"Ada","email":"ada@example.com"}`))
		}))
		defer srv.Close()

		c := userclient.New(srv.URL, time.Second, nil)

		u, err := c.GetUserByID(context.Background(), 7, 42)
		require.NoError(t, err)

		assert.Equal(t, "/users/42", gotPath)
		assert.Equal(t, "7", gotCaller)
		assert.Equal(t, int64(42), u.ID)
		assert.Equal(t, "Ada", u.Name)
		assert.Equal(t, "ada@example.com", u.Email)
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := userclient.New(srv.URL, time.Second, nil)

		_, err := c.GetUserByID(context.Background(), 7, 42)
		require.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("server errors are opaque", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := userclient.New(srv.URL, time.Second, nil)

		_, err := c.GetUserByID(context.Background(), 7, 42)
		require.ErrorIs(t, err, user.ErrUnknown)
	})

	t.Run("malformed body is opaque", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":`))
		}))
		defer srv.Close()

		c := userclient.New(srv.URL, time.Second, nil)

		_, err := c.GetUserByID(context.Background(), 7, 42)
		require.ErrorIs(t, err, user.ErrUnknown)
	})

	t.Run("unreachable host is opaque", func(t *testing.T) {
		c := userclient.New("http://127.0.0.1:1", 200*time.Millisecond, nil)

		_, err := c.GetUserByID(context.Background(), 7, 42)
		require.ErrorIs(t, err, user.ErrUnknown)
	})
}
