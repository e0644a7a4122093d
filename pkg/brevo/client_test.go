package brevo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"candidate-portal/pkg/brevo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContact(t *testing.T) {
	t.Run("Sends api key and contact body", func(t *testing.T) {
		var got brevo.Contact
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/contacts", r.URL.Path)
			assert.Equal(t, "secret", r.Header.Get("api-key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		c := brevo.NewClient(srv.URL, "secret")
		err := c.CreateContact(context.Background(), brevo.Contact{
			Email:         "a@example.com",
			ListIDs:       []int64{7},
			UpdateEnabled: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "a@example.com", got.Email)
		assert.Equal(t, []int64{7}, got.ListIDs)
		assert.True(t, got.UpdateEnabled)
	})

	t.Run("Maps error responses to APIError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"invalid_parameter","message":"email is not valid"}`))
		}))
		defer srv.Close()

		err := brevo.NewClient(srv.URL, "secret").CreateContact(context.Background(), brevo.Contact{Email: "x"})

		var apiErr *brevo.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "invalid_parameter", apiErr.Code)
	})

	t.Run("Refuses to call without an API key", func(t *testing.T) {
		err := brevo.NewClient("http://unused", "").CreateContact(context.Background(), brevo.Contact{Email: "a@example.com"})
		assert.ErrorIs(t, err, brevo.ErrNotConfigured)
	})
}
