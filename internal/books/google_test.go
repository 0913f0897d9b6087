package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "isbn:9780441172719", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [{
				"volumeInfo": {
					"title": "Dune",
					"authors": ["Frank Herbert"],
					"categories": ["Fiction"],
					"pageCount": 896,
					"imageLinks": {"thumbnail": "http://books.google.com/thumb"}
				}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	vol, err := client.LookupISBN(context.Background(), "9780441172719")
	require.NoError(t, err)
	require.NotNil(t, vol)

	assert.Equal(t, "Dune", vol.Title)
	assert.Equal(t, "Frank Herbert", vol.Author)
	assert.Equal(t, "Fiction", vol.Genre)
	assert.Equal(t, 896, vol.PageCount)
	assert.Equal(t, "http://books.google.com/thumb", vol.CoverURL)
}

func TestLookupISBNNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	vol, err := client.LookupISBN(context.Background(), "0000000000000")
	require.NoError(t, err)
	assert.Nil(t, vol)
}

func TestLookupISBNServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.LookupISBN(context.Background(), "9780441172719")
	assert.Error(t, err)
}
