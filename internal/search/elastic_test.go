package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func fakeCluster(t *testing.T, handler http.HandlerFunc) *Elastic {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)
	return &Elastic{Client: client, IndexName: "menu_items"}
}

func TestElastic_SearchDecodesHits(t *testing.T) {
	var gotBody map[string]any
	e := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/menu_items/_search"))
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_source":{"id":3,"name":"Sisig","price":"8.50","available":true}}]}}`))
	})

	res, err := e.Search(context.Background(), "  sisig ", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Sisig", res.Items[0].Name)
	assert.True(t, res.Items[0].Price.Equal(decimal.RequireFromString("8.50")))
	assert.EqualValues(t, DefaultLimit, gotBody["size"])
}

type stubEngine struct {
	calls int
}

func (s *stubEngine) Search(context.Context, string, int, int) (Results, error) {
	s.calls++
	return Results{Total: 1, Items: []models.Product{{Name: "from-db"}}}, nil
}
func (s *stubEngine) Index(context.Context, models.Product) error { return nil }
func (s *stubEngine) Remove(context.Context, uint) error          { return errors.New("unused") }

func TestElastic_FallsBackOnClusterError(t *testing.T) {
	e := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	})
	fb := &stubEngine{}
	e.Fallback = fb

	res, err := e.Search(context.Background(), "adobo", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.calls)
	assert.Equal(t, "from-db", res.Items[0].Name)
}

func TestElastic_RemoveIgnoresMissingDocument(t *testing.T) {
	e := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	require.NoError(t, e.Remove(context.Background(), 9))
}

func TestEmptyQueryReturnsNothing(t *testing.T) {
	res, err := (&DB{}).Search(context.Background(), "   ", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Items)
}
