package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":4}},{"_source":{"id":1}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newTestIndex(t *testing.T) (*MenuIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)

	idx, err := NewMenuIndex(context.Background(), Config{URL: srv.URL, Index: "menu_items"})
	require.NoError(t, err)
	return idx, fake
}

func TestMenuIndex_IndexDeleteSearch(t *testing.T) {
	idx, fake := newTestIndex(t)
	ctx := context.Background()

	desc := "wood-fired"
	require.NoError(t, idx.IndexMenuItem(ctx, models.MenuItem{ID: 4, Name: "Pizza", Description: &desc, Category: "Main Course"}))
	require.NoError(t, idx.DeleteMenuItem(ctx, 9))

	total, ids, err := idx.SearchMenuItems(ctx, "piza", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{4, 1}, ids)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "PUT /menu_items/_doc/4")
	assert.Contains(t, fake.requests, "DELETE /menu_items/_doc/9")
	assert.Contains(t, fake.requests, "POST /menu_items/_search")
}

func TestBuildQuery(t *testing.T) {
	q := buildQuery("soup", 20, 10)
	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"query":"soup"`)
	assert.EqualValues(t, 20, q["from"])
	assert.EqualValues(t, 10, q["size"])
}
