package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tikkit/tikkit-api/internal/domain/entity"
)

type capturedRequest struct {
	method string
	path   string
	body   map[string]any
}

func newESServer(t *testing.T, status int) (*elasticsearch.Client, *[]capturedRequest) {
	t.Helper()
	var reqs []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		reqs = append(reqs, capturedRequest{method: r.Method, path: r.URL.Path, body: body})

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs
}

func testUser() *entity.User {
	u := entity.NewRegisteredUser("a@b.com", "$2a$12$hash", "Tester", "01012345678", time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC))
	u.ID = 42
	return u
}

func TestUserIndexer_IndexesDocument(t *testing.T) {
	es, reqs := newESServer(t, http.StatusCreated)

	require.NoError(t, NewUserIndexer(es, "users").UserRegistered(context.Background(), testUser()))
	require.Len(t, *reqs, 1)

	r := (*reqs)[0]
	assert.Equal(t, http.MethodPut, r.method)
	assert.Equal(t, "/users/_doc/42", r.path)
	assert.Equal(t, float64(42), r.body["id"])
	assert.Equal(t, "a@b.com", r.body["email"])
	assert.Equal(t, "USER", r.body["role"])
	assert.Equal(t, "2025-03-01T00:30:00Z", r.body["created_at"])
	assert.NotContains(t, r.body, "password")
}

func TestUserIndexer_ErrorStatus(t *testing.T) {
	es, _ := newESServer(t, http.StatusBadRequest)
	err := NewUserIndexer(es, "users").UserRegistered(context.Background(), testUser())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestUserIndexer_Disabled(t *testing.T) {
	assert.NoError(t, NewUserIndexer(nil, "users").UserRegistered(context.Background(), testUser()))

	es, reqs := newESServer(t, http.StatusCreated)
	assert.NoError(t, NewUserIndexer(es, "").UserRegistered(context.Background(), testUser()))
	assert.Empty(t, *reqs)
}
