package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/items-api/internal/config"
	"github.com/deppfellow/items-api/internal/handler"
	"github.com/deppfellow/items-api/internal/middleware"
	"github.com/deppfellow/items-api/internal/repository"
	"github.com/deppfellow/items-api/internal/router"
	"github.com/deppfellow/items-api/internal/server"
	"github.com/deppfellow/items-api/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeItems is an in-memory repository.Items used as the substitute storage
// collaborator. It mirrors the storage contract: ids assigned once and never
// reused, updates return pgx.ErrNoRows for missing rows, deletes of missing
// ids succeed.
type fakeItems struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]repository.Item

	// failWith, when set, is returned by every method to simulate a
	// storage-layer failure.
	failWith error
}

func newFakeItems() *fakeItems {
	return &fakeItems{items: map[int64]repository.Item{}}
}

func newTestAPI(t *testing.T, repo repository.Items) *echo.Echo {
	t.Helper()

	log := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server:  config.ServerConfig{Port: "0"},
	}
	s := &server.Server{Config: cfg, Logger: &log}

	m := middleware.NewMiddlewares(s)
	svc := service.NewItemService(repo, &log)
	h := &handler.Handlers{
		Items:  handler.NewItemHandler(s, svc),
		Health: handler.NewHealthHandler(s),
	}

	return router.New(m, h)
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeItem(t *testing.T, body []byte) repository.Item {
	t.Helper()
	var item repository.Item
	require.NoError(t, json.Unmarshal(body, &item))
	return item
}

func decodeError(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Contains(t, payload, "error")
	return payload
}

func TestCreateAndListRoundTrip(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPost, "/api/items", `{"name":"A","value":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeItem(t, rec.Body.Bytes())
	assert.Equal(t, "A", created.Name)
	assert.Equal(t, 1.0, created.Value)
	assert.Positive(t, created.ID)

	rec = doJSON(e, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []repository.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, created, items[0])
}

func TestListOrderedByAscendingID(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	for _, name := range []string{"c", "a", "b"} {
		rec := doJSON(e, http.MethodPost, "/api/items", fmt.Sprintf(`{"name":%q,"value":2}`, name))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(e, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []repository.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.True(t, sort.SliceIsSorted(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	}), "list must be ordered by ascending id")
}

func TestListEmptyCollection(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "empty collection serializes as an array, not null")
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{
			name:        "missing name",
			body:        `{"value":1}`,
			wantMessage: "name must be string",
		},
		{
			name:        "blank name",
			body:        `{"name":"   ","value":1}`,
			wantMessage: "name must be string",
		},
		{
			name:        "non-string name",
			body:        `{"name":5,"value":1}`,
			wantMessage: "name must be string",
		},
		{
			name:        "missing value",
			body:        `{"name":"x"}`,
			wantMessage: "value must be number",
		},
		{
			name:        "non-numeric value",
			body:        `{"name":"x","value":"y"}`,
			wantMessage: "value must be number",
		},
		{
			name:        "empty body",
			body:        "",
			wantMessage: "Body required",
		},
		{
			name:        "malformed json",
			body:        `{oops`,
			wantMessage: "Body required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestAPI(t, newFakeItems())

			rec := doJSON(e, http.MethodPost, "/api/items", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			payload := decodeError(t, rec.Body.Bytes())
			assert.Equal(t, tt.wantMessage, payload["error"])
		})
	}
}

func TestCreateIgnoresUnknownFields(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPost, "/api/items", `{"name":"A","value":1,"color":"red"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeItem(t, rec.Body.Bytes())
	assert.Equal(t, "A", created.Name)
}

func TestUpdate(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPost, "/api/items", `{"name":"A","value":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeItem(t, rec.Body.Bytes())

	target := fmt.Sprintf("/api/items/%d", created.ID)

	rec = doJSON(e, http.MethodPut, target, `{"name":"B","value":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeItem(t, rec.Body.Bytes())
	assert.Equal(t, created.ID, updated.ID, "identity is preserved across updates")
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, 2.0, updated.Value)

	// Repeating the same PUT is a value-level no-op and returns the same
	// representation.
	rec2 := doJSON(e, http.MethodPut, target, `{"name":"B","value":2}`)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.JSONEq(t, rec.Body.String(), rec2.Body.String())
}

func TestUpdateMissingID(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPut, "/api/items/999999", `{"name":"B","value":2}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	decodeError(t, rec.Body.Bytes())
}

func TestUpdateInvalidBody(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPost, "/api/items", `{"name":"A","value":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeItem(t, rec.Body.Bytes())

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/items/%d", created.ID), `{"value":2}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	payload := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "name must be string", payload["error"])
}

func TestUpdateNonIntegerID(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPut, "/api/items/abc", `{"name":"B","value":2}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	payload := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "Route not found", payload["error"])
}

func TestDelete(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPost, "/api/items", `{"name":"A","value":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeItem(t, rec.Body.Bytes())

	target := fmt.Sprintf("/api/items/%d", created.ID)

	rec = doJSON(e, http.MethodDelete, target, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String(), "delete returns an empty body")

	// The collection no longer contains the deleted id.
	rec = doJSON(e, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Deleting the same id again is idempotent.
	rec = doJSON(e, http.MethodDelete, target, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteNonIntegerID(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodDelete, "/api/items/abc", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	rec := doJSON(e, http.MethodPost, "/api/items", `{"name":"A","value":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decodeItem(t, rec.Body.Bytes())

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/items/%d", first.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/items", `{"name":"B","value":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decodeItem(t, rec.Body.Bytes())

	assert.Greater(t, second.ID, first.ID, "ids are never reused after deletion")
}

func TestStorageFailureMapsTo500(t *testing.T) {
	repo := newFakeItems()
	repo.failWith = fmt.Errorf("connection refused")
	e := newTestAPI(t, repo)

	rec := doJSON(e, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	payload := decodeError(t, rec.Body.Bytes())
	// The raw storage error never leaks to the client.
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), payload["error"])
}

func TestUnknownRoute(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	for _, target := range []string{"/api/nope", "/api/items/1/extra"} {
		rec := doJSON(e, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, rec.Code, target)

		payload := decodeError(t, rec.Body.Bytes())
		assert.Equal(t, "Route not found", payload["error"])
	}
}

func TestUnmatchedMethodIsRouteNotFound(t *testing.T) {
	e := newTestAPI(t, newFakeItems())

	// A known path with a method outside the dispatch table behaves like an
	// unknown route.
	rec := doJSON(e, http.MethodPatch, "/api/items", `{"name":"A","value":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	payload := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "Route not found", payload["error"])
}

func TestConcurrentUpdatesLastWriteWins(t *testing.T) {
	repo := newFakeItems()
	e := newTestAPI(t, repo)

	rec := doJSON(e, http.MethodPost, "/api/items", `{"name":"A","value":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeItem(t, rec.Body.Bytes())

	target := fmt.Sprintf("/api/items/%d", created.ID)
	bodies := []string{`{"name":"left","value":10}`, `{"name":"right","value":20}`}

	var wg sync.WaitGroup
	codes := make([]int, len(bodies))
	for i, body := range bodies {
		wg.Add(1)
		go func(i int, body string) {
			defer wg.Done()
			codes[i] = doJSON(e, http.MethodPut, target, body).Code
		}(i, body)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "concurrent update %d", i)
	}

	// Final state equals one of the two submitted bodies, never a mix.
	final, ok := repo.get(created.ID)
	require.True(t, ok)
	assert.True(t,
		(final.Name == "left" && final.Value == 10) ||
			(final.Name == "right" && final.Value == 20),
		"final state is one complete write, got %+v", final)
}

// --- fakeItems implementation ------------------------------------------------

func (f *fakeItems) List(_ context.Context) ([]repository.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	items := []repository.Item{}
	for _, item := range f.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeItems) Create(_ context.Context, name string, value float64) (repository.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return repository.Item{}, f.failWith
	}

	f.nextID++
	item := repository.Item{ID: f.nextID, Name: name, Value: value}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItems) Update(_ context.Context, id int64, name string, value float64) (repository.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return repository.Item{}, f.failWith
	}

	if _, ok := f.items[id]; !ok {
		return repository.Item{}, pgx.ErrNoRows
	}
	item := repository.Item{ID: id, Name: name, Value: value}
	f.items[id] = item
	return item, nil
}

func (f *fakeItems) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	delete(f.items, id)
	return nil
}

func (f *fakeItems) get(id int64) (repository.Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	return item, ok
}
