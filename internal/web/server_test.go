package web

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tableview/internal/config"
	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/view"
)

var peopleColumns = []view.ColumnSpec{
	{Field: "id", Type: view.TypeNumber, Label: "ID"},
	{Field: "name", Type: view.TypeString, Label: "Name"},
	{Field: "joined", Type: view.TypeDate, Label: "Joined"},
}

func people(n int) []view.Record {
	out := make([]view.Record, n)
	for i := range out {
		out[i] = view.Record{
			"id":     float64(i + 1),
			"name":   fmt.Sprintf("person %02d", i+1),
			"joined": fmt.Sprintf("2024-01-%02d", i%28+1),
		}
	}
	return out
}

// newTestServer registers a 30-record "people" dataset and builds a server
// with rate limiting off unless env turns it on.
func newTestServer(t *testing.T, env map[string]string) *Server {
	t.Helper()
	vars := map[string]string{"RATE_LIMIT_ENABLED": "false"}
	maps.Copy(vars, env)
	cfg, err := config.LoadWith(func(k string) string { return vars[k] })
	require.NoError(t, err)

	dataset.Clear()
	t.Cleanup(dataset.Clear)
	dataset.Register(dataset.Dataset{
		Key:     "people",
		Label:   "People",
		Group:   "Demo",
		Columns: peopleColumns,
		Records: people(30),
	})
	return NewServer(cfg)
}

type request struct {
	method  string
	path    string
	form    url.Values
	json    string
	headers map[string]string
}

func serve(t *testing.T, s *Server, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	r := httptest.NewRequest(req.method, req.path, nil)
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		r = httptest.NewRequest(req.method, req.path, body)
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	case req.json != "":
		body = strings.NewReader(req.json)
		r = httptest.NewRequest(req.method, req.path, body)
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, r)
	return rec
}

var acceptJSON = map[string]string{"Accept": "application/json"}

// intent posts to a view route and decodes the JSON state answer.
func intent(t *testing.T, s *Server, method, path string, form url.Values) viewState {
	t.Helper()
	rec := serve(t, s, request{method: method, path: path, form: form, headers: acceptJSON})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeState(t, rec)
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) viewState {
	t.Helper()
	var st viewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	return er
}

func createView(t *testing.T, s *Server) string {
	t.Helper()
	rec := serve(t, s, request{method: http.MethodPost, path: "/datasets/people/views", headers: acceptJSON})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeState(t, rec).ID
}

func rowIDs(rows []view.Record) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i], _ = r["id"].(float64)
	}
	return out
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(t, s, request{method: http.MethodGet, path: "/"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h2>Demo</h2>")
	assert.Contains(t, body, `action="/datasets/people/views"`)
	assert.Contains(t, body, "30 records, 3 columns")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestCreateView(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("json", func(t *testing.T) {
		rec := serve(t, s, request{method: http.MethodPost, path: "/datasets/people/views", headers: acceptJSON})
		require.Equal(t, http.StatusCreated, rec.Code)

		st := decodeState(t, rec)
		assert.Equal(t, "/views/"+st.ID, rec.Header().Get("Location"))
		assert.Equal(t, "people", st.Dataset)
		assert.Equal(t, 10, st.State.Pagination.PageSize)
		assert.Equal(t, 3, st.State.Pagination.TotalPages)
		assert.Equal(t, view.UndefinedIndex, st.State.SelectedRow)
		assert.Len(t, st.Rows, 10)
		assert.Len(t, st.PageSizes, 4) // 5, 10, 25, All
	})

	t.Run("page size override", func(t *testing.T) {
		rec := serve(t, s, request{
			method:  http.MethodPost,
			path:    "/datasets/people/views",
			form:    url.Values{"page_size": {"25"}},
			headers: acceptJSON,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 25, decodeState(t, rec).State.Pagination.PageSize)
	})

	t.Run("form redirects", func(t *testing.T) {
		rec := serve(t, s, request{method: http.MethodPost, path: "/datasets/people/views"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/views/"))
	})

	t.Run("htmx redirects", func(t *testing.T) {
		rec := serve(t, s, request{
			method:  http.MethodPost,
			path:    "/datasets/people/views",
			headers: map[string]string{"HX-Request": "true"},
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("HX-Redirect"), "/views/"))
	})

	t.Run("unknown dataset", func(t *testing.T) {
		rec := serve(t, s, request{method: http.MethodPost, path: "/datasets/nope/views", headers: acceptJSON})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "DATA001", decodeError(t, rec).Code)
	})
}

func TestCreateViewLimit(t *testing.T) {
	s := newTestServer(t, map[string]string{"SESSION_MAX_VIEWS": "1"})
	createView(t, s)

	rec := serve(t, s, request{method: http.MethodPost, path: "/datasets/people/views", headers: acceptJSON})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "VIEW004", decodeError(t, rec).Code)
}

func TestViewPage(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)

	full := serve(t, s, request{method: http.MethodGet, path: "/views/" + id})
	require.Equal(t, http.StatusOK, full.Code)
	assert.Contains(t, full.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, full.Body.String(), `id="view-`+id+`"`)
	assert.Contains(t, full.Body.String(), "person 01")

	partial := serve(t, s, request{
		method:  http.MethodGet,
		path:    "/views/" + id,
		headers: map[string]string{"HX-Request": "true"},
	})
	require.Equal(t, http.StatusOK, partial.Code)
	assert.NotContains(t, partial.Body.String(), "<!DOCTYPE html>")
	assert.True(t, strings.HasPrefix(partial.Body.String(), `<div class="tableview"`))
}

func TestViewNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(t, s, request{method: http.MethodGet, path: "/api/views/missing"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "VIEW003", decodeError(t, rec).Code)
}

func TestSort(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	base := "/views/" + id

	st := intent(t, s, http.MethodPost, base+"/sort/0", nil)
	assert.Equal(t, view.SortState{Field: "id", Order: view.AscendingOrder}, st.State.Sort)
	assert.Equal(t, 1.0, rowIDs(st.Rows)[0])

	st = intent(t, s, http.MethodPost, base+"/sort/0", nil)
	assert.Equal(t, view.DescendingOrder, st.State.Sort.Order)
	assert.Equal(t, 30.0, rowIDs(st.Rows)[0])

	st = intent(t, s, http.MethodPost, base+"/sort/name", nil)
	assert.Equal(t, "name", st.State.Sort.Field)
	assert.Equal(t, "person 01", st.Rows[0]["name"])

	st = intent(t, s, http.MethodPost, base+"/sort/9", nil)
	assert.Equal(t, "name", st.State.Sort.Field, "out of range index is ignored")

	rec := serve(t, s, request{method: http.MethodPost, path: base + "/sort/bogus", headers: acceptJSON})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VIEW002", decodeError(t, rec).Code)
}

func TestSortInvalidDate(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	base := "/views/" + id

	rec := serve(t, s, request{method: http.MethodPost, path: base + "/rows/0", json: `{"joined":"not a date"}`})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, s, request{method: http.MethodPost, path: base + "/sort/joined", headers: acceptJSON})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VIEW001", decodeError(t, rec).Code)

	st := intent(t, s, http.MethodGet, "/api/views/"+id, nil)
	assert.Empty(t, st.State.Sort.Field)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, rowIDs(st.Rows))
}

func TestSelect(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	base := "/views/" + id

	st := intent(t, s, http.MethodPost, base+"/rows/2/select", nil)
	assert.Equal(t, 2, st.State.SelectedRow)
	assert.Equal(t, "person 03", st.Selected["name"])

	st = intent(t, s, http.MethodPost, base+"/rows/2/select", nil)
	assert.Equal(t, view.UndefinedIndex, st.State.SelectedRow)
	assert.Nil(t, st.Selected)

	rec := serve(t, s, request{method: http.MethodPost, path: base + "/rows/x/select", headers: acceptJSON})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VIEW005", decodeError(t, rec).Code)
}

func TestPage(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	path := "/views/" + id + "/page"

	st := intent(t, s, http.MethodPost, path, url.Values{"action": {"page"}, "n": {"2"}})
	assert.Equal(t, 2, st.State.Pagination.CurrentPage)
	assert.Equal(t, 11.0, rowIDs(st.Rows)[0])

	st = intent(t, s, http.MethodPost, path, url.Values{"action": {"last"}})
	assert.Equal(t, 3, st.State.Pagination.CurrentPage)

	st = intent(t, s, http.MethodPost, path, url.Values{"action": {"page_size"}, "n": {"25"}})
	assert.Equal(t, 25, st.State.Pagination.PageSize)
	assert.Equal(t, 2, st.State.Pagination.TotalPages)
	assert.Equal(t, 1, st.State.Pagination.CurrentPage)

	tests := []struct {
		name string
		form url.Values
		code string
	}{
		{"unknown action", url.Values{"action": {"bogus"}}, "VIEW006"},
		{"missing page number", url.Values{"action": {"page"}}, "VIEW005"},
		{"bad page size", url.Values{"action": {"page_size"}, "n": {"all"}}, "VIEW005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, s, request{method: http.MethodPost, path: path, form: tt.form, headers: acceptJSON})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestFilter(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	path := "/views/" + id + "/filter"

	st := intent(t, s, http.MethodPost, path, url.Values{"name": {"PERSON 07"}, "id": {""}})
	assert.True(t, st.State.Filtering)
	assert.Equal(t, 1, st.State.ItemCount)
	assert.Equal(t, view.Record{"name": "PERSON 07"}, st.State.ActiveFilters)
	assert.Equal(t, []float64{7}, rowIDs(st.Rows))

	st = intent(t, s, http.MethodPost, path, url.Values{"id": {"12"}})
	assert.Equal(t, []float64{12}, rowIDs(st.Rows))

	st = intent(t, s, http.MethodDelete, path, nil)
	assert.False(t, st.State.Filtering)
	assert.Equal(t, 30, st.State.ItemCount)

	rec := serve(t, s, request{method: http.MethodPost, path: path, form: url.Values{"joined": {"not a date"}}, headers: acceptJSON})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VIEW001", decodeError(t, rec).Code)
}

func TestFilterJSONBody(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)

	rec := serve(t, s, request{method: http.MethodPost, path: "/views/" + id + "/filter", json: `{"id": 3}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []float64{3}, rowIDs(decodeState(t, rec).Rows))

	rec = serve(t, s, request{method: http.MethodPost, path: "/views/" + id + "/filter", json: `[1, 2]`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "DATA002", decodeError(t, rec).Code)
}

func TestRowMutations(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	base := "/views/" + id

	rec := serve(t, s, request{method: http.MethodPost, path: base + "/rows", json: `{"id": 31, "name": "newcomer"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 31, decodeState(t, rec).State.RecordCount)

	st := intent(t, s, http.MethodDelete, base+"/rows/0", nil)
	assert.Equal(t, 30, st.State.RecordCount)
	assert.Equal(t, 2.0, rowIDs(st.Rows)[0])

	rec = serve(t, s, request{method: http.MethodPost, path: base + "/rows/0", json: `{"name": "renamed"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "renamed", decodeState(t, rec).Rows[0]["name"])

	st = intent(t, s, http.MethodDelete, base+"/rows", nil)
	assert.Equal(t, 0, st.State.RecordCount)
	assert.Equal(t, 1, st.State.Pagination.TotalPages)
	assert.Empty(t, st.Rows)

	ds, _ := dataset.Get("people")
	assert.Equal(t, 30, ds.Len(), "views work on copies")
}

func TestPlainFormRedirectsBack(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)

	rec := serve(t, s, request{method: http.MethodPost, path: "/views/" + id + "/sort/0"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/views/"+id, rec.Header().Get("Location"))
}

func TestHTMXIntent(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	htmx := map[string]string{"HX-Request": "true"}

	rec := serve(t, s, request{method: http.MethodPost, path: "/views/" + id + "/rows/1/select", headers: htmx})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="selected"`)

	rec = serve(t, s, request{method: http.MethodPost, path: "/views/" + id + "/sort/bogus", headers: htmx})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Contains(t, rec.Body.String(), `hx-swap-oob="true"`)
	assert.Contains(t, rec.Body.String(), "VIEW002")
}

func TestCloseView(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	require.Equal(t, 1, s.Sessions().Len())

	rec := serve(t, s, request{method: http.MethodDelete, path: "/views/" + id, headers: acceptJSON})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, s.Sessions().Len())
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil)
	id := createView(t, s)
	intent(t, s, http.MethodPost, "/views/"+id+"/sort/0", nil)
	intent(t, s, http.MethodPost, "/views/"+id+"/sort/0", nil)

	rec := serve(t, s, request{method: http.MethodGet, path: "/api/views/" + id + "/export"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="people.csv"`, rec.Header().Get("Content-Disposition"))

	records, err := dataset.ReadCSV(rec.Body, peopleColumns)
	require.NoError(t, err)
	require.Len(t, records, 30)
	assert.Equal(t, 30.0, records[0]["id"])
	assert.Equal(t, 1.0, records[29]["id"])
}

func TestListDatasets(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(t, s, request{method: http.MethodGet, path: "/api/datasets"})

	require.Equal(t, http.StatusOK, rec.Code)
	var got []datasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "people", got[0].Key)
	assert.Equal(t, 30, got[0].Records)
	assert.Equal(t, peopleColumns, got[0].Columns)
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": "secret"})

	rec := serve(t, s, request{method: http.MethodGet, path: "/api/datasets"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, s, request{method: http.MethodGet, path: "/api/datasets", headers: map[string]string{"X-API-Key": "secret"}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"RATE_LIMIT_ENABLED":             "true",
		"RATE_LIMIT_REQUESTS_PER_MINUTE": "2",
	})

	for i := 0; i < 2; i++ {
		rec := serve(t, s, request{method: http.MethodGet, path: "/"})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := serve(t, s, request{method: http.MethodGet, path: "/"})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestMutationLimit(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"RATE_LIMIT_ENABLED":   "true",
		"RATE_LIMIT_MUTATIONS": "1",
	})
	id := createView(t, s)

	rec := serve(t, s, request{method: http.MethodDelete, path: "/views/" + id + "/rows/0", headers: acceptJSON})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, s, request{method: http.MethodDelete, path: "/views/" + id + "/rows/0", headers: acceptJSON})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE001", decodeError(t, rec).Code)

	// Intents are not counted against the mutation limit.
	intent(t, s, http.MethodPost, "/views/"+id+"/sort/0", nil)
}
