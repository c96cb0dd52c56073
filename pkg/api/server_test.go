package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/definitions"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/metrics"
	"github.com/ssargent/wowformats/pkg/storage"
	"github.com/ssargent/wowformats/pkg/types"
	"github.com/ssargent/wowformats/pkg/version"
)

type fileSet map[string]*dbc.File

func (s fileSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s fileSet) File(name string) (*dbc.File, bool) {
	f, ok := s[name]
	return f, ok
}

func zoneMusic(t *testing.T) *dbc.File {
	t.Helper()
	l, err := layout.Compute(definitions.ZoneMusicSchema, version.Wrath)
	require.NoError(t, err)

	b := dbc.NewBuilder(l)
	for _, id := range []uint32{10, 20, 30} {
		row := b.NewRow()
		require.NoError(t, row.Set("ID", id))
		require.NoError(t, row.Set("SetName", b.String("Zone")))
		require.NoError(t, row.Set("Sounds", []types.ForeignKey{{Key: uint64(id)}, {Key: 0}}))
		require.NoError(t, b.Add(row))
	}
	data, err := b.Bytes()
	require.NoError(t, err)

	f, err := dbc.Open(data, definitions.ZoneMusicSchema, version.Wrath, nil)
	require.NoError(t, err)
	return f
}

func setupTestServer(t *testing.T, apiKey string) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "snapshots"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tables := fileSet{"ZoneMusic": zoneMusic(t)}
	config := ServerConfig{Addr: "127.0.0.1:0", APIKey: apiKey, Version: version.Wrath}
	return NewServer(tables, store, config, metrics.NewMetrics(), nil), store
}

func get(t *testing.T, h http.Handler, path string, headers ...string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp APIResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestServer_Health(t *testing.T) {
	server, _ := setupTestServer(t, "")
	w, resp := get(t, server.Router(), "/api/v1/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "Wrath", data["version"])
}

func TestServer_Tables(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Router()

	w, resp := get(t, h, "/api/v1/tables")
	require.Equal(t, http.StatusOK, w.Code)
	tables := resp.Data.([]any)
	require.Len(t, tables, 1)
	summary := tables[0].(map[string]any)
	assert.Equal(t, "ZoneMusic", summary["name"])
	assert.Equal(t, float64(3), summary["rows"])
	assert.Equal(t, float64(32), summary["record_size"])

	w, resp = get(t, h, "/api/v1/tables/ZoneMusic/layout")
	require.Equal(t, http.StatusOK, w.Code)
	l := resp.Data.(map[string]any)
	assert.Equal(t, float64(8), l["field_count"])
	fields := l["fields"].([]any)
	sounds := fields[len(fields)-1].(map[string]any)
	assert.Equal(t, "Sounds", sounds["name"])
	assert.Equal(t, float64(24), sounds["offset"])
	assert.Equal(t, "SoundEntries", sounds["foreign_table"])

	w, _ = get(t, h, "/api/v1/tables/Spell/layout")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Rows(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Router()

	w, resp := get(t, h, "/api/v1/tables/ZoneMusic/rows/1")
	require.Equal(t, http.StatusOK, w.Code)
	row := resp.Data.(map[string]any)
	values := row["values"].(map[string]any)
	assert.Equal(t, float64(20), values["ID"])
	assert.Equal(t, "Zone", values["SetName"].(map[string]any)["value"])

	w, resp = get(t, h, "/api/v1/tables/ZoneMusic/ids/30")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), resp.Data.(map[string]any)["index"])

	for _, path := range []string{
		"/api/v1/tables/ZoneMusic/rows/3",
		"/api/v1/tables/ZoneMusic/rows/-1",
		"/api/v1/tables/ZoneMusic/rows/abc",
		"/api/v1/tables/ZoneMusic/ids/99",
	} {
		w, resp = get(t, h, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.False(t, resp.Success, path)
	}

	w, _ = get(t, h, "/api/v1/tables/ZoneMusic/ids/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_QueryRows(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Router()

	w, resp := get(t, h, "/api/v1/tables/ZoneMusic/rows?where=ID%3E%3D20")
	require.Equal(t, http.StatusOK, w.Code)
	rows := resp.Data.([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, float64(1), rows[0].(map[string]any)["index"])

	w, resp = get(t, h, "/api/v1/tables/ZoneMusic/rows?offset=1&limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	rows = resp.Data.([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(1), rows[0].(map[string]any)["index"])

	w, resp = get(t, h, "/api/v1/tables/ZoneMusic/rows?where=SetName%3DNowhere")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data)

	for _, path := range []string{
		"/api/v1/tables/ZoneMusic/rows?where=SetName",
		"/api/v1/tables/ZoneMusic/rows?where=Missing%3D1",
		"/api/v1/tables/ZoneMusic/rows?limit=-1",
	} {
		w, _ = get(t, h, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestServer_Snapshots(t *testing.T) {
	server, store := setupTestServer(t, "")
	h := server.Router()

	w, resp := get(t, h, "/api/v1/snapshots")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data)

	export := store.Begin(version.Wrath)
	require.NoError(t, export.AddFile(zoneMusic(t)))
	snap, err := export.Commit()
	require.NoError(t, err)

	w, resp = get(t, h, "/api/v1/snapshots")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 1)

	w, resp = get(t, h, "/api/v1/snapshots/"+snap.ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wrath", resp.Data.(map[string]any)["version"])

	w, resp = get(t, h, "/api/v1/snapshots/"+snap.ID.String()+"/tables/ZoneMusic")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 3)

	w, _ = get(t, h, "/api/v1/snapshots/"+snap.ID.String()+"/tables/Map")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = get(t, h, "/api/v1/snapshots/not-a-ksuid/tables/Map")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_NoSnapshotStore(t *testing.T) {
	server := NewServer(fileSet{}, nil, ServerConfig{}, nil, nil)
	w, _ := get(t, server.Router(), "/api/v1/snapshots")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = get(t, server.Router(), "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_APIKeyAndMetrics(t *testing.T) {
	server, _ := setupTestServer(t, "secret")
	h := server.Router()

	w, _ := get(t, h, "/api/v1/tables")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = get(t, h, "/api/v1/tables", "X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `wowfmt_http_requests_total{endpoint="/api/v1/tables",method="GET",status_code="200"} 1`)
}
