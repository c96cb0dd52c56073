package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wowformats/pkg/config"
	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/definitions"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/version"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ClientVersion = version.Classic
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.Export.Dir = filepath.Join(dir, "snapshots")
	cfg.Logging.Level = "error"
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))

	l, err := layout.Compute(definitions.ZoneMusicSchema, version.Classic)
	require.NoError(t, err)
	b := dbc.NewBuilder(l)
	row := b.NewRow()
	require.NoError(t, row.Set("ID", uint32(1)))
	require.NoError(t, b.Add(row))
	data, err := b.Bytes()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "ZoneMusic.dbc"), data, 0o644))
	return cfg
}

func TestContainer(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Metrics())
	assert.Len(t, c.FileOptions(), 2)

	tables, err := c.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ZoneMusic"}, tables.Names())
	again, err := c.Tables(context.Background())
	require.NoError(t, err)
	assert.Same(t, tables, again)
	assert.Equal(t, 1, c.LayoutCache().Len())

	store, err := c.Storage()
	require.NoError(t, err)
	snapshots, err := store.Snapshots()
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	server, err := c.Server(context.Background())
	require.NoError(t, err)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tables/ZoneMusic/rows/0", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, c.Close())
}

func TestContainer_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Format = "xml"
	_, err := NewContainer(cfg)
	assert.Error(t, err)
}
