// Package di wires the shared services used by the wowfmt commands.
package di

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/wowformats/pkg/api"
	"github.com/ssargent/wowformats/pkg/config"
	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/loader"
	"github.com/ssargent/wowformats/pkg/logging"
	"github.com/ssargent/wowformats/pkg/metrics"
	"github.com/ssargent/wowformats/pkg/storage"
)

// Container holds all the dependencies for the application
type Container struct {
	config  *config.Config
	logger  *logrus.Logger
	metrics *metrics.Metrics
	cache   *layout.Cache

	store  *storage.Store
	tables *loader.Set
}

// NewContainer builds the logger, metrics and layout cache from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	m := metrics.NewMetrics()
	return &Container{
		config:  cfg,
		logger:  logger,
		metrics: m,
		cache:   layout.NewCache(layout.WithLogger(logger), layout.WithMetrics(m)),
	}, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config { return c.config }

// Logger returns the shared logger.
func (c *Container) Logger() *logrus.Logger { return c.logger }

// Metrics returns the shared metrics.
func (c *Container) Metrics() *metrics.Metrics { return c.metrics }

// LayoutCache returns the shared layout cache.
func (c *Container) LayoutCache() *layout.Cache { return c.cache }

// FileOptions returns the options every table is opened with.
func (c *Container) FileOptions() []dbc.Option {
	return []dbc.Option{dbc.WithLogger(c.logger), dbc.WithMetrics(c.metrics)}
}

// Tables loads every known table from the configured data directory once.
func (c *Container) Tables(ctx context.Context) (*loader.Set, error) {
	if c.tables != nil {
		return c.tables, nil
	}
	set, err := loader.LoadDir(ctx, c.config.DataDir, c.config.ClientVersion, c.cache, c.FileOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables from %s: %w", c.config.DataDir, err)
	}
	c.logger.WithFields(logrus.Fields{
		"dir":     c.config.DataDir,
		"version": c.config.ClientVersion,
		"tables":  len(set.Names()),
	}).Info("loaded client tables")
	c.tables = set
	return set, nil
}

// Storage opens the snapshot store once.
func (c *Container) Storage() (*storage.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	store, err := storage.Open(c.config.Export.Dir)
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

// Server builds the API server over the loaded tables and snapshot store.
func (c *Container) Server(ctx context.Context) (*api.Server, error) {
	tables, err := c.Tables(ctx)
	if err != nil {
		return nil, err
	}
	store, err := c.Storage()
	if err != nil {
		return nil, err
	}
	cfg := api.ServerConfig{
		Addr:    c.config.Server.Addr(),
		APIKey:  c.config.Server.APIKey,
		Version: c.config.ClientVersion,
	}
	return api.NewServer(tables, store, cfg, c.metrics, c.logger), nil
}

// Close releases the tables and the snapshot store.
func (c *Container) Close() error {
	var first error
	if c.tables != nil {
		first = c.tables.Close()
		c.tables = nil
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil && first == nil {
			first = err
		}
		c.store = nil
	}
	return first
}
