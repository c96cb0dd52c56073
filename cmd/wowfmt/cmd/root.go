package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ssargent/wowformats/pkg/config"
	"github.com/ssargent/wowformats/pkg/definitions"
	"github.com/ssargent/wowformats/pkg/di"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

const skipSetup = "skip-setup"

// app carries the global flags and the container built from them.
type app struct {
	configPath    string
	clientVersion string
	dataDir       string
	logLevel      string

	container *di.Container
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wowfmt",
		Short: "wowfmt - client data file toolkit",
		Long: `wowfmt resolves version-aware record layouts for client database
tables and decodes, exports and serves their rows.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] != "" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.GetDefaultConfigPath(), "Path to the configuration file")
	flags.StringVar(&a.clientVersion, "version", "", "Client version (classic, tbc, wotlk, cata, ...)")
	flags.StringVarP(&a.dataDir, "data-dir", "d", "", "Directory holding the client's .dbc files")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(a),
		newLayoutCmd(a),
		newDumpCmd(a),
		newScanCmd(a),
		newExportCmd(a),
		newSnapshotsCmd(a),
		newServeCmd(a),
		newChunksCmd(a),
	)

	// Release tables and the snapshot store whether or not the command failed.
	for _, sub := range rootCmd.Commands() {
		run := sub.RunE
		if run == nil {
			continue
		}
		sub.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := a.close(); err == nil {
					err = cerr
				}
			}()
			return run(cmd, args)
		}
	}
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	switch {
	case config.ConfigExists(a.configPath):
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	case cmd.Flags().Changed("config"):
		return fmt.Errorf("config file does not exist: %s", a.configPath)
	}

	if a.clientVersion != "" {
		v, err := version.Parse(a.clientVersion)
		if err != nil {
			return err
		}
		cfg.ClientVersion = v
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	c, err := di.NewContainer(cfg)
	if err != nil {
		return err
	}
	c.Logger().SetOutput(cmd.ErrOrStderr())
	c.Logger().WithFields(log.Fields{
		"version":  cfg.ClientVersion,
		"data_dir": cfg.DataDir,
	}).Debug("configuration loaded")

	a.container = c
	return nil
}

func (a *app) close() error {
	if a.container == nil {
		return nil
	}
	err := a.container.Close()
	a.container = nil
	return err
}

func lookupSchema(table string) (*schema.Schema, error) {
	s, ok := definitions.Lookup(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q (known: %s)", table, strings.Join(definitions.Tables(), ", "))
	}
	return s, nil
}
