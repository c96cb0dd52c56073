package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/wowformats/pkg/config"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration file",
		Annotations: map[string]string{skipSetup: "true"},
		Long: `Write a default configuration file with a generated API key for the
browse server.

Examples:
  wowfmt init --data-dir=/games/wow/DBFilesClient
  wowfmt init --config=./wowfmt.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ConfigExists(a.configPath) && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", a.configPath)
			}
			cfg, err := config.BootstrapConfig(a.configPath, a.dataDir)
			if err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", a.configPath)
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
			cmd.Printf("API key: %s\n", cfg.Server.APIKey)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}
