package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with all settings documented",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			printInfo(cfgFile)
			return nil
		}
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		printInfo(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := config.WriteTemplate(path, configInitForce); err != nil {
		return err
	}
	printInfo("Wrote " + path)
	return nil
}
