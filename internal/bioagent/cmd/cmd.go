// Package cmd implements the bioagent command line interface.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiosk404/bioagent/internal/bioagent/config"
	"github.com/kiosk404/bioagent/internal/bioagent/options"
	"github.com/kiosk404/bioagent/pkg/logger"
)

// NewBioAgentCommand creates the root `bioagent` command.
func NewBioAgentCommand() *cobra.Command {
	opts := options.NewOptions()
	var cfgFile string

	cmds := &cobra.Command{
		Use:   "bioagent",
		Short: "bioagent is a biomedical research assistant driven by MCP tool servers",
		Long: heredoc.Doc(`
			bioagent connects a chat model to biomedical MCP tool servers
			(literature, genomics, clinical databases) and drives research
			sessions that combine model reasoning with live tool calls.

			Server connections are configured in an mcp.json file compatible
			with the Claude Desktop format.`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfigFile(cfgFile); err != nil {
				return err
			}
			if err := viper.Unmarshal(opts); err != nil {
				return fmt.Errorf("failed to apply configuration: %w", err)
			}
			logger.SetLevel(opts.LogLevel)
			if opts.LogFile != "" {
				if err := logger.InitLog(opts.LogFile); err != nil {
					return err
				}
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	flags := cmds.PersistentFlags()
	opts.AddFlags(flags)
	flags.StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.bioagent/config.yaml).")
	_ = viper.BindPFlags(flags)

	cmds.AddCommand(
		NewCmdChat(opts),
		NewCmdTools(opts),
		NewCmdServers(opts),
		NewCmdExport(opts),
	)

	return cmds
}

// loadConfigFile reads the YAML config into viper. A missing default config
// file is fine; an explicitly named one must exist.
func loadConfigFile(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %q: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(home, ".bioagent"))
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// createConfig validates the options into the running configuration.
func createConfig(opts *options.Options) (*config.Config, error) {
	return config.CreateConfigFromOptions(opts)
}
