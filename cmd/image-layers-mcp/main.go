package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-layers-mcp/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "image-layers-mcp",
	Short: "MCP server for layered raster image editing",
	Long: `image-layers-mcp serves a layer stack over the MCP protocol on stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).`,
	PersistentPreRunE: appPersistentPreRun,
	SilenceUsage:      true,
	RunE:              runServe,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file (YAML)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&config.Config.Main.LogLevel, "level", "l",
		config.Config.Main.LogLevel, "Log level",
	)
}

func appPersistentPreRun(cmd *cobra.Command, _ []string) error {
	// Flags win over the file and the environment
	flagLevel := config.Config.Main.LogLevel
	levelSet := cmd.Flags().Changed("level")

	if err := config.LoadConfiguration(configPath); err != nil {
		return fmt.Errorf("error loading configuration (%w)", err)
	}
	if levelSet {
		config.Config.Main.LogLevel = flagLevel
	}

	// Enforce debug in dev mode
	if config.Config.Main.DevMode {
		config.Config.Main.LogLevel = "debug"
	}

	// Logs go to stderr; stdout carries the protocol
	log.SetOutput(os.Stderr)
	lvl, err := log.ParseLevel(config.Config.Main.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	if config.Config.Main.DevMode {
		log.SetFormatter(&log.TextFormatter{
			ForceColors: true,
		})
		log.SetOutput(colorable.NewColorableStderr())
	}
	log.WithField("log_level", lvl).Debug()

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
