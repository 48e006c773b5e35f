package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-layers-mcp/internal/codec"
	"github.com/ironsheep/image-layers-mcp/internal/config"
	"github.com/ironsheep/image-layers-mcp/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Uint64Var(
		&config.Config.Effects.MosaicSeed, "seed",
		config.Config.Effects.MosaicSeed, "Mosaic random seed (0 seeds from the clock)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP requests on stdin/stdout (default)",
	RunE:  runServe,
}

// serverOptions maps the loaded configuration onto server options.
func serverOptions() (server.Options, error) {
	f, err := codec.ParseFormat(config.Config.Files.DefaultFormat)
	if err != nil {
		return server.Options{}, err
	}
	return server.Options{
		Version:          Version,
		MosaicSeed:       config.Config.Effects.MosaicSeed,
		PreviewMaxWidth:  config.Config.Preview.MaxWidth,
		PreviewMaxHeight: config.Config.Preview.MaxHeight,
		DefaultFormat:    f,
		Cache:            config.Config.Files.Cache,
	}, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	opts, err := serverOptions()
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Info("starting image layers MCP server")

	if err := server.New(opts).Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
