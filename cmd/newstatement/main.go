package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arun19061/newstatement/internal/api"
	"github.com/arun19061/newstatement/internal/config"
	"github.com/arun19061/newstatement/internal/stubserver"
	"github.com/arun19061/newstatement/internal/tui"
)

var (
	cfgPath   string
	serveAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newstatement",
		Short: "Terminal dashboard for bank statement reports",
		RunE:  runDashboard,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"path to the config file (default is $HOME/.config/newstatement/config.toml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local statement processing service",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8000", "listen address")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := zerolog.New(logFile).With().Timestamp().Logger()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	client := api.New(cfg.Server.URL, logger)
	return tui.Run(cfg, client, logger, cwd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	srv := stubserver.New(logger, stubserver.Config{Addr: serveAddr})
	return srv.Start()
}
