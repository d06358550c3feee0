package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/nlpserve/internal/logger"
	"github.com/bastiangx/nlpserve/pkg/config"
	"github.com/bastiangx/nlpserve/pkg/engine"
	"github.com/bastiangx/nlpserve/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const shutdownGrace = 10 * time.Second

var (
	serveHost     string
	servePort     int
	serveDict     string
	serveWindow   int
	serveEngine   string
	serveUpstream string
	serveStyle    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Long: `Start the gateway on the configured host and port. Flags override the
config file; a config file with every route is required.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDict, "dict", "", "Custom dictionary file (.txt, .dict or .bin)")
	serveCmd.Flags().IntVar(&serveWindow, "max-window", 0, "Default dictionary window for add_words")
	serveCmd.Flags().StringVar(&serveEngine, "engine", "", "Engine name (lexicon or remote)")
	serveCmd.Flags().StringVar(&serveUpstream, "upstream", "", "Upstream base URL for the remote engine")
	serveCmd.Flags().StringVar(&serveStyle, "style", "", "Response style (envelope or legacy)")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config and applies the flags that were set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, path, err := config.LoadWithPriority(configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Infof("Using config file: ( %s )", path)
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = serveHost
	}
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("dict") {
		cfg.Engine.DictPath = serveDict
	}
	if flags.Changed("max-window") {
		cfg.MaxWindow = serveWindow
	}
	if flags.Changed("engine") {
		cfg.Engine.Name = serveEngine
	}
	if flags.Changed("upstream") {
		cfg.Engine.Upstream = serveUpstream
	}
	if flags.Changed("style") {
		cfg.EnvelopeStyle = serveStyle
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Timestamp, debugMode)
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	adapter, err := engine.New(cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, adapter)
	if err != nil {
		return err
	}

	showStartupInfo(cfg)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdown:
		log.Info("Received shutdown signal", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Info("Server stopped")
	return nil
}

// showStartupInfo prints a short summary regardless of the log level.
func showStartupInfo(cfg *config.Config) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	println("===========")
	println(" NLPServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("engine: %s", cfg.Engine.Name)
	log.Infof("listening: ( http://%s )", cfg.Addr())
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")
}
