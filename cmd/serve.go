package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Umesh49/ZeroTrace/internal/audit"
	"github.com/Umesh49/ZeroTrace/internal/config"
	"github.com/Umesh49/ZeroTrace/internal/dashboard"
	"github.com/Umesh49/ZeroTrace/internal/pipeline"
	"github.com/Umesh49/ZeroTrace/internal/server"
)

const shutdownTimeout = 5 * time.Second

var (
	configFile    string
	listenAddr    string
	auditFile     string
	knowledgeFile string
	noDashboard   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ZeroBot HTTP server",
	Long:  "Serve the chat API, the OpenAI-compatible chat completions endpoint and the live dashboard.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configFile, "config", "", "Path to config YAML file")
	serveCmd.Flags().StringVar(&listenAddr, "listen", config.DefaultListen, "Address to listen on")
	serveCmd.Flags().StringVar(&auditFile, "audit-log", "", "Path to audit log file (default: stderr)")
	serveCmd.Flags().StringVar(&knowledgeFile, "knowledge", "", "Path to a knowledge base YAML file (default: built-in)")
	serveCmd.Flags().BoolVar(&noDashboard, "no-dashboard", false, "Disable the real-time dashboard")
}

// serveConfig loads the config file, if any, and applies flag overrides.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = listenAddr
	}
	if flags.Changed("audit-log") {
		cfg.AuditLog = auditFile
	}
	if flags.Changed("knowledge") {
		cfg.KnowledgeFile = knowledgeFile
	}
	if noDashboard {
		cfg.SetDashboard(false)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Level())

	engine, err := loadEngine(cfg.KnowledgeFile)
	if err != nil {
		return err
	}
	counts := engine.Knowledge().Counts()
	logger.Info().
		Str("source", knowledgeSource(cfg.KnowledgeFile)).
		Int("laws", counts["laws"]).
		Int("threats", counts["threats"]).
		Int("emergency_scenarios", counts["emergency_scenarios"]).
		Int("handlers", counts["handlers"]).
		Msg("knowledge base loaded")

	// Set up audit logger
	var auditLogger *audit.Logger
	if cfg.AuditLog != "" {
		auditLogger, err = audit.NewFileLogger(cfg.AuditLog)
		if err != nil {
			return fmt.Errorf("creating audit logger: %w", err)
		}
		logger.Info().Str("path", cfg.AuditLog).Msg("audit log enabled")
	} else {
		auditLogger = audit.NewStderrLogger()
	}
	defer auditLogger.Close()

	pipe := pipeline.New(engine, auditLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *dashboard.Hub
	if cfg.DashboardEnabled() {
		hub = dashboard.NewHub(engine.Knowledge())
		pipe.AddObserver(hub.OnEvent)
		dashboard.Run(ctx, hub)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(pipe, hub, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("listen", cfg.Listen).
		Bool("dashboard", cfg.DashboardEnabled()).
		Msg("starting zerobot server")

	fmt.Fprintf(os.Stderr, "\n  ZeroBot v%s\n", Version)
	fmt.Fprintf(os.Stderr, "  Listen:    %s\n", cfg.Listen)
	fmt.Fprintf(os.Stderr, "  Knowledge: %s\n", knowledgeSource(cfg.KnowledgeFile))
	if hub != nil {
		dashAddr := cfg.Listen
		if strings.HasPrefix(dashAddr, ":") {
			dashAddr = "localhost" + dashAddr
		}
		fmt.Fprintf(os.Stderr, "  Dashboard: http://%s%s/\n", dashAddr, dashboard.Prefix)
	}
	fmt.Fprintln(os.Stderr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Uint64("processed", pipe.Processed()).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func knowledgeSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
