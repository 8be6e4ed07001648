// enrollchat serves the course-enrollment chat assistant: a Gemini-backed
// conversation loop that executes enrollment actions through an external MCP
// tool server spawned over stdio, behind a small JSON HTTP surface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/enrollchat/enrollchat/internal/agent"
	"github.com/enrollchat/enrollchat/internal/config"
	"github.com/enrollchat/enrollchat/internal/core"
	"github.com/enrollchat/enrollchat/internal/gemini"
	"github.com/enrollchat/enrollchat/internal/middleware"
	"github.com/enrollchat/enrollchat/internal/server"
	"github.com/enrollchat/enrollchat/internal/session"
	"github.com/enrollchat/enrollchat/internal/store"
	"github.com/enrollchat/enrollchat/internal/toolserver"
)

func main() {
	var configDir string
	var addr string

	root := &cobra.Command{
		Use:   "enrollchat",
		Short: "Course-enrollment chat assistant server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New(configDir)
			if addr != "" {
				cfg.ListenAddr = addr
			}
			return run(cfg)
		},
	}
	root.Flags().StringVar(&configDir, "config-dir", "", "config directory (default $ENROLLCHAT_CONFIG_DIR or ~/.config/enrollchat)")
	root.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.GoogleAIAPIKey == "" {
		return fmt.Errorf("Google AI API key not set: add to config or set GOOGLE_AI_API_KEY")
	}
	if cfg.MCPServerCommand == "" {
		return fmt.Errorf("tool server command not set: add to config or set ENROLLCHAT_MCP_COMMAND")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	toolClient := toolserver.NewClient(cfg.MCPServerCommand)
	defer toolClient.Close()
	var tools core.ToolClient = toolClient
	if cfg.ToolOutputMaxRunes > 0 {
		tools = middleware.NewTruncatingToolClient(toolClient, cfg.ToolOutputMaxRunes)
	}

	model := gemini.NewClient(cfg.GoogleAIAPIKey, cfg.Model)
	sessions := session.NewStore()

	orch := agent.NewOrchestrator(model, tools, sessions, db)
	orch.MaxToolTurns = cfg.MaxToolTurns

	srv := &server.Server{
		Addr:         cfg.ListenAddr,
		Orchestrator: orch,
		Sessions:     sessions,
		DB:           db,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
