// Command messaging-mcp exposes the messaging gateway as MCP tools:
// download_media, send_text, list_chats, and instance_status.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate/internal/config"
	"github.com/toolgate/toolgate/internal/gateway"
	"github.com/toolgate/toolgate/internal/logger"
	"github.com/toolgate/toolgate/internal/media"
	mcpgw "github.com/toolgate/toolgate/internal/mcp"
	mediaprovider "github.com/toolgate/toolgate/internal/mcp/providers/media"
	messageprovider "github.com/toolgate/toolgate/internal/mcp/providers/message"
	"github.com/toolgate/toolgate/internal/server"
	"github.com/toolgate/toolgate/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Error("messaging-mcp failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		httpAddr   string
	)
	cmd := &cobra.Command{
		Use:           "messaging-mcp",
		Short:         "MCP server for the messaging gateway",
		Version:       version.GetInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, httpAddr)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to the TOML config file")
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve over streamable HTTP on this address instead of stdio")
	return cmd
}

func run(ctx context.Context, configPath, httpAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.L

	client, err := gateway.NewClient(log, gateway.Options{
		BaseURL:           cfg.Gateway.BaseURL,
		APIKey:            cfg.Gateway.APIKey,
		Timeout:           time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Gateway.RequestsPerSecond,
	})
	if err != nil {
		return err
	}
	materializer := media.NewService(log, client, cfg.Media.DownloadFolder).
		WithDefaultInstance(cfg.Gateway.DefaultInstance)

	session := mcpgw.ToolSessionContext{InstanceID: cfg.Gateway.DefaultInstance}
	registry := mcpgw.NewToolRegistry()
	if err := registry.RegisterExecutor(ctx, session, mediaprovider.NewExecutor(log, materializer)); err != nil {
		return err
	}
	if err := registry.RegisterExecutor(ctx, session, messageprovider.NewExecutor(log, client, client, client)); err != nil {
		return err
	}

	srv := mcpgw.NewServer("messaging-mcp", version.GetInfo())
	if err := mcpgw.AttachRegistry(log, srv, registry, session); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if httpAddr != "" {
		return serveHTTP(ctx, log, httpAddr, srv)
	}
	log.Info("serving MCP over stdio", slog.String("version", version.GetInfo()))
	return srv.Run(ctx, &gomcp.StdioTransport{})
}

func serveHTTP(ctx context.Context, log *slog.Logger, addr string, srv *gomcp.Server) error {
	handler := gomcp.NewStreamableHTTPHandler(func(_ *http.Request) *gomcp.Server {
		return srv
	}, nil)
	httpSrv := server.NewServer(log, addr, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Start()
	}()
	log.Info("serving MCP over HTTP", slog.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Stop(shutdownCtx)
	}
}
