// Command openapi-mcp bridges an OpenAPI 3 document to MCP: every operation
// in the document becomes a tool whose calls are proxied as real HTTP requests.
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
	"github.com/toolgate/toolgate/internal/logger"
	mcpgw "github.com/toolgate/toolgate/internal/mcp"
	"github.com/toolgate/toolgate/internal/openapi"
	"github.com/toolgate/toolgate/internal/server"
	"github.com/toolgate/toolgate/internal/version"
)

type options struct {
	configPath  string
	httpAddr    string
	specRef     string
	baseURL     string
	bearerToken string
	tag         string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Error("openapi-mcp failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "openapi-mcp",
		Short:         "Expose an OpenAPI 3 document as MCP tools",
		Version:       version.GetInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultConfigPath, "path to the TOML config file")
	cmd.Flags().StringVar(&opts.httpAddr, "http", "", "serve over streamable HTTP on this address instead of stdio")
	cmd.Flags().StringVar(&opts.specRef, "spec", "", "OpenAPI document URL or file path (overrides config)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "target API base URL (overrides the document's servers)")
	cmd.Flags().StringVar(&opts.bearerToken, "bearer-token", "", "bearer token for proxied requests")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "only expose operations carrying this OpenAPI tag")
	return cmd
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.L

	specRef := opts.specRef
	if specRef == "" {
		specRef = cfg.OpenAPI.SpecURL
	}
	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = cfg.OpenAPI.BaseURL
	}
	token := opts.bearerToken
	if token == "" {
		token = cfg.OpenAPI.BearerToken
	}
	tag := opts.tag
	if tag == "" {
		tag = cfg.OpenAPI.Tag
	}

	doc, err := openapi.Load(ctx, specRef, baseURL)
	if err != nil {
		return err
	}
	doc = doc.FilterByTag(tag)
	log.Info("loaded openapi document",
		slog.String("title", doc.Title),
		slog.String("version", doc.Version),
		slog.Int("operations", len(doc.Operations())),
	)

	invoker := openapi.NewInvoker(log, doc, openapi.InvokerOptions{
		BearerToken: token,
		Timeout:     time.Duration(cfg.OpenAPI.TimeoutSeconds) * time.Second,
	})

	session := mcpgw.ToolSessionContext{}
	registry := mcpgw.NewToolRegistry()
	if err := registry.RegisterExecutor(ctx, session, openapi.NewExecutor(log, doc, invoker)); err != nil {
		return err
	}

	srv := mcpgw.NewServer("openapi-mcp", version.GetInfo())
	if err := mcpgw.AttachRegistry(log, srv, registry, session); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.httpAddr != "" {
		return serveHTTP(ctx, log, opts.httpAddr, srv)
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
