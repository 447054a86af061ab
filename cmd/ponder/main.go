// Command ponder serves a sequential thinking history as MCP tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zoobzio/ponder"
	"github.com/zoobzio/ponder/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()

	root := &cobra.Command{
		Use:          "ponder",
		Short:        "Sequential thinking MCP server",
		Version:      server.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport: stdio or http (env PONDER_TRANSPORT)")
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for the http transport (env PONDER_ADDR)")
	flags.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL DSN for archiving cleared sessions (env PONDER_DATABASE_URL)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (env PONDER_LOG_LEVEL)")

	root.AddCommand(newSessionsCmd(&cfg))
	return root
}

func serve(ctx context.Context, cfg config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	// stdout belongs to the stdio transport
	log, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	unhook := hookSignals(log)
	defer unhook()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	archiver, closeArchive, err := openArchiver(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeArchive()

	store := ponder.NewStore()
	s := server.New(store, archiver)

	log.Info().
		Str("transport", cfg.Transport).
		Bool("archive", archiver != nil).
		Str("session_id", store.SessionID()).
		Msg("starting " + server.Name)

	switch cfg.Transport {
	case transportHTTP:
		return serveHTTP(ctx, log, s, cfg.Addr)
	default:
		return serveStdio(ctx, s)
	}
}

func serveStdio(ctx context.Context, s *mcpserver.MCPServer) error {
	return mcpserver.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
}

func serveHTTP(ctx context.Context, log zerolog.Logger, s *mcpserver.MCPServer, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(s, mcpserver.WithStateLess(true))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

// openArchiver connects to PostgreSQL when a DSN is configured. Without one
// it returns a nil archiver and a no-op close.
func openArchiver(dsn string) (*ponder.Archiver, func(), error) {
	archive, err := openArchive(dsn)
	if err != nil || archive == nil {
		return nil, noop, err
	}
	return ponder.NewArchiver(archive), func() { _ = archive.Close() }, nil
}

func openArchive(dsn string) (*ponder.SoyArchive, error) {
	if dsn == "" {
		return nil, nil
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}
	archive, err := ponder.NewSoyArchive(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return archive, nil
}

func noop() {}
