package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/server"
)

var (
	serveHost    string
	servePort    int
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the highlighting HTTP API",
	Long: `Serve highlighting over HTTP.

Endpoints:
  GET  /api/health     status, version, uptime and rule fingerprint
  GET  /api/rules      the active rule table
  POST /api/highlight  {"code": "...", "format": "html" | "segments"}
  POST /api/page       an HTML document; returns it with code blocks highlighted
  GET  /metrics        Prometheus metrics

Examples:
  glint serve
  glint serve --port 9000 --verbose
  curl -s localhost:7878/api/highlight -d '{"code":"let x = 1"}'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "address to bind (overrides server.host)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "print log entries to stderr")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveVerbose {
		mirrorLogs(ctx, cmd.ErrOrStderr())
	}

	rt, err := newRuntime(cfg, runtimeOptions{metrics: true})
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
		Processor:    rt.processor,
		Page:         rt.pageOptions(),
		Metrics:      rt.metrics,
		Tracer:       rt.tracing.Tracer(),
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	out := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(out, "glint serving on http://%s\n", net.JoinHostPort(host, strconv.Itoa(srv.Port())))
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(out, "\nShutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.ErrorErr(log.CatServer, "Error stopping API server", err)
	}
	return nil
}
