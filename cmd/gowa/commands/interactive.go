package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dantte-lp/gowa"
)

// metricsShutdownTimeout bounds how long the metrics HTTP server is
// given to drain on exit.
const metricsShutdownTimeout = 5 * time.Second

// interactiveCmd runs a simple read-eval-print loop: each line of
// stdin is "<number> <text>" and is sent as a one-to-one text message;
// inbound stanzas are dispatched and routed as they arrive (spec.md
// §6). The Prometheus metrics endpoint, if configured, is served for
// the lifetime of the session.
func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Log in and exchange messages from stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInteractive()
		},
	}
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("interactive: %w", err)
	}

	client, err := dial(context.Background())
	if err != nil {
		return fmt.Errorf("interactive: %w", err)
	}
	defer client.Close()

	fmt.Println("logged in. type \"<number> <text>\" to send, Ctrl-D to quit.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	metricsSrv := newMetricsServer(cfg.Metrics.Addr, cfg.Metrics.Path)

	g.Go(func() error {
		return runMetricsServer(gCtx, metricsSrv)
	})

	g.Go(func() error {
		return runServiceLoop(gCtx, client)
	})

	g.Go(func() error {
		defer stop()
		return readAndSend(gCtx, client)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// newMetricsServer mirrors the daemon's metrics server: a single
// promhttp handler mounted at cfg.Path.
func newMetricsServer(addr, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func runMetricsServer(ctx context.Context, srv *http.Server) error {
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

// runServiceLoop drives inbound stanza processing; each ServiceLoop
// call blocks for up to the session's poll timeout, so this does not
// spin.
func runServiceLoop(ctx context.Context, client *gowa.Client) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := client.ServiceLoop(); err != nil {
				return fmt.Errorf("service loop: %w", err)
			}
		}
	}
}

func readAndSend(ctx context.Context, client *gowa.Client) error {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			if err := sendInteractiveLine(client, line); err != nil {
				fmt.Fprintln(os.Stderr, "send:", err)
			}
		}
	}
}

func sendInteractiveLine(client *gowa.Client, line string) error {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected \"<number> <text>\", got %q", line)
	}

	_, err := client.Message(parts[0], parts[1])

	return err
}
