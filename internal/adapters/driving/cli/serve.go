package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finwatch/findetect/internal/adapters/driving/httpapi"
	"github.com/finwatch/findetect/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the process_file HTTP endpoint",
	Long: `Starts the HTTP server exposing GET /api/process_file. Callers
authenticate with Azure Functions style keys, passed as the "code" query
parameter or the "x-functions-key" header. Keys come from the
"server.keys" configuration list; with no keys configured the endpoint
is anonymous.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, else :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if processor == nil {
		return errors.New("processor not configured")
	}

	addr := serveAddr
	var keys []string
	if configStore != nil {
		if addr == "" {
			addr = configStore.GetString("server.addr")
		}
		keys = configStore.GetStringSlice("server.keys")
	}
	if addr == "" {
		addr = ":8080"
	}

	server := httpapi.NewServer(addr, keys, processor)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if len(keys) == 0 {
		logger.Warn("No function keys configured, endpoint is anonymous")
	}
	cmd.Printf("Serving on %s (Ctrl-C to stop)\n", server.Addr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		cmd.Println("\nShutting down...")
	case err := <-server.Err():
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
