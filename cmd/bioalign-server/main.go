// Command bioalign-server provides a REST API for sequence alignment.
//
// Usage:
//
//	bioalign-server [flags]
//
// Flags:
//
//	--port     Port to listen on (default: 8080)
//	--host     Host to bind to (default: localhost)
//	--timeout  Per-request alignment timeout (default: 60s)
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/bioalign-go/api/handlers"
	"github.com/aria-lang/bioalign-go/api/middleware"
	"github.com/aria-lang/bioalign-go/internal/logutil"
	"github.com/aria-lang/bioalign-go/pkg/bioflow"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bioalign-server",
	Short: "REST API for DNA sequence alignment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		quiet, _ := cmd.Flags().GetBool("quiet")
		logutil.SetVerbosity(verbose, quiet)

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		return serve(fmt.Sprintf("%s:%d", host, port), newRouter(timeout))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logutil.Log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringP("host", "", "localhost", "host to bind to")
	rootCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	rootCmd.Flags().DurationP("timeout", "", 60*time.Second, "per-request timeout")
	rootCmd.Flags().BoolP("verbose", "v", false, "log debug information")
	rootCmd.Flags().BoolP("quiet", "", false, "only log errors")
}

func newRouter(timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(bioflow.Info()))
	})

	r.Route("/api", handlers.Mount)
	return r
}

func serve(addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logutil.Log.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		done <- server.Shutdown(ctx)
	}()

	logutil.Log.Infof("bioalign API server starting on http://%s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrapf(err, "listening on %s", addr)
	}

	if err := <-done; err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	logutil.Log.Info("server stopped")
	return nil
}
