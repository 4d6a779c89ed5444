package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prateekydv01/portfolio/internal/config"
	"github.com/prateekydv01/portfolio/internal/contact"
	"github.com/prateekydv01/portfolio/internal/content"
	"github.com/prateekydv01/portfolio/internal/server"
	"github.com/prateekydv01/portfolio/internal/session"
	"github.com/prateekydv01/portfolio/internal/view"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		if cfg.AccessKey == "" {
			log.Println("Warning: WEB3FORMS_ACCESS_KEY is not set, contact messages will fail to send")
		}

		site, err := content.Load()
		if err != nil {
			return fmt.Errorf("loading content: %w", err)
		}
		views, err := view.New(site)
		if err != nil {
			return fmt.Errorf("parsing templates: %w", err)
		}

		store, err := session.Open(cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Drop idle sessions periodically
		go store.RunSweeper(ctx, cfg.SweepInterval)

		relay := contact.NewRelay(cfg.RelayEndpoint, cfg.AccessKey, &http.Client{Timeout: cfg.RelayTimeout})
		srv := server.New(store, views, site.Catalog, relay, server.Options{ImagesDir: cfg.ImagesDir})

		httpServer := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			log.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during shutdown: %v", err)
			}
		}()

		log.Printf("Server starting on port %s (%d projects)", cfg.Port, site.Catalog.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
