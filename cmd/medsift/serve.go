package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medsift/medsift/internal/certs"
	"github.com/medsift/medsift/internal/pipeline"
	"github.com/medsift/medsift/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		useTLS  bool
		certDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction pipeline over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			full, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			direct, err := pipeline.NewDirect(cfg)
			if err != nil {
				return err
			}

			if viper.IsSet("server.addr") && !cmd.Flags().Changed("addr") {
				addr = viper.GetString("server.addr")
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(cfg, full, direct),
				ReadHeaderTimeout: 5 * time.Second,
			}

			if useTLS {
				cert, err := certs.NewStore(certDir).Load()
				if err != nil {
					return fmt.Errorf("provisioning TLS certificate: %w", err)
				}
				srv.TLSConfig = &tls.Config{
					Certificates: []tls.Certificate{cert},
					MinVersion:   tls.VersionTLS12,
				}
			}

			errChan := make(chan error, 1)
			go func() {
				slog.Info("listening", "addr", addr, "tls", useTLS)
				if useTLS {
					errChan <- srv.ListenAndServeTLS("", "")
					return
				}
				errChan <- srv.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutting down: %w", err)
				}
				return nil
			case err := <-errChan:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&useTLS, "tls", false, "serve over HTTPS with a self-signed localhost certificate")
	cmd.Flags().StringVar(&certDir, "cert-dir", defaultCertDir(), "directory holding the TLS certificate pair")

	return cmd
}

func defaultCertDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".medsift/certs"
	}
	return filepath.Join(home, ".config", "medsift", "certs")
}
