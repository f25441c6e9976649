package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"canvas-portal/cmd/root"
	"canvas-portal/controllers"
	"canvas-portal/internal/config"
	"canvas-portal/internal/env"
	"canvas-portal/internal/logger"
	"canvas-portal/services"

	"github.com/spf13/cobra"
)

var optListen []string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the portal HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(context.Background()); err != nil {
			logger.Fatal(err)
		}
	},
}

func listenAddrs(cfg config.AppConfig) ([]ListenAddr, error) {
	raw := optListen
	if len(raw) == 0 {
		raw = []string{cfg.Server.Address}
	}
	var addrs []ListenAddr
	for _, a := range raw {
		addr, err := ParseListenAddr(a)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

/**
 * Run the portal until SIGINT/SIGTERM
 * @param {context.Context} ctx - Parent context
 * @returns {error} Startup error
 * @description
 * - Loads the download map, builds the router and serves on every listener
 * - Idle sessions are swept every minute
 * - Shutdown waits up to 10 seconds for in-flight requests
 */
func startServer(ctx context.Context) error {
	server := services.NewServer(config.App, nil)
	if err := server.Init(); err != nil {
		return err
	}

	cfg := config.App()
	addrs, err := listenAddrs(cfg)
	if err != nil {
		return err
	}
	listeners, err := CreateListeners(addrs)
	if len(listeners) == 0 {
		return fmt.Errorf("no listener could be created: %v", err)
	}

	httpServer := &http.Server{
		Handler:           controllers.NewRouter(server, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.Sessions().StartSweeper(ctx, time.Minute)

	names := make([]string, 0, len(listeners))
	errCh := make(chan error, len(listeners))
	for _, l := range listeners {
		names = append(names, l.Addr().String())
		go func(l net.Listener) {
			if err := httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(l)
	}
	env.ListenAddress = strings.Join(names, ",")
	logger.Infof("Canvas portal listening on %s (catalog %s)", env.ListenAddress, cfg.Catalog.BaseUrl)

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		logger.Errorf("Serve failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringArrayVarP(&optListen, "listen", "l", nil, "Listen address, repeatable (host:port or unix:/path)")
	serverCmd.Example = `  canvas server
  canvas server -l :8080 -l unix:/run/canvas.sock`
}
