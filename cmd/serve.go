package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourusername/solarlink-recon/config"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reconciliation HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "Apply schema migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")
	if err := cfg.Validate(); err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(context.Background(), db)

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := config.Migrate(db); err != nil {
			return err
		}
	}

	var cache middleware.OperatorCache
	if rdb := config.ConnectRedis(ctx, cfg); rdb != nil {
		defer rdb.Close()
		cache = middleware.NewRedisOperatorCache(rdb)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, db, newService(db), cache),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting SolarLink API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
