package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fleetfin/internal/auth"
	intconfig "fleetfin/internal/config"
	router "fleetfin/internal/http"
	"fleetfin/internal/services"
	"fleetfin/internal/utils"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("app-addr", "", "listen address (default :8080)")
	cmd.Flags().String("gin-mode", "", "gin mode: debug, release or test")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if err := a.connect(ctx, true); err != nil {
		return err
	}
	defer intconfig.CloseDB()

	users := services.UserService{Tokens: auth.NewTokens(a.env.JWTSecret, a.env.TokenTTL)}
	if _, err := users.EnsureBootstrapAdmin(ctx, a.env.AdminUsername, a.env.AdminPassword); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.env.AppAddr,
		Handler:           router.NewRouter(a.env),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		utils.Log().Info("server listening", zap.String("addr", a.env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errc:
		return err
	case <-quit.Done():
	}

	utils.Log().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.env.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	utils.Log().Info("server stopped")
	return nil
}
