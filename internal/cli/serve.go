package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/isdelr/bulletin-board/internal/api"
	"github.com/isdelr/bulletin-board/internal/auth"
	"github.com/isdelr/bulletin-board/internal/views"
	"github.com/isdelr/bulletin-board/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE:  withApp(runServe),
	}
}

func runServe(cmd *cobra.Command, _ []string, a *app) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	router := api.NewRouter(api.Deps{
		Users:          a.users,
		Boards:         a.boards,
		Posts:          a.posts,
		Events:         a.events,
		Sessions:       auth.NewSessions(a.cfg.JWTSecret, a.cfg.SessionTTL, a.cfg.IsProduction()),
		Views:          renderer,
		Hub:            hub,
		AllowedOrigins: a.cfg.AllowedOrigins,
		Production:     a.cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", a.cfg.ServerPort).Msg("Server starting")
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

	log.Info().Msg("Shutting down server...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("Server exiting")
	return nil
}
