package cli

import (
	"database/sql"
	"fmt"

	"github.com/isdelr/bulletin-board/internal/config"
	"github.com/isdelr/bulletin-board/internal/database"
	"github.com/isdelr/bulletin-board/internal/logger"
	"github.com/isdelr/bulletin-board/internal/services"
)

// app bundles the opened database and the services built on it.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	events *services.EventService
	users  *services.UserService
	boards *services.BoardService
	posts  *services.PostService
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply database migrations: %w", err)
	}

	events := services.NewEventService(db)
	return &app{
		cfg:    cfg,
		db:     db,
		events: events,
		users:  services.NewUserService(db, events),
		boards: services.NewBoardService(db, events),
		posts:  services.NewPostService(db, events),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
