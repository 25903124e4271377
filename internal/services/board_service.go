package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/isdelr/bulletin-board/internal/models"
)

// MaxBoardNameLength bounds the board name column.
const MaxBoardNameLength = 20

// BoardServiceProvider defines the interface for board services.
type BoardServiceProvider interface {
	GetAllBoards(ctx context.Context) ([]models.Board, error)
	GetBoardByID(ctx context.Context, id int64) (models.Board, error)
	CreateBoard(ctx context.Context, name string, order int) (models.Board, error)
	DeleteBoard(ctx context.Context, id int64) error
}

// BoardService provides business logic for board management.
type BoardService struct {
	db           *sql.DB
	eventService EventServiceProvider
}

// NewBoardService creates a new BoardService.
func NewBoardService(db *sql.DB, eventService EventServiceProvider) *BoardService {
	return &BoardService{db: db, eventService: eventService}
}

// GetAllBoards lists boards ascending by sort order; ties keep creation order.
func (s *BoardService) GetAllBoards(ctx context.Context) ([]models.Board, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, sort_order, date_created FROM boards ORDER BY sort_order ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []models.Board{}
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.Order, &b.DateCreated); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// GetBoardByID retrieves a single board by its ID.
func (s *BoardService) GetBoardByID(ctx context.Context, id int64) (models.Board, error) {
	var b models.Board
	row := s.db.QueryRowContext(ctx, "SELECT id, name, sort_order, date_created FROM boards WHERE id = ?", id)
	if err := row.Scan(&b.ID, &b.Name, &b.Order, &b.DateCreated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Board{}, fmt.Errorf("board with ID %d: %w", id, ErrNotFound)
		}
		return models.Board{}, err
	}
	return b, nil
}

// CreateBoard adds a new board.
func (s *BoardService) CreateBoard(ctx context.Context, name string, order int) (models.Board, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return models.Board{}, &ValidationError{Field: "name", Message: "This field is required."}
	case utf8.RuneCountInString(name) > MaxBoardNameLength:
		return models.Board{}, &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("Ensure this value has at most %d characters.", MaxBoardNameLength),
		}
	case order < 0:
		return models.Board{}, &ValidationError{Field: "order", Message: "Ensure this value is greater than or equal to 0."}
	}

	b := models.Board{Name: name, Order: order, DateCreated: time.Now().UTC()}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO boards(name, sort_order, date_created) VALUES(?, ?, ?)", b.Name, b.Order, b.DateCreated)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.Board{}, &ValidationError{Field: "name", Message: "A board with that name already exists."}
		}
		return models.Board{}, err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return models.Board{}, err
	}

	RecordEvent(ctx, s.eventService, EventBoardCreate, "info", fmt.Sprintf("Board '%s' created.", b.Name), nil)
	return b, nil
}

// DeleteBoard removes a board; its posts remain with a null board.
func (s *BoardService) DeleteBoard(ctx context.Context, id int64) error {
	board, err := s.GetBoardByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM boards WHERE id = ?", id); err != nil {
		return err
	}
	RecordEvent(ctx, s.eventService, EventBoardDelete, "warn", fmt.Sprintf("Board '%s' was deleted.", board.Name), nil)
	return nil
}
