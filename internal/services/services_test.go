package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/isdelr/bulletin-board/internal/database"
	"github.com/isdelr/bulletin-board/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Helpers
// =============================================================================

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

type testServices struct {
	db     *sql.DB
	events *EventService
	users  *UserService
	boards *BoardService
	posts  *PostService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)
	events := NewEventService(db)
	users := NewUserService(db, events)
	users.SetHashCost(bcrypt.MinCost)
	return &testServices{
		db:     db,
		events: events,
		users:  users,
		boards: NewBoardService(db, events),
		posts:  NewPostService(db, events),
	}
}

func mustCreateUser(t *testing.T, s *testServices, username, password string) models.User {
	t.Helper()
	u, err := s.users.CreateUser(context.Background(), username, password)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u
}

func mustCreateBoard(t *testing.T, s *testServices, name string, order int) models.Board {
	t.Helper()
	b, err := s.boards.CreateBoard(context.Background(), name, order)
	if err != nil {
		t.Fatalf("CreateBoard(%q): %v", name, err)
	}
	return b
}

// mockEventService records events in memory.
type mockEventService struct {
	createFunc func(ctx context.Context, eventType, level, message string, userID *int64) error
	created    []string
}

func (m *mockEventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *int64) error {
	m.created = append(m.created, eventType)
	if m.createFunc != nil {
		return m.createFunc(ctx, eventType, level, message, userID)
	}
	return nil
}

func (m *mockEventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	return nil, nil
}
