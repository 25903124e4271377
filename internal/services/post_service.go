package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/bulletin-board/internal/models"
)

// MaxTitleLength bounds the post title column.
const MaxTitleLength = 200

// NewPost carries the user-editable fields of a post plus its author.
type NewPost struct {
	BoardID  *int64
	AuthorID *int64
	Title    string
	Content  string
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsForBoard(ctx context.Context, boardID int64) ([]models.Post, error)
	GetPostByID(ctx context.Context, id int64) (models.Post, error)
	CreatePost(ctx context.Context, p NewPost) (models.Post, error)
	IncrementViews(ctx context.Context, id int64) error
	SetNotice(ctx context.Context, id int64, notice bool) error
}

// PostService provides business logic for post management.
type PostService struct {
	db           *sql.DB
	eventService EventServiceProvider
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, eventService EventServiceProvider) *PostService {
	return &PostService{db: db, eventService: eventService}
}

// Notices first, then newest first. id breaks ties between equal timestamps.
const postOrdering = " ORDER BY p.is_notice DESC, p.date_created DESC, p.id DESC"

const postSelect = `
	SELECT p.id, p.board_id, b.name, p.author_id, u.username, p.title, p.content,
	       p.is_notice, p.views, p.date_created, p.date_modified
	FROM posts p
	LEFT JOIN boards b ON b.id = p.board_id
	LEFT JOIN users u ON u.id = p.author_id`

func scanPost(scanner interface{ Scan(...any) error }) (models.Post, error) {
	var p models.Post
	var boardID, authorID sql.NullInt64
	var boardName, authorName sql.NullString
	err := scanner.Scan(&p.ID, &boardID, &boardName, &authorID, &authorName, &p.Title, &p.Content,
		&p.IsNotice, &p.Views, &p.DateCreated, &p.DateModified)
	if err != nil {
		return models.Post{}, err
	}
	if boardID.Valid {
		p.BoardID = &boardID.Int64
	}
	if authorID.Valid {
		p.AuthorID = &authorID.Int64
	}
	p.BoardName = boardName.String
	p.AuthorName = authorName.String
	return p, nil
}

func (s *PostService) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetAllPosts lists every post in default order.
func (s *PostService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return s.queryPosts(ctx, postSelect+postOrdering)
}

// GetPostsForBoard lists a board's posts in default order.
func (s *PostService) GetPostsForBoard(ctx context.Context, boardID int64) ([]models.Post, error) {
	return s.queryPosts(ctx, postSelect+" WHERE p.board_id = ?"+postOrdering, boardID)
}

// GetPostByID retrieves a single post by its ID.
func (s *PostService) GetPostByID(ctx context.Context, id int64) (models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+" WHERE p.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, fmt.Errorf("post with ID %d: %w", id, ErrNotFound)
		}
		return models.Post{}, err
	}
	return p, nil
}

// CreatePost persists a new post. Notice flag and view counter start at
// their defaults; callers validate the input first.
func (s *PostService) CreatePost(ctx context.Context, np NewPost) (models.Post, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts(board_id, author_id, title, content, is_notice, views, date_created, date_modified)
		VALUES(?, ?, ?, ?, 0, 0, ?, ?)`,
		np.BoardID, np.AuthorID, np.Title, np.Content, now, now)
	if err != nil {
		return models.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, err
	}

	RecordEvent(ctx, s.eventService, EventPostCreate, "info", fmt.Sprintf("Post '%s' created.", np.Title), np.AuthorID)
	return s.GetPostByID(ctx, id)
}

// IncrementViews bumps the view counter in a single statement so concurrent
// readers never lose an update.
func (s *PostService) IncrementViews(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE posts SET views = views + 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetNotice pins or unpins a post.
func (s *PostService) SetNotice(ctx context.Context, id int64, notice bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET is_notice = ?, date_modified = ? WHERE id = ?", notice, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post with ID %d: %w", id, ErrNotFound)
	}
	RecordEvent(ctx, s.eventService, EventPostNotice, "info", fmt.Sprintf("Post %d notice set to %t.", id, notice), nil)
	return nil
}
