package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/teamtasks/internal/domain"
)

var commentColumns = []string{
	"c.id", "c.task_id", "c.author_id", "c.content", "c.created_at", "c.updated_at",
	"u.email", "u.first_name", "u.last_name",
}

// CommentRepository handles database operations for comments.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	var author domain.UserSummary
	err := row.Scan(
		&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&author.Email, &author.FirstName, &author.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	author.ID = c.AuthorID
	c.Author = &author
	return &c, nil
}

func (r *CommentRepository) selectComments() sq.SelectBuilder {
	return psql.
		Select(commentColumns...).
		From("comments c").
		Join("users u ON u.id = c.author_id")
}

func (r *CommentRepository) queryComments(ctx context.Context, qb sq.SelectBuilder) ([]*domain.Comment, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comments query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}
	return comments, nil
}

// GetByID retrieves a comment with its author.
func (r *CommentRepository) GetByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	query, args, err := r.selectComments().Where(sq.Eq{"c.id": commentID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for comment: %w", err)
	}
	return scanComment(r.pool.QueryRow(ctx, query, args...))
}

// ListByTask returns the task's comments, oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	return r.queryComments(ctx, r.selectComments().
		Where(sq.Eq{"c.task_id": taskID}).
		OrderBy("c.created_at ASC"))
}

// ListAll returns every comment, newest first.
func (r *CommentRepository) ListAll(ctx context.Context) ([]*domain.Comment, error) {
	return r.queryComments(ctx, r.selectComments().OrderBy("c.created_at DESC"))
}

// Create inserts a comment.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	query, args, err := psql.
		Insert("comments").
		Columns("task_id", "author_id", "content").
		Values(c.TaskID, c.AuthorID, c.Content).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for comment: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isPgForeignKeyError(err) {
			return nil, fmt.Errorf("%w: task or author reference is missing", domain.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// UpdateContent replaces the comment body.
func (r *CommentRepository) UpdateContent(ctx context.Context, commentID, content string) error {
	query, args, err := psql.
		Update("comments").
		Set("content", content).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateContent query for comment %s: %w", commentID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment.
func (r *CommentRepository) Delete(ctx context.Context, commentID string) error {
	query, args, err := psql.
		Delete("comments").
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for comment %s: %w", commentID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}
