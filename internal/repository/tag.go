package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/teamtasks/internal/domain"
)

// TagRepository handles database operations for tags.
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	query, args, err := psql.
		Select("id", "name", "created_at").
		From("tags").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for tags: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag rows: %w", err)
	}
	return tags, nil
}

// Create inserts a tag. Names are unique case-insensitively.
func (r *TagRepository) Create(ctx context.Context, name string) (*domain.Tag, error) {
	query, args, err := psql.
		Insert("tags").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for tag: %w", err)
	}

	var tag domain.Tag
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
		if isPgDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTagExists, name)
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &tag, nil
}

// CountExisting returns how many of the given IDs reference stored tags.
func (r *TagRepository) CountExisting(ctx context.Context, tagIDs []string) (int, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	query, args, err := psql.
		Select("COUNT(*)").
		From("tags").
		Where(sq.Eq{"id": tagIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build CountExisting query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}
