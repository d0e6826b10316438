package service

import (
	"context"
	"strings"

	"github.com/mtlprog/teamtasks/internal/domain"
)

// TagService manages the shared tag catalogue.
type TagService struct {
	tags TagStore
}

// NewTagService creates a new TagService.
func NewTagService(tags TagStore) *TagService {
	return &TagService{tags: tags}
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.List(ctx)
}

// CreateTag adds a tag; names are unique ignoring case.
func (s *TagService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyTagName
	}
	return s.tags.Create(ctx, name)
}
