package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/teamtasks/internal/domain"
)

func TestCreateTag(t *testing.T) {
	tags := new(mockTagStore)
	svc := NewTagService(tags)
	tags.On("Create", mock.Anything, "backend").Return(&domain.Tag{ID: "t1", Name: "backend"}, nil)

	tag, err := svc.CreateTag(context.Background(), "  backend ")

	require.NoError(t, err)
	assert.Equal(t, "t1", tag.ID)
}

func TestCreateTag_EmptyName(t *testing.T) {
	tags := new(mockTagStore)
	svc := NewTagService(tags)

	_, err := svc.CreateTag(context.Background(), " ")

	assert.ErrorIs(t, err, domain.ErrEmptyTagName)
	tags.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTag_Duplicate(t *testing.T) {
	tags := new(mockTagStore)
	svc := NewTagService(tags)
	tags.On("Create", mock.Anything, "Backend").Return(nil, domain.ErrTagExists)

	_, err := svc.CreateTag(context.Background(), "Backend")

	assert.ErrorIs(t, err, domain.ErrTagExists)
}
