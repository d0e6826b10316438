package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, Limit: 100}, PageRequest{Page: 3, Limit: 500}.Normalize())
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, 21, PageRequest{Page: 1, Limit: 10})

	assert.NotNil(t, page.Data)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
