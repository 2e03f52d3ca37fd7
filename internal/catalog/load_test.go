package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopease-service/internal/entity"
	"shopease-service/internal/repository"
)

type brokenRepository struct{}

func (brokenRepository) GetProducts(context.Context) ([]*entity.Product, error) {
	return nil, errors.New("connection refused")
}

func TestLoadSampleCatalog(t *testing.T) {
	repo, err := repository.NewSampleProductRepository()
	require.NoError(t, err)

	store, err := Load(context.Background(), repo)
	require.NoError(t, err)
	assert.NotEmpty(t, store.Products())
	assert.Equal(t, AllCategories, store.Categories()[0])

	p, ok := store.Product(1)
	require.True(t, ok)
	assert.NotEmpty(t, p.Name)
}

func TestLoadPropagatesRepositoryError(t *testing.T) {
	_, err := Load(context.Background(), brokenRepository{})
	assert.ErrorContains(t, err, "connection refused")
}
