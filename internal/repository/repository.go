package repository

import (
	"context"

	"shopease-service/internal/entity"
)

// ProductRepository is the source the catalog is loaded from at startup.
// Lookups by id are served from the loaded catalog.
type ProductRepository interface {
	GetProducts(ctx context.Context) ([]*entity.Product, error)
}
