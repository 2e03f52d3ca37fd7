package catalog

import (
	"context"
	"fmt"

	"shopease-service/internal/entity"
	"shopease-service/internal/repository"
)

// Load reads the product list once from repo and builds the store.
func Load(ctx context.Context, repo repository.ProductRepository) (*Store, error) {
	products, err := repo.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	list := make([]entity.Product, 0, len(products))
	for _, p := range products {
		list = append(list, *p)
	}
	return NewStore(list), nil
}
