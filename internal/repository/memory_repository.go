package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"shopease-service/internal/entity"
)

//go:embed products.yaml
var sampleProducts []byte

type productSeed struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Discount    int    `yaml:"discount"`
	Rating      int    `yaml:"rating"`
	Stock       int    `yaml:"stock"`
	IsNew       bool   `yaml:"is_new"`
	Category    string `yaml:"category"`
	Image       string `yaml:"image"`
}

// MemoryProductRepository serves a fixed product list held in memory.
type MemoryProductRepository struct {
	products []*entity.Product
}

func NewMemoryProductRepository(products []*entity.Product) *MemoryProductRepository {
	return &MemoryProductRepository{products: products}
}

// NewSampleProductRepository loads the embedded sample catalog.
func NewSampleProductRepository() (*MemoryProductRepository, error) {
	products, err := ParseProducts(sampleProducts)
	if err != nil {
		return nil, err
	}
	return NewMemoryProductRepository(products), nil
}

// ParseProducts decodes a YAML product list and checks each entry.
func ParseProducts(data []byte) ([]*entity.Product, error) {
	var seeds []productSeed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("decode product seed: %w", err)
	}

	seen := make(map[int]bool, len(seeds))
	products := make([]*entity.Product, 0, len(seeds))
	for _, s := range seeds {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: invalid price %q: %w", s.ID, s.Price, err)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("product %d: duplicate id", s.ID)
		}
		seen[s.ID] = true

		p := &entity.Product{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       price,
			Discount:    s.Discount,
			Rating:      s.Rating,
			Stock:       s.Stock,
			IsNew:       s.IsNew,
			Category:    s.Category,
			Image:       s.Image,
		}
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func validateProduct(p *entity.Product) error {
	switch {
	case p.Price.IsNegative():
		return fmt.Errorf("product %d: price must not be negative", p.ID)
	case p.Discount < 0 || p.Discount > 100:
		return fmt.Errorf("product %d: discount must be 0-100", p.ID)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("product %d: rating must be 0-5", p.ID)
	case p.Stock < 0:
		return fmt.Errorf("product %d: stock must not be negative", p.ID)
	}
	return nil
}

func (r *MemoryProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
