package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopease-service/internal/entity"
)

func sample() []entity.Product {
	price := decimal.RequireFromString("10")
	return []entity.Product{
		{ID: 1, Name: "Wireless Headphones", Description: "Noise-cancelling", Category: "Electronics", Price: price},
		{ID: 2, Name: "Coffee Maker", Description: "Built-in grinder", Category: "Kitchen", Price: price},
		{ID: 3, Name: "Smart Watch", Description: "Fitness tracker with WIRELESS sync", Category: "Electronics", Price: price},
		{ID: 4, Name: "Yoga Mat", Description: "Non-slip", Category: "Fitness", Price: price},
		{ID: 5, Name: "Water Bottle", Description: "Insulated", Category: "Kitchen", Price: price},
	}
}

func ids(ps []entity.Product) []int {
	var out []int
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestCategoriesFirstOccurrenceOrder(t *testing.T) {
	s := NewStore(sample())
	assert.Equal(t, []string{"All", "Electronics", "Kitchen", "Fitness"}, s.Categories())
}

func TestCategoriesEmptyCatalog(t *testing.T) {
	assert.Equal(t, []string{"All"}, NewStore(nil).Categories())
}

func TestFilteredProductsAllEmptyReturnsCatalog(t *testing.T) {
	s := NewStore(sample())
	res := s.FilteredProducts(AllCategories, "")

	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(res.Products))
	assert.False(t, res.Filtered)
	assert.False(t, res.NoResults())
}

func TestFilteredProductsCaseInsensitiveNameOrDescription(t *testing.T) {
	s := NewStore(sample())

	assert.Equal(t, []int{1, 3}, ids(s.FilteredProducts(AllCategories, "wireless").Products))
	assert.Equal(t, []int{3}, ids(s.FilteredProducts("Electronics", "fitness").Products))
	assert.Equal(t, []int{2, 5}, ids(s.FilteredProducts("Kitchen", "").Products))
}

func TestFilteredProductsNoMatch(t *testing.T) {
	s := NewStore(sample())
	res := s.FilteredProducts("Fitness", "coffee")

	assert.Empty(t, res.Products)
	assert.True(t, res.NoResults())
}

func TestFilteredProductsQueryIsSubsetOfCategory(t *testing.T) {
	s := NewStore(sample())
	for _, cat := range s.Categories() {
		base := map[int]bool{}
		for _, p := range s.FilteredProducts(cat, "").Products {
			base[p.ID] = true
		}
		for _, q := range []string{"a", "wire", "SMART", "zzz", "in"} {
			for _, p := range s.FilteredProducts(cat, q).Products {
				assert.True(t, base[p.ID], "category %s query %s returned %d", cat, q, p.ID)
			}
		}
	}
}

func TestProductLookup(t *testing.T) {
	s := NewStore(sample())
	p, ok := s.Product(4)
	require.True(t, ok)
	assert.Equal(t, "Yoga Mat", p.Name)

	_, ok = s.Product(99)
	assert.False(t, ok)
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Kitchen", DisplayTitle("Kitchen", "mug"))
	assert.Equal(t, `Search: "mug"`, DisplayTitle("All", "mug"))
	assert.Equal(t, "Featured Products", DisplayTitle("All", ""))
}
