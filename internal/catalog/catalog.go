// Package catalog derives categories and filtered product listings from an
// immutable product list.
package catalog

import (
	"fmt"
	"strings"

	"shopease-service/internal/entity"
)

const AllCategories = "All"

type Store struct {
	products   []entity.Product
	byID       map[int]int
	categories []string
}

// NewStore copies products; the store never mutates them afterwards.
func NewStore(products []entity.Product) *Store {
	s := &Store{
		products:   append([]entity.Product(nil), products...),
		byID:       make(map[int]int, len(products)),
		categories: []string{AllCategories},
	}
	seen := map[string]bool{AllCategories: true}
	for i, p := range s.products {
		s.byID[p.ID] = i
		if !seen[p.Category] {
			seen[p.Category] = true
			s.categories = append(s.categories, p.Category)
		}
	}
	return s
}

// Categories returns "All" followed by each category in order of first
// appearance in the product list.
func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}

func (s *Store) Products() []entity.Product {
	return append([]entity.Product(nil), s.products...)
}

func (s *Store) Product(id int) (entity.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return entity.Product{}, false
	}
	return s.products[i], true
}

type Result struct {
	Products []entity.Product
	// Filtered is true when a category or query narrowed the listing, so an
	// empty result can be told apart from an empty catalog.
	Filtered bool
}

func (r Result) NoResults() bool {
	return r.Filtered && len(r.Products) == 0
}

// FilteredProducts keeps products in the category (or any, for "All") whose
// name or description contains query, case-insensitively. Catalog order is
// preserved.
func (s *Store) FilteredProducts(category, query string) Result {
	if category == "" {
		category = AllCategories
	}
	q := strings.ToLower(query)
	res := Result{
		Products: make([]entity.Product, 0, len(s.products)),
		Filtered: category != AllCategories || query != "",
	}
	for _, p := range s.products {
		if category != AllCategories && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		res.Products = append(res.Products, p)
	}
	return res
}

// DisplayTitle is the heading shown above the product grid.
func DisplayTitle(category, query string) string {
	if category != "" && category != AllCategories {
		return category
	}
	if query != "" {
		return fmt.Sprintf("Search: %q", query)
	}
	return "Featured Products"
}
