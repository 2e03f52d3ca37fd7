package repository

import (
	"context"
	"database/sql"

	"shopease-service/internal/entity"
)

const productColumns = `id, name, description, price, discount, rating, stock, is_new, category, image`

// MySQLProductRepository reads the catalog from the products table.
type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.Rating, &p.Stock, &p.IsNew, &p.Category, &p.Image)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	var products []*entity.Product

	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		if err := validateProduct(product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// SeedProducts inserts products that are not in the table yet, in one
// transaction.
func (r *MySQLProductRepository) SeedProducts(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}

	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Build the batch insert
	query := `INSERT IGNORE INTO products (` + productColumns + `) VALUES `
	var values []interface{}
	for _, p := range products {
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?),"
		values = append(values, p.ID, p.Name, p.Description, p.Price, p.Discount, p.Rating, p.Stock, p.IsNew, p.Category, p.Image)
	}

	// Remove the trailing comma
	query = query[:len(query)-1]

	_, err = tx.ExecContext(ctx, query, values...)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
