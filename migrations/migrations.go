package migrations

import (
	"database/sql"
	"time"
)

// AutoMigrateProducts creates the products table if it does not exist,
// retrying each database up to retries times.
func AutoMigrateProducts(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			discount INT NOT NULL DEFAULT 0,
			rating INT NOT NULL DEFAULT 0,
			stock INT NOT NULL,
			is_new TINYINT(1) NOT NULL DEFAULT 0,
			category VARCHAR(100) NOT NULL,
			image VARCHAR(512) NOT NULL DEFAULT ''
		);
	`
	for _, db := range dbs {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
