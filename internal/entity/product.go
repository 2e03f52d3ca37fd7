package entity

import "github.com/shopspring/decimal"

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    int             `json:"discount"` // percent, 0-100
	Rating      int             `json:"rating"`   // stars, 0-5
	Stock       int             `json:"stock"`
	IsNew       bool            `json:"is_new"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// UnitPrice is the price after the percentage discount. It is not rounded.
func (p Product) UnitPrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	off := decimal.NewFromInt(int64(p.Discount)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(decimal.NewFromInt(1).Sub(off))
}

/*
Schema MySQL for product table:
CREATE TABLE `products` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `name` varchar(255) NOT NULL,
  `description` text NOT NULL,
  `price` decimal(10,2) NOT NULL,
  `discount` int(11) NOT NULL DEFAULT 0,
  `rating` int(11) NOT NULL DEFAULT 0,
  `stock` int(11) NOT NULL,
  `is_new` tinyint(1) NOT NULL DEFAULT 0,
  `category` varchar(100) NOT NULL,
  `image` varchar(512) NOT NULL DEFAULT '',
  PRIMARY KEY (`id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
