package store

import (
	"context"
	"database/sql"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
)

// UnitPrice returns the current unit price of a product. The second
// return is false when the product is unknown.
func (s *Store) UnitPrice(ctx context.Context, productID int64) (float64, bool, error) {
	var price float64
	err := s.db.GetContext(ctx, &price,
		"SELECT unit_price FROM inventory WHERE product_id = $1", productID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, httperr.Wrap(httperr.KindStorage, err, "failed to read unit price")
	}
	return price, true, nil
}

// RulesForProduct returns every pricing rule for a product.
func (s *Store) RulesForProduct(ctx context.Context, productID int64) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := s.db.SelectContext(ctx, &rules,
		"SELECT id, product_id, min_quantity, discount_percentage FROM pricing_rules WHERE product_id = $1",
		productID)
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to read pricing rules")
	}
	return rules, nil
}

// TaxRateFor returns the tax rate for a region. The second return is
// false when the region has no row.
func (s *Store) TaxRateFor(ctx context.Context, region string) (float64, bool, error) {
	var rate float64
	err := s.db.GetContext(ctx, &rate,
		"SELECT tax_rate FROM tax_rates WHERE region = $1", region)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, httperr.Wrap(httperr.KindStorage, err, "failed to read tax rate")
	}
	return rate, true, nil
}
