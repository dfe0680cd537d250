package store

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
)

// GetStock retrieves the stock record for a product.
func (s *Store) GetStock(ctx context.Context, productID int64) (*models.StockRecord, error) {
	var rec models.StockRecord
	err := s.db.GetContext(ctx, &rec,
		"SELECT product_id, product_name, quantity_available, unit_price, last_updated FROM inventory WHERE product_id = $1",
		productID)
	if err == sql.ErrNoRows {
		return nil, httperr.Newf(httperr.KindNotFound, "product %d not found", productID)
	}
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to read stock record")
	}
	return &rec, nil
}

// ListStock retrieves all stock records ordered by product id.
func (s *Store) ListStock(ctx context.Context) ([]models.StockRecord, error) {
	var recs []models.StockRecord
	err := s.db.SelectContext(ctx, &recs,
		"SELECT product_id, product_name, quantity_available, unit_price, last_updated FROM inventory ORDER BY product_id")
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to list stock records")
	}
	return recs, nil
}

// AddProduct inserts a new stock record and returns its product id.
func (s *Store) AddProduct(ctx context.Context, name string, quantity int, unitPrice float64) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		"INSERT INTO inventory (product_name, quantity_available, unit_price) VALUES ($1, $2, $3) RETURNING product_id",
		name, quantity, unitPrice)
	if err != nil {
		return 0, httperr.Wrap(httperr.KindStorage, err, "failed to add product")
	}
	return id, nil
}

// ProductUpdate carries the optional fields of a partial product update.
type ProductUpdate struct {
	Name      *string
	Quantity  *int
	UnitPrice *float64
}

// UpdateProduct applies a partial update to a stock record.
func (s *Store) UpdateProduct(ctx context.Context, productID int64, upd ProductUpdate) error {
	sets := []string{}
	args := []interface{}{}
	n := 1

	add := func(col string, val interface{}) {
		sets = append(sets, col+" = $"+strconv.Itoa(n))
		args = append(args, val)
		n++
	}

	if upd.Name != nil {
		add("product_name", *upd.Name)
	}
	if upd.Quantity != nil {
		add("quantity_available", *upd.Quantity)
	}
	if upd.UnitPrice != nil {
		add("unit_price", *upd.UnitPrice)
	}
	if len(sets) == 0 {
		return httperr.New(httperr.KindValidation, "no update data provided")
	}

	sets = append(sets, "last_updated = NOW()")
	args = append(args, productID)
	query := "UPDATE inventory SET " + strings.Join(sets, ", ") + " WHERE product_id = $" + strconv.Itoa(n)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return httperr.Wrap(httperr.KindStorage, err, "failed to update product")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return httperr.Newf(httperr.KindNotFound, "product %d not found", productID)
	}
	return nil
}

// DeductStock atomically decrements stock for every item or none. Rows
// are locked FOR UPDATE in ascending product id order so concurrent
// multi-item deductions cannot deadlock. Duplicate product ids are
// summed into one line first; otherwise each duplicate would validate
// against the same pre-deduction quantity and the last absolute write
// would win. Every item is validated under its lock before any
// decrement is written.
func (s *Store) DeductStock(ctx context.Context, items []models.ItemRequest) ([]models.StockMovement, error) {
	sorted := aggregateItems(items)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to begin deduction transaction")
	}
	defer tx.Rollback()

	movements := make([]models.StockMovement, 0, len(sorted))
	for _, item := range sorted {
		var current int
		err := tx.GetContext(ctx, &current,
			"SELECT quantity_available FROM inventory WHERE product_id = $1 FOR UPDATE",
			item.ProductID)
		if err == sql.ErrNoRows {
			return nil, httperr.Newf(httperr.KindNotFound, "product %d not found", item.ProductID)
		}
		if err != nil {
			return nil, httperr.Wrap(httperr.KindStorage, err, "failed to lock stock record")
		}

		if current < item.Quantity {
			return nil, httperr.Newf(httperr.KindConflict,
				"insufficient stock for product %d: available=%d, requested=%d",
				item.ProductID, current, item.Quantity)
		}

		movements = append(movements, models.StockMovement{
			ProductID:        item.ProductID,
			PreviousQuantity: current,
			NewQuantity:      current - item.Quantity,
			Deducted:         item.Quantity,
		})
	}

	for _, m := range movements {
		_, err := tx.ExecContext(ctx,
			"UPDATE inventory SET quantity_available = $1, last_updated = NOW() WHERE product_id = $2",
			m.NewQuantity, m.ProductID)
		if err != nil {
			return nil, httperr.Wrap(httperr.KindStorage, err, "failed to deduct stock")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to commit deduction")
	}
	return movements, nil
}

// aggregateItems merges duplicate product ids, summing their
// quantities, and returns one line per product in ascending product id
// order. The input is left untouched.
func aggregateItems(items []models.ItemRequest) []models.ItemRequest {
	totals := make(map[int64]int, len(items))
	for _, item := range items {
		totals[item.ProductID] += item.Quantity
	}

	merged := make([]models.ItemRequest, 0, len(totals))
	for id, quantity := range totals {
		merged = append(merged, models.ItemRequest{ProductID: id, Quantity: quantity})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID < merged[j].ProductID
	})
	return merged
}
