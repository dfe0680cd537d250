package service

import (
	"context"
	"time"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
	"fulfillment/internal/redisclient"
	"fulfillment/internal/store"
	"fulfillment/internal/util"

	"go.uber.org/zap"
)

// InventoryService owns the stock ledger: availability checks, the
// atomic multi-item deduction, and the admin product operations.
type InventoryService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewInventoryService creates an inventory service. cache may be nil;
// checks then always go to the database.
func NewInventoryService(store *store.Store, cache *redisclient.Client) *InventoryService {
	return &InventoryService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Check returns the stock snapshot for a product, served from the
// cache when warm. The snapshot is advisory; only Deduct's row lock is
// authoritative.
func (s *InventoryService) Check(ctx context.Context, productID int64) (*models.StockRecord, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Check")
	defer span.End()

	if s.cache != nil {
		rec, err := s.cache.GetStock(ctx, productID)
		if err == nil {
			util.StockCacheHits.Inc()
			rec.InStock = rec.QuantityAvailable > 0
			return rec, nil
		}
		if err != redisclient.ErrCacheMiss {
			s.logger.Warn("Stock cache read failed, falling back to DB",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}
	util.StockCacheMisses.Inc()

	rec, err := s.store.GetStock(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetStock(ctx, rec); err != nil {
			s.logger.Warn("Failed to cache stock record",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}

	rec.InStock = rec.QuantityAvailable > 0
	return rec, nil
}

// Deduct decrements stock for every item or none. On success the cached
// snapshots of the touched products are invalidated.
func (s *InventoryService) Deduct(ctx context.Context, items []models.ItemRequest) ([]models.StockMovement, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Deduct")
	defer span.End()

	start := time.Now()
	defer func() {
		util.StockDeductionLatency.Observe(time.Since(start).Seconds())
	}()

	movements, err := s.store.DeductStock(ctx, items)
	if err != nil {
		util.StockDeductionsFailedTotal.WithLabelValues(httperr.KindOf(err).String()).Inc()
		return nil, err
	}

	util.StockDeductionsTotal.Inc()
	s.invalidate(ctx, items)

	s.logger.Info("Stock deducted",
		zap.Int("items", len(movements)))
	return movements, nil
}

// List returns every stock record.
func (s *InventoryService) List(ctx context.Context) ([]models.StockRecord, error) {
	recs, err := s.store.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].InStock = recs[i].QuantityAvailable > 0
	}
	return recs, nil
}

// Add inserts a new product and returns its id.
func (s *InventoryService) Add(ctx context.Context, name string, quantity int, unitPrice float64) (int64, error) {
	id, err := s.store.AddProduct(ctx, name, quantity, unitPrice)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Product added",
		zap.Int64("product_id", id),
		zap.String("product_name", name))
	return id, nil
}

// Update applies a partial product update and drops the cached record.
func (s *InventoryService) Update(ctx context.Context, productID int64, upd store.ProductUpdate) error {
	if err := s.store.UpdateProduct(ctx, productID, upd); err != nil {
		return err
	}
	s.invalidate(ctx, []models.ItemRequest{{ProductID: productID}})
	return nil
}

func (s *InventoryService) invalidate(ctx context.Context, items []models.ItemRequest) {
	if s.cache == nil {
		return
	}
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	if err := s.cache.InvalidateStock(ctx, ids...); err != nil {
		s.logger.Warn("Failed to invalidate stock cache", zap.Error(err))
	}
}
