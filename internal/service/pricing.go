package service

import (
	"context"
	"math"

	"fulfillment/internal/models"
	"fulfillment/internal/util"

	"go.uber.org/zap"
)

// DefaultRegion is the tax-rate row that always exists.
const DefaultRegion = "Default"

// fallbackTaxRate is used only when the rate table itself is unreachable.
const fallbackTaxRate = 10.0

// PricingData is the slice of storage the pricing calculation reads.
// *store.Store satisfies it.
type PricingData interface {
	UnitPrice(ctx context.Context, productID int64) (float64, bool, error)
	RulesForProduct(ctx context.Context, productID int64) ([]models.PricingRule, error)
	TaxRateFor(ctx context.Context, region string) (float64, bool, error)
}

// PricingService computes per-item discounts and regional tax. The
// calculation is a pure function of the request and the rule/rate
// tables; it holds no state between requests.
type PricingService struct {
	data   PricingData
	logger *zap.Logger
}

// NewPricingService creates a pricing service.
func NewPricingService(data PricingData) *PricingService {
	return &PricingService{
		data:   data,
		logger: util.GetLogger(),
	}
}

// Calculate prices an item list for a region. Items whose product is
// unknown are skipped. Only the final total is rounded; per-item values
// keep full precision.
func (s *PricingService) Calculate(ctx context.Context, items []models.ItemRequest, region string) (*models.PricingResult, error) {
	ctx, span := util.StartSpan(ctx, "PricingService.Calculate")
	defer span.End()

	util.PricingCalculationsTotal.Inc()

	if region == "" {
		region = DefaultRegion
	}
	taxRate := s.resolveTaxRate(ctx, region)

	result := &models.PricingResult{Items: make([]models.PricedItem, 0, len(items))}
	for _, item := range items {
		unitPrice, ok, err := s.data.UnitPrice(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Warn("Skipping unknown product in pricing request",
				zap.Int64("product_id", item.ProductID))
			continue
		}

		rules, err := s.data.RulesForProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		priced := priceItem(item, unitPrice, selectDiscount(rules, item.Quantity), taxRate)
		result.Items = append(result.Items, priced)
		result.FinalTotal += priced.Total
	}

	result.FinalTotal = round2(result.FinalTotal)
	return result, nil
}

// resolveTaxRate returns the region's rate, the Default row's rate, or
// the hard-coded fallback when the rate table is unreachable.
func (s *PricingService) resolveTaxRate(ctx context.Context, region string) float64 {
	rate, ok, err := s.data.TaxRateFor(ctx, region)
	if err != nil {
		s.logger.Warn("Tax rate table unreachable, using fallback rate",
			zap.String("region", region),
			zap.Error(err))
		return fallbackTaxRate
	}
	if ok {
		return rate
	}

	rate, ok, err = s.data.TaxRateFor(ctx, DefaultRegion)
	if err != nil || !ok {
		return fallbackTaxRate
	}
	return rate
}

// selectDiscount picks the rule with the highest min_quantity not
// exceeding the requested quantity; ties go to the higher discount.
// No matching rule means no discount.
func selectDiscount(rules []models.PricingRule, quantity int) float64 {
	var best models.PricingRule
	found := false
	for _, r := range rules {
		if r.MinQuantity > quantity {
			continue
		}
		if !found ||
			r.MinQuantity > best.MinQuantity ||
			(r.MinQuantity == best.MinQuantity && r.DiscountPercentage > best.DiscountPercentage) {
			best = r
			found = true
		}
	}
	if !found {
		return 0
	}
	return best.DiscountPercentage
}

// priceItem applies discount then tax to one item. Subtotal is carried
// post-discount, pre-tax.
func priceItem(item models.ItemRequest, unitPrice, discountPct, taxRate float64) models.PricedItem {
	subtotal := unitPrice * float64(item.Quantity)
	discountAmount := subtotal * discountPct / 100
	net := subtotal - discountAmount
	taxAmount := net * taxRate / 100

	return models.PricedItem{
		ProductID:          item.ProductID,
		Quantity:           item.Quantity,
		UnitPrice:          unitPrice,
		Subtotal:           net,
		DiscountPercentage: discountPct,
		TaxAmount:          taxAmount,
		Total:              net + taxAmount,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
