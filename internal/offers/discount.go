package offers

import (
	"github.com/shopspring/decimal"
	"github.com/trailperks/trailperks-server/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeDiscount maps an offer and purchase amount to the discount and final
// amounts. A nil purchase amount is treated as zero. The discount never
// exceeds the purchase amount, so the final amount cannot go negative.
func ComputeDiscount(offer *models.Offer, purchaseAmount *decimal.Decimal) (discount, final decimal.Decimal) {
	if offer == nil || purchaseAmount == nil {
		return decimal.Zero, decimal.Zero
	}
	amount := *purchaseAmount
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	if offer.MinPurchaseAmount != nil && amount.LessThan(*offer.MinPurchaseAmount) {
		return decimal.Zero, amount
	}

	var raw decimal.Decimal
	switch offer.DiscountType {
	case models.DiscountPercentage:
		raw = amount.Mul(offer.DiscountValue).Div(oneHundred)
	case models.DiscountFixedAmount:
		raw = offer.DiscountValue
	default:
		raw = decimal.Zero
	}
	if raw.IsNegative() {
		raw = decimal.Zero
	}

	if offer.MaxDiscountAmount != nil && raw.GreaterThan(*offer.MaxDiscountAmount) {
		raw = *offer.MaxDiscountAmount
	}
	if raw.GreaterThan(amount) {
		raw = amount
	}

	discount = raw.Round(2)
	final = amount.Sub(discount)
	return discount, final
}
