// Package pricing implements the weight-tiered price calculator.
//
// Products are priced linearly by weight: a product lists a base price
// for a base weight, and any purchasable weight costs
// basePrice * weight / baseWeight. All arithmetic stays on decimals at
// full precision; rounding to two decimals happens only at the
// persistence and presentation boundary.
package pricing

import (
	"github.com/shopspring/decimal"
)

// UnitPrice returns the price of the given weight in grams for a
// product priced at basePrice per baseWeight grams. A non-positive
// baseWeight yields zero.
func UnitPrice(basePrice decimal.Decimal, baseWeight, weight int) decimal.Decimal {
	if baseWeight <= 0 || weight <= 0 {
		return decimal.Zero
	}
	return basePrice.
		Mul(decimal.NewFromInt(int64(weight))).
		Div(decimal.NewFromInt(int64(baseWeight)))
}

// LineTotal multiplies the unit price by the ordered quantity without
// rounding. Callers round the result with Round2 before persisting.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// ValidStepWeight reports whether weight sits on the product's weight
// ladder: baseWeight plus a non-negative number of steps.
func ValidStepWeight(weight, baseWeight, step int) bool {
	if baseWeight <= 0 || step <= 0 {
		return false
	}
	if weight < baseWeight {
		return false
	}
	return (weight-baseWeight)%step == 0
}
