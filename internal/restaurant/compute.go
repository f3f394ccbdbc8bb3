package restaurant

import "github.com/shopspring/decimal"

// taxRate is applied twice: CGST and SGST are each 2.5% of the subtotal,
// rounded independently.
var taxRate = decimal.NewFromFloat(0.025)

var oneHundred = decimal.NewFromInt(100)

// Totals is the full derived state of an order, a pure function of its
// line items and the active discount rules.
type Totals struct {
	TotalQuantity  int
	Subtotal       decimal.Decimal
	CGST           decimal.Decimal
	SGST           decimal.Decimal
	DiscountRule   *DiscountRule
	Discount       decimal.Decimal
	GrandTotal     decimal.Decimal
}

// SelectDiscountRule picks the applicable rule for a subtotal: among active
// rules whose bounds admit the subtotal, the one with the highest
// MinAmount. Returns nil when none apply.
func SelectDiscountRule(rules []DiscountRule, subtotal decimal.Decimal) *DiscountRule {
	var selected *DiscountRule
	for i := range rules {
		rule := &rules[i]
		if !rule.Admits(subtotal) {
			continue
		}
		if selected == nil || rule.MinAmount.GreaterThan(selected.MinAmount) {
			selected = rule
		}
	}
	return selected
}

// ComputeTotals recomputes order totals from scratch. Every rounding step
// is explicit and independent: each tax component and the discount are
// rounded to 2 decimals (half-up) before entering the grand total, so
// recomputation on an unchanged item set is exactly idempotent.
func ComputeTotals(items []OrderItem, rules []DiscountRule) Totals {
	var t Totals
	t.Subtotal = decimal.Zero
	for _, item := range items {
		t.TotalQuantity += item.Quantity
		t.Subtotal = t.Subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	t.Subtotal = t.Subtotal.Round(2)

	t.CGST = t.Subtotal.Mul(taxRate).Round(2)
	t.SGST = t.Subtotal.Mul(taxRate).Round(2)

	t.Discount = decimal.Zero.Round(2)
	if rule := SelectDiscountRule(rules, t.Subtotal); rule != nil {
		t.DiscountRule = rule
		t.Discount = t.Subtotal.Mul(rule.Percentage).Div(oneHundred).Round(2)
	}

	t.GrandTotal = t.Subtotal.Add(t.CGST).Add(t.SGST).Sub(t.Discount).Round(2)
	return t
}

// Apply writes the computed totals onto an order.
func (t Totals) Apply(o *Order) {
	o.TotalQuantity = t.TotalQuantity
	o.Subtotal = t.Subtotal
	o.CGST = t.CGST
	o.SGST = t.SGST
	o.Discount = t.Discount
	o.GrandTotal = t.GrandTotal
	o.DiscountRuleID = nil
	if t.DiscountRule != nil {
		id := t.DiscountRule.ID
		o.DiscountRuleID = &id
	}
}
