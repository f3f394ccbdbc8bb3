package restaurant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func line(price string, qty int) OrderItem {
	return OrderItem{MenuItemID: uuid.New(), Name: "item", Price: money(price), Quantity: qty}
}

func rule(min string, max *string, pct string, active bool) DiscountRule {
	r := DiscountRule{ID: uuid.New(), Name: "rule " + min, MinAmount: money(min), Percentage: money(pct), IsActive: active}
	if max != nil {
		m := money(*max)
		r.MaxAmount = &m
	}
	return r
}

func TestComputeTotalsWithoutDiscount(t *testing.T) {
	items := []OrderItem{line("100.00", 2), line("50.00", 1)}

	totals := ComputeTotals(items, nil)

	require.Equal(t, 3, totals.TotalQuantity)
	require.Equal(t, "250.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "6.25", totals.CGST.StringFixed(2))
	require.Equal(t, "6.25", totals.SGST.StringFixed(2))
	require.Nil(t, totals.DiscountRule)
	require.Equal(t, "0.00", totals.Discount.StringFixed(2))
	require.Equal(t, "262.50", totals.GrandTotal.StringFixed(2))
}

func TestComputeTotalsAppliesDiscount(t *testing.T) {
	items := []OrderItem{line("100.00", 2), line("50.00", 1)}
	rules := []DiscountRule{rule("200.00", nil, "10", true)}

	totals := ComputeTotals(items, rules)

	require.NotNil(t, totals.DiscountRule)
	require.Equal(t, "25.00", totals.Discount.StringFixed(2))
	require.Equal(t, "237.50", totals.GrandTotal.StringFixed(2))
}

func TestComputeTotalsHighestMinAmountWins(t *testing.T) {
	items := []OrderItem{line("600.00", 1)}
	loose := rule("100.00", nil, "5", true)
	tight := rule("500.00", nil, "10", true)

	totals := ComputeTotals(items, []DiscountRule{loose, tight})

	require.NotNil(t, totals.DiscountRule)
	require.Equal(t, tight.ID, totals.DiscountRule.ID)
	require.Equal(t, "60.00", totals.Discount.StringFixed(2))
}

func TestComputeTotalsSkipsInactiveAndOutOfBoundsRules(t *testing.T) {
	items := []OrderItem{line("600.00", 1)}
	max := "500.00"
	inactive := rule("100.00", nil, "50", false)
	capped := rule("100.00", &max, "20", true)

	totals := ComputeTotals(items, []DiscountRule{inactive, capped})

	require.Nil(t, totals.DiscountRule)
	require.Equal(t, "0.00", totals.Discount.StringFixed(2))
}

func TestComputeTotalsMaxBoundInclusive(t *testing.T) {
	items := []OrderItem{line("500.00", 1)}
	max := "500.00"
	capped := rule("100.00", &max, "20", true)

	totals := ComputeTotals(items, []DiscountRule{capped})

	require.NotNil(t, totals.DiscountRule)
	require.Equal(t, "100.00", totals.Discount.StringFixed(2))
}

func TestComputeTotalsRoundsEachComponent(t *testing.T) {
	// 33.33 * 3 = 99.99; each tax is 2.49975, rounded half-up to 2.50.
	items := []OrderItem{line("33.33", 3)}

	totals := ComputeTotals(items, nil)

	require.Equal(t, "99.99", totals.Subtotal.StringFixed(2))
	require.Equal(t, "2.50", totals.CGST.StringFixed(2))
	require.Equal(t, "2.50", totals.SGST.StringFixed(2))
	require.Equal(t, "104.99", totals.GrandTotal.StringFixed(2))
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	items := []OrderItem{line("33.33", 3), line("7.77", 2)}
	rules := []DiscountRule{rule("50.00", nil, "12.5", true)}

	first := ComputeTotals(items, rules)
	second := ComputeTotals(items, rules)

	require.True(t, first.Subtotal.Equal(second.Subtotal))
	require.True(t, first.CGST.Equal(second.CGST))
	require.True(t, first.SGST.Equal(second.SGST))
	require.True(t, first.Discount.Equal(second.Discount))
	require.True(t, first.GrandTotal.Equal(second.GrandTotal))
}

func TestApplyWritesRuleReference(t *testing.T) {
	items := []OrderItem{line("300.00", 1)}
	r := rule("200.00", nil, "10", true)

	var o Order
	ComputeTotals(items, []DiscountRule{r}).Apply(&o)
	require.NotNil(t, o.DiscountRuleID)
	require.Equal(t, r.ID, *o.DiscountRuleID)

	// Recomputing without the rule clears the reference.
	ComputeTotals(items, nil).Apply(&o)
	require.Nil(t, o.DiscountRuleID)
	require.Equal(t, "0.00", o.Discount.StringFixed(2))
}
