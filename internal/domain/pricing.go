package domain

// EffectivePrice returns the price a single unit sells for, preferring the
// discount price when one is set.
func EffectivePrice(unitPrice int64, discountPrice *int64) int64 {
	if discountPrice != nil && *discountPrice > 0 {
		return *discountPrice
	}
	return unitPrice
}

// LinePrice returns the total charged for a line.
func (li LineItem) LinePrice() int64 {
	if li.Quantity <= 0 {
		return 0
	}
	return li.Quantity * EffectivePrice(li.UnitPrice, li.DiscountPrice)
}

// LineSavings returns how much the discount saves over the undiscounted
// price, never negative.
func (li LineItem) LineSavings() int64 {
	if li.Quantity <= 0 || li.DiscountPrice == nil || *li.DiscountPrice <= 0 {
		return 0
	}
	saved := li.Quantity * (li.UnitPrice - *li.DiscountPrice)
	if saved < 0 {
		return 0
	}
	return saved
}

// OrderTotal sums the line prices and subtracts the coupon amount. The result
// never goes below zero even when the coupon exceeds the subtotal.
func OrderTotal(lines []LineItem, couponAmount int64) int64 {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.LinePrice()
	}
	total := subtotal - couponAmount
	if total < 0 {
		return 0
	}
	return total
}
