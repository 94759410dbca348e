package domain

import (
	"strings"
	"time"
)

// Money values are int64 minor units (cents).

// OrderStatus tracks the fulfilment stage of a finalized order.
type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "open"
	OrderStatusPlaced     OrderStatus = "placed"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusRefundOpen OrderStatus = "refund_requested"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// PaymentOption identifies the payment method chosen at checkout.
type PaymentOption string

const (
	PaymentStripe PaymentOption = "stripe"
	PaymentPaypal PaymentOption = "paypal"
)

// KnownPaymentOption reports whether the value is an accepted payment option.
func KnownPaymentOption(value string) (PaymentOption, bool) {
	switch PaymentOption(strings.ToLower(strings.TrimSpace(value))) {
	case PaymentStripe:
		return PaymentStripe, true
	case PaymentPaypal:
		return PaymentPaypal, true
	}
	return "", false
}

// Item is a read-only catalog entry.
type Item struct {
	ID            string  `firestore:"id" json:"id"`
	Title         string  `firestore:"title" json:"title"`
	Slug          string  `firestore:"slug" json:"slug"`
	Price         int64   `firestore:"price" json:"price"`
	DiscountPrice *int64  `firestore:"discountPrice,omitempty" json:"discount_price,omitempty"`
	CategoryID    string  `firestore:"categoryId" json:"category_id"`
	TagIDs        []string `firestore:"tagIds,omitempty" json:"tag_ids,omitempty"`
	Description   string  `firestore:"description" json:"description"`
	CreatedAt     time.Time `firestore:"createdAt" json:"created_at"`
}

// Category groups catalog items.
type Category struct {
	ID   string `firestore:"id" json:"id"`
	Name string `firestore:"name" json:"name"`
	Slug string `firestore:"slug" json:"slug"`
}

// Tag is a freeform label attached to items.
type Tag struct {
	ID    string `firestore:"id" json:"id"`
	Title string `firestore:"title" json:"title"`
	Color string `firestore:"color" json:"color"`
	Slug  string `firestore:"slug" json:"slug"`
}

// LineItem records a quantity of one item held by one user. Unit prices are
// captured from the catalog when the line is written so later catalog edits
// do not change an order's history.
type LineItem struct {
	ID            string    `firestore:"id" json:"id"`
	UserID        string    `firestore:"userId" json:"user_id"`
	ItemID        string    `firestore:"itemId" json:"item_id"`
	Quantity      int64     `firestore:"quantity" json:"quantity"`
	Ordered       bool      `firestore:"ordered" json:"ordered"`
	UnitPrice     int64     `firestore:"unitPrice" json:"unit_price"`
	DiscountPrice *int64    `firestore:"discountPrice,omitempty" json:"discount_price,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt" json:"created_at"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updated_at"`
}

// Order aggregates a user's line items. At most one order per user has
// Ordered=false; that order is the cart.
type Order struct {
	ID                string        `firestore:"id" json:"id"`
	UserID            string        `firestore:"userId" json:"user_id"`
	RefCode           string        `firestore:"refCode" json:"ref_code"`
	LineItemIDs       []string      `firestore:"lineItemIds" json:"line_item_ids"`
	StartDate         time.Time     `firestore:"startDate" json:"start_date"`
	OrderedDate       *time.Time    `firestore:"orderedDate,omitempty" json:"ordered_date,omitempty"`
	Ordered           bool          `firestore:"ordered" json:"ordered"`
	ShippingAddressID string        `firestore:"shippingAddressId,omitempty" json:"shipping_address_id,omitempty"`
	PaymentOption     PaymentOption `firestore:"paymentOption,omitempty" json:"payment_option,omitempty"`
	CouponCode        string        `firestore:"couponCode,omitempty" json:"coupon_code,omitempty"`
	CouponAmount      int64         `firestore:"couponAmount" json:"coupon_amount"`
	Status            OrderStatus   `firestore:"status" json:"status"`
	RefundRequested   bool          `firestore:"refundRequested" json:"refund_requested"`
	RefundGranted     bool          `firestore:"refundGranted" json:"refund_granted"`
}

// HasLineItem reports whether the order references the given line.
func (o Order) HasLineItem(lineItemID string) bool {
	for _, id := range o.LineItemIDs {
		if id == lineItemID {
			return true
		}
	}
	return false
}

// AttachLineItem appends the line ID when not already present.
func (o *Order) AttachLineItem(lineItemID string) {
	if o.HasLineItem(lineItemID) {
		return
	}
	o.LineItemIDs = append(o.LineItemIDs, lineItemID)
}

// DetachLineItem removes the line ID when present.
func (o *Order) DetachLineItem(lineItemID string) {
	filtered := o.LineItemIDs[:0]
	for _, id := range o.LineItemIDs {
		if id != lineItemID {
			filtered = append(filtered, id)
		}
	}
	o.LineItemIDs = filtered
}

// Address is a shipping address captured at checkout.
type Address struct {
	ID            string `firestore:"id" json:"id"`
	UserID        string `firestore:"userId" json:"user_id"`
	StreetAddress string `firestore:"streetAddress" json:"street_address"`
	Country       string `firestore:"country" json:"country"`
	Zip           string `firestore:"zip,omitempty" json:"zip,omitempty"`
	Default       bool   `firestore:"default" json:"default"`
}

// Coupon is a flat discount applied to an order total.
type Coupon struct {
	Code   string `firestore:"code" json:"code"`
	Amount int64  `firestore:"amount" json:"amount"`
}

// Refund tracks a refund request for a finalized order.
type Refund struct {
	ID        string    `firestore:"id" json:"id"`
	OrderID   string    `firestore:"orderId" json:"order_id"`
	Reason    string    `firestore:"reason" json:"reason"`
	Email     string    `firestore:"email" json:"email"`
	Accepted  bool      `firestore:"accepted" json:"accepted"`
	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
}
