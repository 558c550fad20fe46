package model

// Product represents a line item of the cart being checked out.
type Product struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description,omitempty" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Image       string  `json:"image,omitempty" db:"image_url"`
}

// ShippingOption is a delivery quote for a postal code.
type ShippingOption struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	EstimatedDays int     `json:"estimatedDays"`
	Description   string  `json:"description,omitempty"`
}

// AddressLookup is the partial address resolved from a postal code.
type AddressLookup struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// DiscountType selects how a coupon's value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a coupon record as returned by the coupon lookup.
type Coupon struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	MinPurchase   *float64     `json:"minPurchase,omitempty"`
}

// CouponApplication is the outcome of a successfully applied coupon.
type CouponApplication struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discountAmount"`
}
