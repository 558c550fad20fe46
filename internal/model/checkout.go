package model

// CustomerInfo identifies the buyer.
type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ShippingAddress is the delivery address.
type ShippingAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
}

// DefaultCountry is used for new shipping addresses.
const DefaultCountry = "Brasil"

// PaymentMethod is one of the supported ways to pay.
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentPix    PaymentMethod = "pix"
	PaymentBoleto PaymentMethod = "boleto"
)

// PaymentMethods lists every method in display order.
var PaymentMethods = []PaymentMethod{PaymentCredit, PaymentDebit, PaymentPix, PaymentBoleto}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCredit, PaymentDebit, PaymentPix, PaymentBoleto:
		return true
	}
	return false
}

// IsCard reports whether the method requires card details.
func (m PaymentMethod) IsCard() bool {
	return m == PaymentCredit || m == PaymentDebit
}

// PaymentInfo holds the chosen payment method and, for cards, the card details.
type PaymentInfo struct {
	Method       PaymentMethod `json:"method"`
	CardNumber   string        `json:"cardNumber,omitempty"`
	CardName     string        `json:"cardName,omitempty"`
	ExpiryDate   string        `json:"expiryDate,omitempty"`
	CVV          string        `json:"cvv,omitempty"`
	Installments int           `json:"installments,omitempty"`
}

// CheckoutData is the immutable snapshot handed to the payment processor.
type CheckoutData struct {
	SessionID    string          `json:"sessionId,omitempty"`
	Customer     CustomerInfo    `json:"customer"`
	Shipping     ShippingAddress `json:"shipping"`
	Payment      PaymentInfo     `json:"payment"`
	Products     []Product       `json:"products"`
	Subtotal     float64         `json:"subtotal"`
	ShippingCost float64         `json:"shippingCost"`
	Discount     float64         `json:"discount"`
	Total        float64         `json:"total"`
	AmountDue    float64         `json:"amountDue"`
	CouponCode   string          `json:"couponCode,omitempty"`
}
