package models

// Fixed donation offer.
const (
	Currency           = "usd"
	UnitAmountCents    = 500
	Quantity           = 1
	ProductName        = "Support Our Project"
	ProductDescription = "Donate and support our work!"
	PaymentMethodCard  = "card"
	ModePayment        = "payment"
	SuccessPath        = "/payment-success"
	CancelPath         = "/payment-cancel"
)

// CheckoutParams describes a hosted checkout session with a single line item.
type CheckoutParams struct {
	Currency           string
	UnitAmount         int64
	Quantity           int64
	ProductName        string
	ProductDescription string
	PaymentMethodTypes []string
	Mode               string
	SuccessURL         string
	CancelURL          string
}

// CheckoutSession is the provider's answer; URL is where the payer is sent.
type CheckoutSession struct {
	ID  string
	URL string
}

type CheckoutResponse struct {
	URL string `json:"url"`
}
