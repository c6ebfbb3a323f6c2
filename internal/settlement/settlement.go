// Package settlement computes what a client owes after a delivery visit.
//
// A visit starts from the client's previous balance (positive means the
// client owes). Goods delivered raise it, goods taken back lower it, and the
// payment collected on site lowers what remains:
//
//	grandTotal       = previousBalance + deliveryTotal - returnsTotal
//	remainingBalance = grandTotal - payment
//
// All arithmetic is exact decimal; rounding to cents happens only when a
// value is presented.
package settlement

import "github.com/shopspring/decimal"

// Method is how the payment was made.
type Method string

const (
	MethodCash         Method = "CASH"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCheck        Method = "CHECK"
)

// Methods lists the accepted payment methods, the default first.
var Methods = []Method{MethodCash, MethodBankTransfer, MethodCheck}

// Valid reports whether m is an accepted method.
func (m Method) Valid() bool {
	for _, v := range Methods {
		if m == v {
			return true
		}
	}
	return false
}

// PriceBook resolves unit prices by product id.
type PriceBook map[uint]decimal.Decimal

// Total sums unit price × quantity. Products missing from the price book
// contribute nothing.
func (p PriceBook) Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		price, ok := p[l.ProductID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Settlement is the computed outcome of a visit.
type Settlement struct {
	PreviousBalance  decimal.Decimal `json:"previous_balance"`
	DeliveryTotal    decimal.Decimal `json:"delivery_total"`
	ReturnsTotal     decimal.Decimal `json:"returns_total"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	Payment          decimal.Decimal `json:"payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	DeliveredUnits   int             `json:"delivered_units"`
	ReturnedUnits    int             `json:"returned_units"`
}

// Compute applies the settlement formulas.
func Compute(previous decimal.Decimal, returns, deliveries []Line, payment decimal.Decimal, prices PriceBook) Settlement {
	s := Settlement{
		PreviousBalance: previous,
		DeliveryTotal:   prices.Total(deliveries),
		ReturnsTotal:    prices.Total(returns),
		Payment:         payment,
	}
	s.GrandTotal = previous.Add(s.DeliveryTotal).Sub(s.ReturnsTotal)
	s.RemainingBalance = s.GrandTotal.Sub(payment)
	for _, l := range deliveries {
		s.DeliveredUnits += l.Quantity
	}
	for _, l := range returns {
		s.ReturnedUnits += l.Quantity
	}
	return s
}

// Session is the working state of one visit: what is delivered, what is
// taken back and what is paid.
type Session struct {
	ClientID        uint
	PreviousBalance decimal.Decimal
	Returns         *Lines
	Deliveries      *Lines
	PaymentInput    string
	Method          Method
}

// NewSession opens a visit. Deliveries are usually seeded from the client's
// prepared order; returns start empty.
func NewSession(clientID uint, previous decimal.Decimal, seed ...Line) *Session {
	return &Session{
		ClientID:        clientID,
		PreviousBalance: previous,
		Returns:         NewLines(),
		Deliveries:      NewLines(seed...),
		Method:          MethodCash,
	}
}

// Payment is the parsed payment input.
func (s *Session) Payment() decimal.Decimal { return ParseAmount(s.PaymentInput) }

// Compute settles the session against prices.
func (s *Session) Compute(prices PriceBook) Settlement {
	return Compute(s.PreviousBalance, s.Returns.Items(), s.Deliveries.Items(), s.Payment(), prices)
}
