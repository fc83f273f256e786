package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which book a transaction belongs to.
type Kind string

const (
	Sale            Kind = "sale"
	Receipt         Kind = "receipt"
	Purchase        Kind = "purchase"
	SupplierPayment Kind = "supplier_payment"
)

// ParseKind maps user and scanner input onto a Kind, accepting the short
// aliases the forms and the model tend to produce.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "sales", "due":
		return Sale, true
	case "receipt", "receipts", "payment_received":
		return Receipt, true
	case "purchase", "purchases":
		return Purchase, true
	case "supplier_payment", "supplier-payment", "payment", "paid":
		return SupplierPayment, true
	}
	return "", false
}

// Transaction is a single normalized ledger row. Amounts are always
// non-negative; the debit/credit role comes from the Kind at statement
// build time, not from the sign.
type Transaction struct {
	Kind   Kind
	Party  string // customer or supplier name as recorded
	Amount decimal.Decimal
	Date   time.Time // zero when the source date could not be parsed
	Mode   string    // payment mode, receipts and supplier payments only
	Items  string    // purchased items, purchases only
}

// HasDate reports whether the source date parsed. Rows without a date are
// excluded from any date-filtered view.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// Snapshot is one full read of the four transaction books. All derived
// views (statements, market position, reminders) are pure functions of a
// snapshot; nothing in the core reaches back to the store.
type Snapshot struct {
	Sales            []Transaction
	Receipts         []Transaction
	Purchases        []Transaction
	SupplierPayments []Transaction
}

// PartyKey is the canonical party identity: trimmed and case-folded.
// Every grouping and filter in the core compares keys, never raw names,
// so the statement and dashboard paths agree on who a row belongs to.
func PartyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LedgerEntry is one row of a party statement. Running carries the
// cumulative debit minus credit up to and including this row.
type LedgerEntry struct {
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Running     decimal.Decimal
}

// Party is a directory record for a counterparty.
type Party struct {
	Name  string `yaml:"name"`
	Code  string `yaml:"code,omitempty"`
	Phone string `yaml:"phone,omitempty"`
}
