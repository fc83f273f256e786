// Package position computes the dashboard's aggregate market position:
// how much is owed to the business and how much it owes, across all
// parties.
package position

import (
	"github.com/shopspring/decimal"

	"github.com/gautampharma/ledger/pkg/models"
)

// Position holds the two dashboard scalars. Both are sums of positive
// per-party balances only; a party the business owes never reduces
// Receivable, and a supplier in credit never reduces Payable. The numbers
// answer "how much is outstanding", not "what is the net cash position".
type Position struct {
	Receivable decimal.Decimal
	Payable    decimal.Decimal
}

// Aggregate computes the market position over a snapshot. Customers are
// grouped by party key over sales and receipts; suppliers over purchases
// and supplier payments. Only strictly positive balances enter each bucket.
func Aggregate(snap models.Snapshot) Position {
	pos := Position{Receivable: decimal.Zero, Payable: decimal.Zero}

	for _, bal := range balancesByParty(snap.Sales, snap.Receipts) {
		if bal.IsPositive() {
			pos.Receivable = pos.Receivable.Add(bal)
		}
	}
	for _, bal := range balancesByParty(snap.Purchases, snap.SupplierPayments) {
		if bal.IsPositive() {
			pos.Payable = pos.Payable.Add(bal)
		}
	}
	return pos
}

// balancesByParty sums owed minus settled per party key. Date parsing
// failures do not matter here; the aggregate is over the whole book.
func balancesByParty(owed, settled []models.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, tx := range owed {
		key := models.PartyKey(tx.Party)
		balances[key] = balance(balances, key).Add(tx.Amount)
	}
	for _, tx := range settled {
		key := models.PartyKey(tx.Party)
		balances[key] = balance(balances, key).Sub(tx.Amount)
	}
	return balances
}

func balance(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if b, ok := m[key]; ok {
		return b
	}
	return decimal.Zero
}
