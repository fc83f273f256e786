// Package ledger assembles per-party statements out of a transaction
// snapshot: filter, tag debit/credit, sort by date, accumulate a running
// balance.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gautampharma/ledger/pkg/models"
)

// Statement is a party's ledger over a date range. Balance is the sum of
// debits minus the sum of credits across Entries; positive means the party
// owes the business.
type Statement struct {
	Party   string
	From    time.Time
	To      time.Time
	Entries []models.LedgerEntry
	Balance decimal.Decimal
}

// Build filters the snapshot down to the given party and date range and
// produces the ordered statement. A zero From or To leaves that end of the
// range open. Rows whose date failed to parse never match a range.
// An empty result is a normal statement with zero balance; the caller
// cannot distinguish "no transactions in range" from "unknown party".
func Build(party string, from, to time.Time, snap models.Snapshot) Statement {
	st := Statement{Party: party, From: from, To: to, Balance: decimal.Zero}

	key := models.PartyKey(party)
	collect := func(txs []models.Transaction) {
		for _, tx := range txs {
			if models.PartyKey(tx.Party) != key || !inRange(tx, from, to) {
				continue
			}
			st.Entries = append(st.Entries, tag(tx))
		}
	}
	collect(snap.Sales)
	collect(snap.Receipts)
	collect(snap.Purchases)
	collect(snap.SupplierPayments)

	// Stable so same-date rows keep book order, though statements are
	// day-granular and promise no secondary order.
	sort.SliceStable(st.Entries, func(i, j int) bool {
		return st.Entries[i].Date.Before(st.Entries[j].Date)
	})

	running := decimal.Zero
	for i := range st.Entries {
		running = running.Add(st.Entries[i].Debit).Sub(st.Entries[i].Credit)
		st.Entries[i].Running = running
	}
	st.Balance = running
	return st
}

func inRange(tx models.Transaction, from, to time.Time) bool {
	if !tx.HasDate() {
		return false
	}
	if !from.IsZero() && tx.Date.Before(from) {
		return false
	}
	if !to.IsZero() && tx.Date.After(to) {
		return false
	}
	return true
}

// tag maps a transaction onto its debit/credit role for the party's
// statement. Sales and payments made to a supplier are debits; receipts
// and purchases from a supplier are credits.
func tag(tx models.Transaction) models.LedgerEntry {
	e := models.LedgerEntry{
		Date:   tx.Date,
		Debit:  decimal.Zero,
		Credit: decimal.Zero,
	}
	switch tx.Kind {
	case models.Sale:
		e.Description = "Sale"
		e.Debit = tx.Amount
	case models.Receipt:
		e.Description = "Receipt"
		if tx.Mode != "" {
			e.Description = fmt.Sprintf("Receipt (%s)", tx.Mode)
		}
		e.Credit = tx.Amount
	case models.Purchase:
		e.Description = "Purchase"
		if tx.Items != "" {
			e.Description = fmt.Sprintf("Purchase: %s", tx.Items)
		}
		e.Credit = tx.Amount
	case models.SupplierPayment:
		e.Description = "Payment"
		if tx.Mode != "" {
			e.Description = fmt.Sprintf("Payment (%s)", tx.Mode)
		}
		e.Debit = tx.Amount
	}
	return e
}
