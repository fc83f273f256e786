// Package reminders builds the collections worklist: every customer whose
// outstanding balance is worth chasing, with a phone number and a prefilled
// payment-reminder message link.
package reminders

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gautampharma/ledger/pkg/models"
)

// SortKey selects the worklist ordering. All four are equally valid views.
type SortKey string

const (
	BalanceDesc SortKey = "balance-desc"
	BalanceAsc  SortKey = "balance-asc"
	NameAsc     SortKey = "name-asc"
	NameDesc    SortKey = "name-desc"
)

// ParseSortKey maps user input onto a SortKey, defaulting to BalanceDesc.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case BalanceAsc:
		return BalanceAsc
	case NameAsc:
		return NameAsc
	case NameDesc:
		return NameDesc
	default:
		return BalanceDesc
	}
}

// Reminder is one worklist row. Balance is signed: a negative value means
// the business owes the customer (an advance), which still shows up when
// its magnitude clears the threshold.
type Reminder struct {
	Party   string
	Balance decimal.Decimal
	Phone   string
}

// Build computes per-customer balances (sales minus receipts, signed),
// keeps those whose magnitude exceeds threshold, attaches phone numbers
// from the party directory and sorts by key.
func Build(sales, receipts []models.Transaction, parties []models.Party, threshold decimal.Decimal, key SortKey) []Reminder {
	balances := make(map[string]decimal.Decimal)
	display := make(map[string]string)

	for _, tx := range sales {
		k := models.PartyKey(tx.Party)
		balances[k] = get(balances, k).Add(tx.Amount)
		recordName(display, k, tx.Party)
	}
	for _, tx := range receipts {
		k := models.PartyKey(tx.Party)
		balances[k] = get(balances, k).Sub(tx.Amount)
		recordName(display, k, tx.Party)
	}

	phones := make(map[string]string, len(parties))
	for _, p := range parties {
		k := models.PartyKey(p.Name)
		phones[k] = p.Phone
		// The directory spelling wins over whatever the books used.
		display[k] = p.Name
	}

	out := make([]Reminder, 0, len(balances))
	for k, bal := range balances {
		if bal.Abs().LessThanOrEqual(threshold) {
			continue
		}
		out = append(out, Reminder{Party: display[k], Balance: bal, Phone: phones[k]})
	}

	sortReminders(out, key)
	return out
}

// Message is the notification text for a balance-due reminder.
func (r Reminder) Message() string {
	return fmt.Sprintf("Dear %s, your outstanding balance with Gautam Pharma is ₹%s. Kindly arrange payment at your earliest convenience. Thank you.", r.Party, r.Balance.StringFixed(2))
}

// WhatsAppLink returns a wa.me link with the reminder message prefilled,
// or "" when no phone number is on file.
func (r Reminder) WhatsAppLink() string {
	digits := strings.Map(func(c rune) rune {
		if c >= '0' && c <= '9' {
			return c
		}
		return -1
	}, r.Phone)
	if digits == "" {
		return ""
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(r.Message()))
}

func sortReminders(rs []Reminder, key SortKey) {
	switch key {
	case BalanceAsc:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Balance.LessThan(rs[j].Balance) })
	case NameAsc:
		sort.SliceStable(rs, func(i, j int) bool {
			return models.PartyKey(rs[i].Party) < models.PartyKey(rs[j].Party)
		})
	case NameDesc:
		sort.SliceStable(rs, func(i, j int) bool {
			return models.PartyKey(rs[i].Party) > models.PartyKey(rs[j].Party)
		})
	default:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Balance.GreaterThan(rs[j].Balance) })
	}
}

func get(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if b, ok := m[key]; ok {
		return b
	}
	return decimal.Zero
}

func recordName(display map[string]string, key, name string) {
	if _, ok := display[key]; !ok {
		display[key] = strings.TrimSpace(name)
	}
}
