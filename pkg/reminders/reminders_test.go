package reminders

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gautampharma/ledger/pkg/models"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(kind models.Kind, party, amount string) models.Transaction {
	return models.Transaction{Kind: kind, Party: party, Amount: amt(amount), Date: time.Now()}
}

func testData() ([]models.Transaction, []models.Transaction, []models.Party) {
	sales := []models.Transaction{
		tx(models.Sale, "Sharma Medicals", "1000"),
		tx(models.Sale, "Verma Traders", "500"),
		tx(models.Sale, "City Pharma", "90"),
	}
	receipts := []models.Transaction{
		tx(models.Receipt, "Sharma Medicals", "400"),
		tx(models.Receipt, "Verma Traders", "700"), // advance, balance -200
	}
	parties := []models.Party{
		{Name: "Sharma Medicals", Phone: "+91 98765 43210"},
		{Name: "Verma Traders"},
	}
	return sales, receipts, parties
}

func TestBuildFilterAndPhones(t *testing.T) {
	sales, receipts, parties := testData()
	rs := Build(sales, receipts, parties, amt("100"), BalanceDesc)

	// City Pharma (90) is under the threshold; Verma's -200 makes the cut
	// on magnitude.
	if len(rs) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(rs))
	}
	if rs[0].Party != "Sharma Medicals" || !rs[0].Balance.Equal(amt("600")) {
		t.Errorf("top reminder = %s %s", rs[0].Party, rs[0].Balance)
	}
	if rs[0].Phone != "+91 98765 43210" {
		t.Errorf("phone = %q", rs[0].Phone)
	}
	if rs[1].Party != "Verma Traders" || !rs[1].Balance.Equal(amt("-200")) {
		t.Errorf("second reminder = %s %s", rs[1].Party, rs[1].Balance)
	}
}

func TestBuildSortOrders(t *testing.T) {
	sales, receipts, parties := testData()

	cases := []struct {
		key   SortKey
		first string
	}{
		{BalanceDesc, "Sharma Medicals"},
		{BalanceAsc, "Verma Traders"},
		{NameAsc, "Sharma Medicals"},
		{NameDesc, "Verma Traders"},
	}
	for _, c := range cases {
		rs := Build(sales, receipts, parties, amt("100"), c.key)
		if len(rs) == 0 || rs[0].Party != c.first {
			t.Errorf("sort %s: first = %v, want %s", c.key, rs, c.first)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("name-asc") != NameAsc {
		t.Error("name-asc not recognized")
	}
	if ParseSortKey("bogus") != BalanceDesc {
		t.Error("unknown key should default to balance-desc")
	}
	if ParseSortKey(" Balance-ASC ") != BalanceAsc {
		t.Error("key parsing should trim and fold case")
	}
}

func TestWhatsAppLink(t *testing.T) {
	r := Reminder{Party: "Sharma Medicals", Balance: amt("600"), Phone: "+91 98765 43210"}
	link := r.WhatsAppLink()
	if !strings.HasPrefix(link, "https://wa.me/919876543210?text=") {
		t.Errorf("link = %q", link)
	}
	if !strings.Contains(link, "600.00") {
		t.Errorf("link missing balance: %q", link)
	}

	none := Reminder{Party: "Verma Traders", Balance: amt("-200")}
	if none.WhatsAppLink() != "" {
		t.Error("expected empty link without a phone number")
	}
}
