package position

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gautampharma/ledger/pkg/models"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(kind models.Kind, party, amount string) models.Transaction {
	return models.Transaction{Kind: kind, Party: party, Amount: amt(amount), Date: time.Now()}
}

func TestAggregate(t *testing.T) {
	snap := models.Snapshot{
		Sales: []models.Transaction{
			tx(models.Sale, "P1", "1000"),
			tx(models.Sale, "P2", "500"),
			tx(models.Sale, "P1", "250"),
		},
		Receipts: []models.Transaction{
			tx(models.Receipt, "P1", "400"),
			tx(models.Receipt, "P2", "800"), // P2 overpaid, balance -300
		},
		Purchases: []models.Transaction{
			tx(models.Purchase, "S1", "2000"),
			tx(models.Purchase, "S2", "100"),
		},
		SupplierPayments: []models.Transaction{
			tx(models.SupplierPayment, "S1", "500"),
			tx(models.SupplierPayment, "S2", "300"), // S2 balance -200
		},
	}

	pos := Aggregate(snap)

	// Only P1's +850 counts; P2's -300 is dropped, not netted.
	if !pos.Receivable.Equal(amt("850")) {
		t.Errorf("Receivable = %s, want 850", pos.Receivable)
	}
	// Only S1's +1500 counts.
	if !pos.Payable.Equal(amt("1500")) {
		t.Errorf("Payable = %s, want 1500", pos.Payable)
	}
}

func TestAggregateEmpty(t *testing.T) {
	pos := Aggregate(models.Snapshot{})
	if !pos.Receivable.IsZero() || !pos.Payable.IsZero() {
		t.Errorf("empty snapshot: receivable=%s payable=%s", pos.Receivable, pos.Payable)
	}
}

func TestAggregateNoDoubleCounting(t *testing.T) {
	// Same customer spelled with different case/whitespace is one party.
	snap := models.Snapshot{
		Sales: []models.Transaction{
			tx(models.Sale, "Sharma Medicals", "100"),
			tx(models.Sale, " sharma medicals ", "100"),
		},
		Receipts: []models.Transaction{
			tx(models.Receipt, "SHARMA MEDICALS", "150"),
		},
	}
	pos := Aggregate(snap)
	if !pos.Receivable.Equal(amt("50")) {
		t.Errorf("Receivable = %s, want 50", pos.Receivable)
	}
}
