package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/gautampharma/ledger/pkg/models"
)

func newTestStore(t *testing.T, strict bool) *Store {
	t.Helper()
	return New(t.TempDir(), strict, log.Default())
}

func TestAppendAndSnapshot(t *testing.T) {
	s := newTestStore(t, false)

	rows := []struct {
		kind models.Kind
		row  Row
	}{
		{models.Sale, Row{Date: "05/01/2024", Party: "Sharma Medicals", Amount: "₹1,000"}},
		{models.Receipt, Row{Date: "10/01/2024", Party: "Sharma Medicals", Amount: "400", Mode: "UPI"}},
		{models.Purchase, Row{Date: "02/01/2024", Party: "MediSupply", Amount: "Rs 2,500", Items: "Crocin x100"}},
		{models.SupplierPayment, Row{Date: "20/01/2024", Party: "MediSupply", Amount: "1000", Mode: "NEFT"}},
	}
	for _, r := range rows {
		if err := s.Append(r.kind, r.row); err != nil {
			t.Fatalf("Append(%s) failed: %v", r.kind, err)
		}
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if len(snap.Sales) != 1 || len(snap.Receipts) != 1 || len(snap.Purchases) != 1 || len(snap.SupplierPayments) != 1 {
		t.Fatalf("snapshot sizes: %d %d %d %d", len(snap.Sales), len(snap.Receipts), len(snap.Purchases), len(snap.SupplierPayments))
	}

	sale := snap.Sales[0]
	if !sale.Amount.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("sale amount = %s, want 1000", sale.Amount)
	}
	if sale.Date.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("sale date = %s", sale.Date.Format("2006-01-02"))
	}
	if snap.Purchases[0].Items != "Crocin x100" {
		t.Errorf("purchase items = %q", snap.Purchases[0].Items)
	}
	if snap.SupplierPayments[0].Mode != "NEFT" {
		t.Errorf("payment mode = %q", snap.SupplierPayments[0].Mode)
	}
}

func TestSnapshotMissingSheetsAreEmpty(t *testing.T) {
	s := newTestStore(t, false)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot on empty dir failed: %v", err)
	}
	if len(snap.Sales) != 0 || len(snap.Receipts) != 0 {
		t.Error("expected empty books")
	}
}

func TestForgivingNormalization(t *testing.T) {
	s := newTestStore(t, false)

	if err := s.Append(models.Sale, Row{Date: "junk", Party: "P1", Amount: "abc"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(models.Sale, Row{Date: "05/01/2024", Party: "P2", Amount: "-50"}); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !snap.Sales[0].Amount.IsZero() {
		t.Errorf("unparseable amount = %s, want 0", snap.Sales[0].Amount)
	}
	if snap.Sales[0].HasDate() {
		t.Error("unparseable date should be absent")
	}
	if !snap.Sales[1].Amount.IsZero() {
		t.Errorf("negative amount should clamp to zero, got %s", snap.Sales[1].Amount)
	}
}

func TestStrictModeRejectsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	loose := New(dir, false, log.Default())
	strict := New(dir, true, log.Default())

	if err := loose.Append(models.Sale, Row{Date: "05/01/2024", Party: "P1", Amount: "abc"}); err != nil {
		t.Fatal(err)
	}

	if _, err := loose.Snapshot(); err != nil {
		t.Errorf("loose snapshot should succeed: %v", err)
	}
	if _, err := strict.Snapshot(); err == nil {
		t.Error("strict snapshot should fail on unparseable amount")
	}
}

func TestPartyDirectory(t *testing.T) {
	s := newTestStore(t, false)

	if err := s.SaveParty(models.Party{Name: "Sharma Medicals", Phone: "9876543210"}); err != nil {
		t.Fatal(err)
	}
	// Same key, different case: no duplicate.
	if err := s.SaveParty(models.Party{Name: "sharma medicals"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveParty(models.Party{Name: "Verma Traders", Code: "VT"}); err != nil {
		t.Fatal(err)
	}

	parties, err := s.Parties()
	if err != nil {
		t.Fatal(err)
	}
	if len(parties) != 2 {
		t.Fatalf("expected 2 parties, got %d", len(parties))
	}
	if parties[0].Phone != "9876543210" {
		t.Errorf("phone = %q", parties[0].Phone)
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, false, log.Default())

	for i := 0; i < 2; i++ {
		if err := s.Append(models.Sale, Row{Date: "05/01/2024", Party: "P1", Amount: "10"}); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "Sales.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want := "Date,Party,Amount\n05/01/2024,P1,10\n05/01/2024,P1,10\n"
	if string(data) != want {
		t.Errorf("Sales.csv = %q, want %q", data, want)
	}
}
