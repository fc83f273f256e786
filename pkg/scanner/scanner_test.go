package scanner

import (
	"context"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/gautampharma/ledger/pkg/models"
	"github.com/gautampharma/ledger/pkg/resolve"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return f.reply, f.err
}

const fencedReply = "```json\n" +
	`[{"kind":"sale","date":"05/01/2024","party":"Sharm Medicals","amount":"1000","mode":"","items":""},
	  {"kind":"receipt","date":"10/01/2024","party":"Verma Traders","amount":"400","mode":"Cash","items":""}]` +
	"\n```"

func newTestScanner(reply string) *Scanner {
	r := resolve.New([]string{"Sharma Medicals", "Verma Traders"}, 0)
	return New(&fakeGenerator{reply: reply}, r, log.Default())
}

func TestScanDecodesAndResolves(t *testing.T) {
	entries, err := newTestScanner(fencedReply).Scan(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Party != "Sharma Medicals" {
		t.Errorf("party not resolved: %q", entries[0].Party)
	}
	if entries[1].Mode != "Cash" {
		t.Errorf("mode = %q", entries[1].Mode)
	}
}

func TestScanProseWrappedJSON(t *testing.T) {
	reply := `Here are the rows I could read:
[{"kind":"purchase","date":"02/01/2024","party":"MediSupply","amount":"2500","mode":"","items":"Crocin x100"}]
Let me know if you need anything else.`
	entries, err := newTestScanner(reply).Scan(context.Background(), nil, "image/png")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Items != "Crocin x100" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestScanGarbageReply(t *testing.T) {
	if _, err := newTestScanner("sorry, I cannot help").Scan(context.Background(), nil, "image/png"); err == nil {
		t.Error("expected decode error")
	}
	if _, err := newTestScanner("").Scan(context.Background(), nil, "image/png"); err == nil {
		t.Error("expected empty-response error")
	}
}

func TestEntryRow(t *testing.T) {
	e := Entry{Kind: "payment", Date: "05/01/2024", Party: "MediSupply", Amount: "1000", Mode: "NEFT"}
	kind, row, ok := e.Row()
	if !ok || kind != models.SupplierPayment {
		t.Fatalf("kind = %v ok = %v", kind, ok)
	}
	if row.Party != "MediSupply" || row.Mode != "NEFT" {
		t.Errorf("row = %+v", row)
	}

	if _, _, ok := (Entry{Kind: "note"}).Row(); ok {
		t.Error("unknown kind should not convert")
	}
}
