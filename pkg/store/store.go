// Package store is the spreadsheet-like system of record: one CSV worksheet
// per transaction book plus a YAML party directory, kept in a data
// directory. Cells are raw strings; typing happens exactly once, when a
// snapshot is loaded.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/gautampharma/ledger/pkg/models"
	"github.com/gautampharma/ledger/pkg/normalize"
)

// Row is one raw worksheet row as entered or scanned. Every field is a
// string; the store never interprets them on write.
type Row struct {
	Date   string `json:"date"`
	Party  string `json:"party"`
	Amount string `json:"amount"`
	Mode   string `json:"mode,omitempty"`
	Items  string `json:"items,omitempty"`
}

type sheet struct {
	file   string
	header []string
}

var sheets = map[models.Kind]sheet{
	models.Sale:            {"Sales.csv", []string{"Date", "Party", "Amount"}},
	models.Receipt:         {"Receipts.csv", []string{"Date", "Party", "Amount", "Mode"}},
	models.Purchase:        {"Purchases.csv", []string{"Date", "Supplier", "Items", "Amount"}},
	models.SupplierPayment: {"SupplierPayments.csv", []string{"Date", "Supplier", "Amount", "Mode"}},
}

const partiesFile = "parties.yaml"

// Store reads and appends worksheet files under a single directory.
// In strict mode a malformed amount or date fails the load instead of
// degrading to zero/absent.
type Store struct {
	dir    string
	strict bool
	logger *log.Logger
}

func New(dir string, strict bool, logger *log.Logger) *Store {
	return &Store{dir: dir, strict: strict, logger: logger}
}

// Append adds one raw row to the worksheet for kind, creating the file
// with its header when missing.
func (s *Store) Append(kind models.Kind, row Row) error {
	sh, ok := sheets[kind]
	if !ok {
		return fmt.Errorf("unknown transaction kind %q", kind)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	path := filepath.Join(s.dir, sh.file)
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open worksheet %s: %w", sh.file, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(sh.header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.Write(record(sh, row)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Snapshot loads all four books and normalizes every row. Missing
// worksheets read as empty books.
func (s *Store) Snapshot() (models.Snapshot, error) {
	var snap models.Snapshot
	var err error

	if snap.Sales, err = s.loadSheet(models.Sale); err != nil {
		return snap, err
	}
	if snap.Receipts, err = s.loadSheet(models.Receipt); err != nil {
		return snap, err
	}
	if snap.Purchases, err = s.loadSheet(models.Purchase); err != nil {
		return snap, err
	}
	if snap.SupplierPayments, err = s.loadSheet(models.SupplierPayment); err != nil {
		return snap, err
	}
	return snap, nil
}

// Parties reads the party directory. A missing file is an empty directory.
func (s *Store) Parties() ([]models.Party, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, partiesFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read party directory: %w", err)
	}

	var parties []models.Party
	if err := yaml.Unmarshal(data, &parties); err != nil {
		return nil, fmt.Errorf("failed to parse party directory: %w", err)
	}
	return parties, nil
}

// SaveParty appends a party to the directory unless a party with the same
// key already exists.
func (s *Store) SaveParty(p models.Party) error {
	parties, err := s.Parties()
	if err != nil {
		return err
	}
	key := models.PartyKey(p.Name)
	for _, existing := range parties {
		if models.PartyKey(existing.Name) == key {
			return nil
		}
	}
	parties = append(parties, p)

	data, err := yaml.Marshal(parties)
	if err != nil {
		return fmt.Errorf("failed to encode party directory: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, partiesFile), data, 0o644)
}

func (s *Store) loadSheet(kind models.Kind) ([]models.Transaction, error) {
	sh := sheets[kind]
	f, err := os.Open(filepath.Join(s.dir, sh.file))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open worksheet %s: %w", sh.file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var txs []models.Transaction
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read worksheet %s: %w", sh.file, err)
		}
		if first {
			first = false
			if len(rec) > 0 && rec[0] == "Date" {
				continue
			}
		}
		if len(rec) < len(sh.header) {
			s.logger.Warn("skipping short row", "sheet", sh.file, "fields", len(rec))
			continue
		}

		tx, err := s.normalizeRow(kind, rowFromRecord(sh, rec))
		if err != nil {
			return nil, fmt.Errorf("worksheet %s: %w", sh.file, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// normalizeRow applies the forgiving typing policy: unparseable amounts
// read as zero, unparseable dates as absent, negatives are clamped to
// zero. Strict mode turns each of those into a load error instead.
func (s *Store) normalizeRow(kind models.Kind, row Row) (models.Transaction, error) {
	tx := models.Transaction{
		Kind:  kind,
		Party: row.Party,
		Mode:  row.Mode,
		Items: row.Items,
	}

	tx.Amount = normalize.Amount(row.Amount)
	if s.strict && tx.Amount.IsZero() && row.Amount != "" && row.Amount != "0" {
		return tx, fmt.Errorf("unparseable amount %q for %q", row.Amount, row.Party)
	}
	if tx.Amount.IsNegative() {
		if s.strict {
			return tx, fmt.Errorf("negative amount %q for %q", row.Amount, row.Party)
		}
		s.logger.Warn("clamping negative amount", "party", row.Party, "amount", row.Amount)
		tx.Amount = decimal.Zero
	}

	date, ok := normalize.Date(row.Date)
	if !ok && s.strict && row.Date != "" {
		return tx, fmt.Errorf("unparseable date %q for %q", row.Date, row.Party)
	}
	tx.Date = date
	return tx, nil
}

func record(sh sheet, row Row) []string {
	rec := make([]string, 0, len(sh.header))
	for _, col := range sh.header {
		switch col {
		case "Date":
			rec = append(rec, row.Date)
		case "Party", "Supplier":
			rec = append(rec, row.Party)
		case "Amount":
			rec = append(rec, row.Amount)
		case "Mode":
			rec = append(rec, row.Mode)
		case "Items":
			rec = append(rec, row.Items)
		}
	}
	return rec
}

func rowFromRecord(sh sheet, rec []string) Row {
	var row Row
	for i, col := range sh.header {
		switch col {
		case "Date":
			row.Date = rec[i]
		case "Party", "Supplier":
			row.Party = rec[i]
		case "Amount":
			row.Amount = rec[i]
		case "Mode":
			row.Mode = rec[i]
		case "Items":
			row.Items = rec[i]
		}
	}
	return row
}
