package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/extrame/xls"

	"github.com/gautampharma/ledger/pkg/models"
)

// ImportXLS bulk-appends rows from an .xls workbook exported from the old
// books. The first row must be a header; columns are matched by name, so
// exports with extra or reordered columns still import. Returns the number
// of rows appended.
func (s *Store) ImportXLS(path string, kind models.Kind) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	workbook, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return 0, fmt.Errorf("failed to read workbook: %w", err)
	}

	rows := workbook.ReadAllCells(10000)
	if len(rows) == 0 {
		return 0, fmt.Errorf("no data found in workbook")
	}

	cols := headerIndex(rows[0])
	if cols["date"] == nil || cols["amount"] == nil || (cols["party"] == nil && cols["supplier"] == nil) {
		return 0, fmt.Errorf("workbook missing date/party/amount columns")
	}

	imported := 0
	for _, rec := range rows[1:] {
		row := Row{
			Date:   cell(rec, cols["date"]),
			Party:  cell(rec, cols["party"]),
			Amount: cell(rec, cols["amount"]),
			Mode:   cell(rec, cols["mode"]),
			Items:  cell(rec, cols["items"]),
		}
		if row.Party == "" {
			row.Party = cell(rec, cols["supplier"])
		}
		if row.Date == "" && row.Party == "" && row.Amount == "" {
			continue
		}
		if err := s.Append(kind, row); err != nil {
			return imported, err
		}
		imported++
	}

	s.logger.Info("imported workbook", "file", path, "kind", kind, "rows", imported)
	return imported, nil
}

func headerIndex(header []string) map[string]*int {
	cols := make(map[string]*int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch name {
		case "date", "party", "supplier", "amount", "mode", "items":
			idx := i
			cols[name] = &idx
		}
	}
	return cols
}

func cell(rec []string, idx *int) string {
	if idx == nil || *idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[*idx])
}
