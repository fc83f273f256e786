// Package scanner turns a photo of a handwritten ledger page into raw
// transaction rows by asking a hosted vision model for strict JSON. The
// output still goes through human review before anything is appended to
// the books; party names are snapped to the directory by fuzzy matching
// so the reviewer sees canonical spellings.
package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gautampharma/ledger/pkg/models"
	"github.com/gautampharma/ledger/pkg/resolve"
	"github.com/gautampharma/ledger/pkg/store"
)

// Entry is one extracted row, all fields raw strings exactly as the model
// reported them (party excepted, which is resolved against the directory).
type Entry struct {
	Kind   string `json:"kind"`
	Date   string `json:"date"`
	Party  string `json:"party"`
	Amount string `json:"amount"`
	Mode   string `json:"mode"`
	Items  string `json:"items"`
}

// Row converts the entry into a store row plus its book. ok is false when
// the model produced a kind we do not track.
func (e Entry) Row() (models.Kind, store.Row, bool) {
	kind, ok := models.ParseKind(e.Kind)
	if !ok {
		return "", store.Row{}, false
	}
	return kind, store.Row{
		Date:   e.Date,
		Party:  e.Party,
		Amount: e.Amount,
		Mode:   e.Mode,
		Items:  e.Items,
	}, true
}

// Generator is the hosted-model call. Kept as an interface so extraction
// and decoding stay testable without network access.
type Generator interface {
	Generate(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

type Scanner struct {
	gen      Generator
	resolver *resolve.Resolver
	logger   *log.Logger
}

func New(gen Generator, resolver *resolve.Resolver, logger *log.Logger) *Scanner {
	return &Scanner{gen: gen, resolver: resolver, logger: logger}
}

// Scan sends the image to the model and decodes the rows it reports.
func (s *Scanner) Scan(ctx context.Context, image []byte, mimeType string) ([]Entry, error) {
	raw, err := s.gen.Generate(ctx, buildPrompt(), image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		resolved := s.resolver.Resolve(entries[i].Party)
		if resolved != entries[i].Party {
			s.logger.Debug("resolved party", "scanned", entries[i].Party, "resolved", resolved)
		}
		entries[i].Party = resolved
	}

	s.logger.Info("scanned ledger page", "rows", len(entries))
	return entries, nil
}

func buildPrompt() string {
	var b strings.Builder
	b.WriteString("You are a data-entry assistant for a pharmaceutical distributor's handwritten ledger.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Read ALL rows from the attached ledger page photo.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a JSON array of objects.\n\n")
	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"kind\": one of \"sale\", \"receipt\", \"purchase\", \"supplier_payment\"\n")
	b.WriteString("- \"date\": string, DD/MM/YYYY as written, or \"\" if unreadable\n")
	b.WriteString("- \"party\": customer or supplier name as written\n")
	b.WriteString("- \"amount\": string, digits only, no currency symbols\n")
	b.WriteString("- \"mode\": payment mode if noted (Cash/UPI/Cheque), else \"\"\n")
	b.WriteString("- \"items\": item description for purchases, else \"\"\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Money received FROM a customer is a \"receipt\"; goods sold TO a customer is a \"sale\".\n")
	b.WriteString("- Money paid TO a supplier is a \"supplier_payment\"; stock bought is a \"purchase\".\n")
	b.WriteString("- Never invent rows; skip anything illegible.\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")
	return b.String()
}

// decodeEntries extracts the JSON array out of the model's reply, which
// may ignore the no-fences instruction or pad the JSON with prose.
func decodeEntries(raw string) ([]Entry, error) {
	clean := extractJSON(raw)

	var entries []Entry
	if err := json.Unmarshal([]byte(clean), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode model output: %w", err)
	}
	return entries, nil
}

func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost array if prose surrounds it.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
