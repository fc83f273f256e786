package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/gautampharma/ledger/pkg/config"
	"github.com/gautampharma/ledger/pkg/ledger"
	"github.com/gautampharma/ledger/pkg/models"
	"github.com/gautampharma/ledger/pkg/normalize"
	"github.com/gautampharma/ledger/pkg/pdf"
	"github.com/gautampharma/ledger/pkg/position"
	"github.com/gautampharma/ledger/pkg/reminders"
	"github.com/gautampharma/ledger/pkg/resolve"
	"github.com/gautampharma/ledger/pkg/scanner"
	"github.com/gautampharma/ledger/pkg/store"
)

// Server exposes the books over HTTP: dashboard, statements, reminders,
// data entry and scan-import.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
	template *template.Template
	store    *store.Store
	gen      scanner.Generator
}

// New creates the HTTP server. The scan endpoint uses gen; pass nil to
// default to the configured Gemini model.
func New(cfg *config.Config, logger *log.Logger, gen scanner.Generator) *Server {
	if gen == nil {
		gen = scanner.NewGemini(cfg.GeminiModel)
	}
	tmpl := template.Must(template.ParseGlob("templates/*.html"))
	return &Server{
		config:   cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		template: tmpl,
		store:    store.New(cfg.DataDir, cfg.Strict, logger),
		gen:      gen,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.withLogging(s.handleHome))

	s.mux.HandleFunc("/api/position", s.withLogging(s.handlePosition))
	s.mux.HandleFunc("/api/statement", s.withLogging(s.handleStatement))
	s.mux.HandleFunc("/api/statement.pdf", s.withLogging(s.handleStatementPDF))
	s.mux.HandleFunc("/api/reminders", s.withLogging(s.handleReminders))
	s.mux.HandleFunc("/api/transactions", s.withLogging(s.handleTransactions))
	s.mux.HandleFunc("/api/parties", s.withLogging(s.handleParties))
	s.mux.HandleFunc("/api/scan", s.withLogging(s.handleScan))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if err := s.template.ExecuteTemplate(w, "index.html", nil); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render page", err)
	}
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	snap, err := s.store.Snapshot()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load books", err)
		return
	}

	pos := position.Aggregate(snap)
	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"receivable": pos.Receivable,
		"payable":    pos.Payable,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// statementEntry is one serialized ledger row.
type statementEntry struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	st, ok := s.buildStatement(w, r)
	if !ok {
		return
	}

	entries := make([]statementEntry, len(st.Entries))
	for i, e := range st.Entries {
		entries[i] = statementEntry{
			Date:        e.Date.Format("2006-01-02"),
			Description: e.Description,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Balance:     e.Running,
		}
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"party":   st.Party,
		"entries": entries,
		"balance": st.Balance,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleStatementPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	st, ok := s.buildStatement(w, r)
	if !ok {
		return
	}

	out, err := pdf.Render(st)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render pdf", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", st.Party+"-statement.pdf"))
	if _, err := w.Write(out); err != nil {
		s.logger.Warn("failed to write pdf response", "err", err)
	}
}

func (s *Server) buildStatement(w http.ResponseWriter, r *http.Request) (ledger.Statement, bool) {
	party := r.URL.Query().Get("party")
	if party == "" {
		s.respondError(w, r, http.StatusBadRequest, "party required", nil)
		return ledger.Statement{}, false
	}

	from := queryDate(r, "from")
	to := queryDate(r, "to")

	snap, err := s.store.Snapshot()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load books", err)
		return ledger.Statement{}, false
	}
	return ledger.Build(party, from, to, snap), true
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	threshold := decimal.NewFromFloat(s.config.MinReminder)
	if raw := r.URL.Query().Get("min"); raw != "" {
		threshold = normalize.Amount(raw)
	}
	key := reminders.ParseSortKey(r.URL.Query().Get("sort"))

	snap, err := s.store.Snapshot()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load books", err)
		return
	}
	parties, err := s.store.Parties()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load party directory", err)
		return
	}

	list := reminders.Build(snap.Sales, snap.Receipts, parties, threshold, key)

	type reminderRow struct {
		Party    string          `json:"party"`
		Balance  decimal.Decimal `json:"balance"`
		Phone    string          `json:"phone,omitempty"`
		WhatsApp string          `json:"whatsapp,omitempty"`
	}
	rows := make([]reminderRow, len(list))
	for i, rm := range list {
		rows[i] = reminderRow{Party: rm.Party, Balance: rm.Balance, Phone: rm.Phone, WhatsApp: rm.WhatsAppLink()}
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"reminders": rows,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	kind, ok := models.ParseKind(r.FormValue("kind"))
	if !ok {
		s.respondError(w, r, http.StatusBadRequest, "unknown transaction kind", nil)
		return
	}
	row := store.Row{
		Date:   r.FormValue("date"),
		Party:  r.FormValue("party"),
		Amount: r.FormValue("amount"),
		Mode:   r.FormValue("mode"),
		Items:  r.FormValue("items"),
	}
	if row.Party == "" {
		s.respondError(w, r, http.StatusBadRequest, "party required", nil)
		return
	}

	if err := s.store.Append(kind, row); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to record transaction", err)
		return
	}

	s.logger.Info("recorded transaction", "kind", kind, "party", row.Party, "amount", row.Amount)
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleParties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		parties, err := s.store.Parties()
		if err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to load party directory", err)
			return
		}
		if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"parties": parties,
		}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}
	case http.MethodPost:
		p := models.Party{
			Name:  r.FormValue("name"),
			Code:  r.FormValue("code"),
			Phone: r.FormValue("phone"),
		}
		if p.Name == "" {
			s.respondError(w, r, http.StatusBadRequest, "name required", nil)
			return
		}
		if err := s.store.SaveParty(p); err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to save party", err)
			return
		}
		if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}
	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

// handleScan extracts rows from an uploaded ledger photo. Nothing is
// persisted here: the client reviews the rows and posts each one through
// /api/transactions.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "photo required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read photo", err)
		return
	}

	parties, err := s.store.Parties()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load party directory", err)
		return
	}
	resolver := resolve.FromParties(parties, s.config.MatchCutoff)
	sc := scanner.New(s.gen, resolver, s.logger)

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/jpeg"
	}

	entries, err := sc.Scan(r.Context(), data, mime)
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "scan failed", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"entries": entries,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

func queryDate(r *http.Request, key string) time.Time {
	d, _ := normalize.Date(r.URL.Query().Get(key))
	return d
}

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
