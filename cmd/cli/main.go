package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/gautampharma/ledger/pkg/config"
	"github.com/gautampharma/ledger/pkg/ledger"
	"github.com/gautampharma/ledger/pkg/models"
	"github.com/gautampharma/ledger/pkg/normalize"
	"github.com/gautampharma/ledger/pkg/pdf"
	"github.com/gautampharma/ledger/pkg/position"
	"github.com/gautampharma/ledger/pkg/reminders"
	"github.com/gautampharma/ledger/pkg/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Gautam Pharma bookkeeping command-line interface",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ledger",
	})
}

func buildStore(cmd *cobra.Command, logger *log.Logger) (*store.Store, *config.Config, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return store.New(cfg.DataDir, cfg.Strict, logger), cfg, nil
}

var addCmd = &cobra.Command{
	Use:   "add <sale|receipt|purchase|payment>",
	Short: "Record a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		st, _, err := buildStore(cmd, logger)
		if err != nil {
			return err
		}

		kind, ok := models.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown transaction kind %q", args[0])
		}

		row := store.Row{}
		row.Date, _ = cmd.Flags().GetString("date")
		row.Party, _ = cmd.Flags().GetString("party")
		row.Amount, _ = cmd.Flags().GetString("amount")
		row.Mode, _ = cmd.Flags().GetString("mode")
		row.Items, _ = cmd.Flags().GetString("items")
		if row.Party == "" {
			return fmt.Errorf("--party is required")
		}

		if err := st.Append(kind, row); err != nil {
			return err
		}
		logger.Info("recorded", "kind", kind, "party", row.Party, "amount", row.Amount)
		return nil
	},
}

var statementCmd = &cobra.Command{
	Use:   "statement <party>",
	Short: "Print a party statement with running balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		st, _, err := buildStore(cmd, logger)
		if err != nil {
			return err
		}

		snap, err := st.Snapshot()
		if err != nil {
			return err
		}

		fromRaw, _ := cmd.Flags().GetString("from")
		toRaw, _ := cmd.Flags().GetString("to")
		from, _ := normalize.Date(fromRaw)
		to, _ := normalize.Date(toRaw)

		stmt := ledger.Build(args[0], from, to, snap)

		if pdfPath, _ := cmd.Flags().GetString("pdf"); pdfPath != "" {
			out, err := pdf.Render(stmt)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pdfPath, out, 0o644); err != nil {
				return fmt.Errorf("failed to write pdf: %w", err)
			}
			logger.Info("wrote statement pdf", "file", pdfPath, "entries", len(stmt.Entries))
			return nil
		}

		if len(stmt.Entries) == 0 {
			fmt.Printf("No transactions for %s\n", args[0])
			return nil
		}
		fmt.Printf("%-12s %-40s %12s %12s %12s\n", "Date", "Description", "Debit", "Credit", "Balance")
		for _, e := range stmt.Entries {
			fmt.Printf("%-12s %-40s %12s %12s %12s\n",
				e.Date.Format("02/01/2006"), e.Description,
				e.Debit.StringFixed(2), e.Credit.StringFixed(2), e.Running.StringFixed(2))
		}
		fmt.Printf("\nClosing balance: %s\n", stmt.Balance.StringFixed(2))
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show aggregate receivable and payable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		st, _, err := buildStore(cmd, logger)
		if err != nil {
			return err
		}

		snap, err := st.Snapshot()
		if err != nil {
			return err
		}

		pos := position.Aggregate(snap)
		fmt.Printf("Total receivable: %s\n", pos.Receivable.StringFixed(2))
		fmt.Printf("Total payable:    %s\n", pos.Payable.StringFixed(2))
		return nil
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "List customers with outstanding balances",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		st, cfg, err := buildStore(cmd, logger)
		if err != nil {
			return err
		}

		snap, err := st.Snapshot()
		if err != nil {
			return err
		}
		parties, err := st.Parties()
		if err != nil {
			return err
		}

		sortRaw, _ := cmd.Flags().GetString("sort")
		key := reminders.ParseSortKey(sortRaw)
		threshold := decimal.NewFromFloat(cfg.MinReminder)

		list := reminders.Build(snap.Sales, snap.Receipts, parties, threshold, key)
		if len(list) == 0 {
			fmt.Println("Nothing outstanding above the threshold.")
			return nil
		}
		for _, r := range list {
			line := fmt.Sprintf("%-30s %12s", r.Party, r.Balance.StringFixed(2))
			if link := r.WhatsAppLink(); link != "" {
				line += "  " + link
			}
			fmt.Println(line)
		}
		return nil
	},
}

var partyCmd = &cobra.Command{
	Use:   "party <name>",
	Short: "Add a party to the directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		st, _, err := buildStore(cmd, logger)
		if err != nil {
			return err
		}

		p := models.Party{Name: args[0]}
		p.Code, _ = cmd.Flags().GetString("party-code")
		p.Phone, _ = cmd.Flags().GetString("phone")

		if err := st.SaveParty(p); err != nil {
			return err
		}
		logger.Info("saved party", "name", p.Name)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <workbook.xls>",
	Short: "Bulk-import a worksheet from an .xls workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		st, _, err := buildStore(cmd, logger)
		if err != nil {
			return err
		}

		kindRaw, _ := cmd.Flags().GetString("kind")
		kind, ok := models.ParseKind(kindRaw)
		if !ok {
			return fmt.Errorf("unknown transaction kind %q", kindRaw)
		}

		n, err := st.ImportXLS(args[0], kind)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d rows into %s\n", n, kind)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory holding the worksheets")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on malformed rows instead of defaulting")

	addCmd.Flags().String("date", "", "Transaction date (DD/MM/YYYY)")
	addCmd.Flags().String("party", "", "Customer or supplier name")
	addCmd.Flags().String("amount", "", "Amount")
	addCmd.Flags().String("mode", "", "Payment mode (receipts and supplier payments)")
	addCmd.Flags().String("items", "", "Items (purchases)")

	statementCmd.Flags().String("from", "", "Start date (DD/MM/YYYY)")
	statementCmd.Flags().String("to", "", "End date (DD/MM/YYYY)")
	statementCmd.Flags().String("pdf", "", "Write the statement to this PDF file")

	remindCmd.Flags().Float64("min", 0, "Minimum outstanding balance")
	remindCmd.Flags().String("sort", "balance-desc", "Sort key: balance-desc, balance-asc, name-asc, name-desc")

	partyCmd.Flags().String("party-code", "", "Short code")
	partyCmd.Flags().String("phone", "", "Phone number for reminders")

	importCmd.Flags().String("kind", "sale", "Which book the workbook belongs to")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(partyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scanCmd)
}

func main() {
	_ = gotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
