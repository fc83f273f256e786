package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/gautampharma/ledger/pkg/resolve"
	"github.com/gautampharma/ledger/pkg/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan <photo>",
	Short: "Extract transactions from a ledger page photo",
	Long: `Sends the photo to the vision model and prints the extracted rows for
review. With --commit the rows are appended to the books as-is; without it
nothing is persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		st, cfg, err := buildStore(cmd, logger)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read photo: %w", err)
		}

		parties, err := st.Parties()
		if err != nil {
			return err
		}
		resolver := resolve.FromParties(parties, cfg.MatchCutoff)
		sc := scanner.New(scanner.NewGemini(cfg.GeminiModel), resolver, logger)

		entries, err := sc.Scan(cmd.Context(), data, mimeFor(args[0]))
		if err != nil {
			return err
		}

		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			pp.Println(entries)
		}

		commit, _ := cmd.Flags().GetBool("commit")
		for _, e := range entries {
			kind, row, ok := e.Row()
			if !ok {
				logger.Warn("skipping row with unknown kind", "kind", e.Kind, "party", e.Party)
				continue
			}
			fmt.Printf("%-17s %-12s %-30s %10s %s %s\n", kind, row.Date, row.Party, row.Amount, row.Mode, row.Items)
			if commit {
				if err := st.Append(kind, row); err != nil {
					return err
				}
			}
		}

		if !commit {
			fmt.Println("\nReview the rows above, then re-run with --commit to record them.")
		}
		return nil
	},
}

func mimeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func init() {
	scanCmd.Flags().Bool("commit", false, "Append the extracted rows to the books")
	scanCmd.Flags().Bool("debug", false, "Dump the extracted rows")
}
