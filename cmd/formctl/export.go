package main

import (
	"fmt"
	"os"
	"time"

	"mecahub-backend/internal/domain"
	"mecahub-backend/internal/repository/postgres"
	"mecahub-backend/internal/usecase"
	"mecahub-backend/pkg/database"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded leads to an Excel workbook",
	Long: `Export recorded leads to an Excel workbook.

Examples:
  formctl export --table contact_requests --out contacts.xlsx
  formctl export --table job_applications --since 2025-01-01 --out candidatures.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _ := cmd.Flags().GetString("table")
		out, _ := cmd.Flags().GetString("out")
		sinceStr, _ := cmd.Flags().GetString("since")

		since, err := parseSince(sinceStr)
		if err != nil {
			return err
		}
		if dbURL == "" {
			return fmt.Errorf("--db or DATABASE_URL is required")
		}

		ctx := cmd.Context()
		pool, err := database.NewPostgresConnection(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		exportUC := usecase.NewExportUsecase(
			postgres.NewContactRepository(pool),
			postgres.NewJobApplicationRepository(pool),
		)

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		n, err := exportUC.Export(ctx, table, since, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(out)
			return err
		}

		fmt.Fprintf(os.Stdout, "%d rows from %s written to %s\n", n, table, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("table", domain.TableContactRequests, "contact_requests or job_applications")
	exportCmd.Flags().String("out", "leads.xlsx", "output workbook")
	exportCmd.Flags().String("since", "", "only rows created on or after this date (YYYY-MM-DD) or within this duration (e.g. 720h)")
}

// parseSince accepts a date, a duration back from now, or nothing.
func parseSince(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return time.Now().Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("invalid --since %q", s)
}
