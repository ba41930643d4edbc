package main

import (
	"errors"
	"fmt"
	"os"

	"mecahub-backend/internal/domain"
	"mecahub-backend/internal/repository/postgres"
	"mecahub-backend/internal/submission"
	"mecahub-backend/pkg/database"
	"mecahub-backend/pkg/ratelimit"

	"github.com/spf13/cobra"
)

var errNotSubmitted = errors.New("submission not completed")

var submitCmd = &cobra.Command{
	Use:   "submit contact|job",
	Short: "Validate a form and send it through the forms API",
	Long: `Validate a form and send it through the forms API.

The attachment is uploaded first; if that fails the form is sent without it.
When --db is set the lead is also written to the database.

Examples:
  formctl submit contact --file contact.json --attach plans.pdf
  formctl submit job --file candidature.json --attach cv.pdf`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.FormContact), string(domain.FormJob)},
	RunE: func(cmd *cobra.Command, args []string) error {
		formType, ok := domain.ParseFormType(args[0])
		if !ok {
			return fmt.Errorf("unknown form type %q (want contact or job)", args[0])
		}
		file, _ := cmd.Flags().GetString("file")
		attach, _ := cmd.Flags().GetString("attach")

		form, err := loadForm(formType, file)
		if err != nil {
			return err
		}
		if attach != "" {
			a, err := loadAttachment(attach)
			if err != nil {
				return err
			}
			form.Attach(a)
		}

		ctx := cmd.Context()
		var records submission.RecordStore = submission.NopStore{}
		if dbURL != "" {
			pool, err := database.NewPostgresConnection(ctx, dbURL)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()
			records = submission.NewRepositoryStore(
				postgres.NewContactRepository(pool),
				postgres.NewJobApplicationRepository(pool),
			)
		}

		client := submission.NewClient(apiURL, nil)
		limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.FormSubmission)
		controller := submission.NewController(limiter, client, client, records)

		printStep("Submitting %s form to %s", formType, apiURL)
		res, err := controller.Submit(ctx, form)
		if err != nil {
			return err
		}
		printResult(os.Stdout, res)

		if res.State != submission.StateSucceeded {
			return fmt.Errorf("%w: %s", errNotSubmitted, res.State)
		}
		if res.EmailID != "" {
			fmt.Fprintf(os.Stdout, "email id: %s\n", res.EmailID)
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().String("file", "", "JSON file with the form fields")
	submitCmd.Flags().String("attach", "", "attachment (contact file or CV)")
	_ = submitCmd.MarkFlagRequired("file")
}
