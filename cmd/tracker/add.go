package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/application-tracker/internal/tracker"
	"github.com/jonathan/application-tracker/internal/validation"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new application",
	Long:  "Adds a pending application. The date defaults to today; notes and url are optional.",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

var (
	addCompany  string
	addPosition string
	addDate     string
	addNotes    string
	addURL      string
)

// errCreateRejected marks an add whose field errors were already printed.
var errCreateRejected = errors.New("application was not added")

func init() {
	addCmd.Flags().StringVarP(&addCompany, "company", "c", "", "Company name (required)")
	addCmd.Flags().StringVarP(&addPosition, "position", "p", "", "Position title (required)")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "Date applied, e.g. 2024-03-15 (default today)")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "Free-form notes")
	addCmd.Flags().StringVarP(&addURL, "url", "u", "", "Link to the job posting")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	raw := validation.RawInput{
		validation.FieldCompanyName: addCompany,
		validation.FieldPosition:    addPosition,
		validation.FieldDateApplied: addDate,
		validation.FieldNotes:       addNotes,
		validation.FieldURL:         addURL,
	}

	res := tracker.NewCreateResult(a.svc.Create(ctx, raw))
	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		p := printer(cmd)
		if res.Success {
			p.PrintMessage(true, "Application added.")
			p.PrintApplication(res.Application)
		}
		for _, fe := range res.Errors {
			p.PrintMessage(false, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
		}
	}

	if !res.Success {
		return errCreateRejected
	}
	return nil
}
