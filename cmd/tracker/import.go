package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/application-tracker/internal/schemas"
	"github.com/jonathan/application-tracker/internal/tracker"
	"github.com/jonathan/application-tracker/internal/validation"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Add every application listed in a JSON file",
	Long: `Reads a JSON array of application forms and adds each one as if it had
been entered with "add". Invalid entries are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importWorkers int

func init() {
	importCmd.Flags().IntVarP(&importWorkers, "workers", "w", 1, "Number of entries created concurrently; above 1, ids no longer follow file order")
	rootCmd.AddCommand(importCmd)
}

// ImportSummary reports how an import went, entry by entry.
type ImportSummary struct {
	Created int                    `json:"created"`
	Failed  int                    `json:"failed"`
	Results []tracker.CreateResult `json:"results"`
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	if err := schemas.Validate(schemas.ApplicationImport, data); err != nil {
		return err
	}

	var entries []validation.RawInput
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	results := make([]tracker.CreateResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(importWorkers, 1))
	for i, raw := range entries {
		g.Go(func() error {
			results[i] = tracker.NewCreateResult(a.svc.Create(gctx, raw))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summary := ImportSummary{Results: results}
	for _, r := range results {
		if r.Success {
			summary.Created++
		} else {
			summary.Failed++
		}
	}
	a.logger.Info("import finished",
		zap.String("file", args[0]),
		zap.Int("created", summary.Created),
		zap.Int("failed", summary.Failed),
	)

	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	} else {
		p := printer(cmd)
		for i, r := range results {
			for _, fe := range r.Errors {
				p.PrintMessage(false, fmt.Sprintf("entry %d: %s: %s", i, fe.Field, fe.Message))
			}
		}
		p.PrintMessage(summary.Failed == 0,
			fmt.Sprintf("Imported %d of %d applications.", summary.Created, len(entries)))
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d entries were not imported", summary.Failed, len(entries))
	}
	return nil
}
