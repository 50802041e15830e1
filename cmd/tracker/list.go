package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/application-tracker/internal/query"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show applications on one tab",
	Long: `Lists the applications on the pending or archived tab, narrowed by a
case-insensitive search over company and position and by a date bucket
(all, today, last7days, last30days, thisMonth, lastMonth).`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listTab    string
	listSearch string
	listDate   string
	listSort   string
	listDir    string
)

func init() {
	listCmd.Flags().StringVarP(&listTab, query.ParamTab, "t", "", "Tab to show: pending or archived (default pending)")
	listCmd.Flags().StringVarP(&listSearch, query.ParamSearch, "s", "", "Substring to match in company or position")
	listCmd.Flags().StringVarP(&listDate, query.ParamDate, "d", "", "Date bucket (default all)")
	listCmd.Flags().StringVar(&listSort, query.ParamSort, "", "Sort field (default dateApplied)")
	listCmd.Flags().StringVar(&listDir, query.ParamDir, "", "Sort direction: asc or desc (default desc)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	values := map[string]string{
		query.ParamTab:    listTab,
		query.ParamSearch: listSearch,
		query.ParamDate:   listDate,
		query.ParamSort:   listSort,
		query.ParamDir:    listDir,
	}
	opts, err := query.ParseOptions(func(key string) string { return values[key] })
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	view, err := a.svc.View(ctx, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), view)
	}
	printer(cmd).PrintView(view)
	return nil
}
