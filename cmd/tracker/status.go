package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/application-tracker/internal/tracker"
)

var archiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Move an application to the archived tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], tracker.OpArchive, (*tracker.Service).Archive)
	},
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive ID",
	Short: "Move an application back to the pending tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], tracker.OpUnarchive, (*tracker.Service).Unarchive)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Permanently remove an application",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], tracker.OpDelete, (*tracker.Service).Delete)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Set an application's status to pending or archived",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := args[1]
		return runMutation(cmd, args[0], tracker.OpUpdate,
			func(s *tracker.Service, ctx context.Context, id int64) error {
				return s.UpdateStatus(ctx, id, status)
			})
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd, unarchiveCmd, deleteCmd, statusCmd)
}

// parseID turns a CLI argument into a record id. Anything that is not an
// integer becomes 0, which the service rejects as an invalid id.
func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func runMutation(cmd *cobra.Command, arg, op string, mutate func(*tracker.Service, context.Context, int64) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	mErr := mutate(a.svc, ctx, parseID(arg))
	res := tracker.NewMutationResult(op, mErr)

	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		printer(cmd).PrintMessage(res.Success, res.Message)
	}

	if mErr != nil {
		var te *tracker.Error
		if errors.As(mErr, &te) {
			return fmt.Errorf("%s failed: %s", op, te.Kind)
		}
		return mErr
	}
	return nil
}
