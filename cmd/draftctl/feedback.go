package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect reviewer feedback",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored feedback records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			app, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.Feedback.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s  draft=%d chars\n", r.ID, r.Timestamp, len(r.DraftText))
			}
			return nil
		},
	}
	list.Flags().Int("limit", 20, "maximum number of records (0 for all)")
	list.Flags().Bool("json", false, "print records as JSON")
	list.Flags().BoolP("verbose", "v", false, "enable debug logging")
	cmd.AddCommand(list)
	return cmd
}
