package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appsvc "legaldraft-analyzer/internal/app"
	"legaldraft-analyzer/internal/model"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Extract text from a draft and attach precedents to each issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read draft failed: %w", err)
			}

			app, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Analysis.Analyze(cmd.Context(), appsvc.AnalyzeInput{
				Filename: filepath.Base(args[0]),
				Data:     data,
			})
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the full report as JSON")
	cmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
	return cmd
}

func printReport(cmd *cobra.Command, report *model.AnalysisReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Extracted %d characters.\n", len(report.DraftText))
	for i, res := range report.Cases {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, res.Issue)
		if res.Error != "" {
			fmt.Fprintf(out, "   search failed: %s\n", res.Error)
			continue
		}
		if len(res.Cases) == 0 {
			fmt.Fprintln(out, "   no precedents found")
		}
		for _, c := range res.Cases {
			fmt.Fprintf(out, "   - %s (%s)\n", deref(c.Name), deref(c.Citation))
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return "n/a"
	}
	return *s
}
