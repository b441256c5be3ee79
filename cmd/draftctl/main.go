// Command draftctl runs the draft analysis pipeline and inspects stored
// feedback from the terminal.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"legaldraft-analyzer/internal/bootstrap"
	"legaldraft-analyzer/internal/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "draftctl",
		Short: "Analyze legal drafts and manage reviewer feedback",
		Long: `draftctl extracts text from a legal draft, lists the legal questions it
raises with supporting precedents, and reads the feedback reviewers have
submitted. Configuration comes from CONFIG_FILE and the environment, the same
as the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if envFile != "" {
				return godotenv.Load(envFile)
			}
			_ = godotenv.Load()
			return nil
		},
	}
	root.PersistentFlags().String("env-file", "", "load environment variables from this file (default: ./.env when present)")

	root.AddCommand(newAnalyzeCmd(), newFeedbackCmd(), newSignCmd())
	return root
}

// openApp builds the application without the background export worker.
func openApp(ctx context.Context, cmd *cobra.Command) (*bootstrap.App, error) {
	level := "warn"
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = "debug"
	}
	log, err := logger.New("dev", level)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, bootstrap.WithoutWorker(), bootstrap.WithLogger(log))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
