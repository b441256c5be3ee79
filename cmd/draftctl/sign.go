package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"legaldraft-analyzer/internal/config"
	"legaldraft-analyzer/internal/evidence"
	"legaldraft-analyzer/internal/kanoon"
)

func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign QUERY",
		Short: "Print the canonical string, signature and URL for a case-law search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			maxCites, _ := cmd.Flags().GetInt("maxcites")
			docTypes, _ := cmd.Flags().GetString("doctypes")

			q := kanoon.Query{Text: args[0], MaxCites: maxCites, DocTypes: strings.Split(docTypes, ",")}
			client := kanoon.NewClient(kanoon.Config{
				BaseURL:    cfg.Kanoon.BaseURL,
				PublicKey:  cfg.Kanoon.PublicKey,
				PrivateKey: cfg.Kanoon.PrivateKey,
			}, nil)

			signed := client.SignedParams(q)
			values := url.Values{}
			for k, v := range signed {
				values.Set(k, v)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "canonical: %s\n", kanoon.CanonicalString(q.Params(cfg.Kanoon.PublicKey)))
			fmt.Fprintf(out, "signature: %s\n", signed["signature"])
			fmt.Fprintf(out, "url: %s?%s\n", cfg.Kanoon.BaseURL, values.Encode())
			return nil
		},
	}
	cmd.Flags().Int("maxcites", evidence.MaxCites, "maxcites parameter")
	cmd.Flags().String("doctypes", strings.Join(evidence.DocTypes, ","), "comma-separated document types")
	return cmd
}
