package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"steam_reviews/internal/adapters/observability"
	"steam_reviews/internal/adapters/steam"
	"steam_reviews/internal/app"
	"steam_reviews/internal/render"
	"steam_reviews/internal/shared"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "steamrev",
		Short:         "Sample Steam reviews into an LLM-ready markdown digest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newReportCmd())
	return root
}

func newReportCmd() *cobra.Command {
	var (
		count      int
		policyFile string
	)
	cmd := &cobra.Command{
		Use:   "report <game name | app id | store url>",
		Short: "Fetch, sample and print reviews for a game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := shared.Load()
			log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

			if policyFile == "" {
				policyFile = cfg.PolicyFile
			}
			policy, err := shared.LoadPolicy(policyFile)
			if err != nil {
				return err
			}
			if count == 0 {
				count = policy.DefaultReviewCount
			}

			client, err := steam.New(cfg.SteamBase, cfg.SteamRPS)
			if err != nil {
				return err
			}
			reports := app.NewReportService(steam.NewSource(client, policy), nil, policy, 0)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			query := strings.Join(args, " ")
			rep, err := reports.Build(ctx, query, count)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "report for %q failed: %v\n", query, err)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Markdown(rep, render.OptionsFromPolicy(policy)))
			return err
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of reviews to sample (default from policy)")
	cmd.Flags().StringVar(&policyFile, "policy", "", "YAML sampling policy file (overrides POLICY_FILE)")
	return cmd
}
