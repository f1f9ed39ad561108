package main

import (
	"fmt"
	"strings"

	"github.com/maxaizer/job-alert-bot/internal/config"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/maxaizer/job-alert-bot/internal/services"
	"github.com/maxaizer/job-alert-bot/internal/sources"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func scrapeCMD() *cobra.Command {
	var selected []string
	var keywordsInput string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch and filter listings once, printing matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := entities.ParseKeywords(keywordsInput)
			if err != nil {
				return err
			}

			cfg := config.GetOffline()
			logger.Setup(cmd.Context(), cfg.Logger)
			defer logger.Cleanup()

			registry, err := sources.Setup(cfg.Sources)
			if err != nil {
				return err
			}

			pipeline := services.NewPipeline(services.NewAggregator(registry), nil, cfg.Delivery)
			ids := lo.Map(selected, func(id string, _ int) entities.SourceID {
				return entities.SourceID(strings.ToLower(strings.TrimSpace(id)))
			})

			out := cmd.OutOrStdout()
			matches := pipeline.Search(cmd.Context(), ids, keywords)
			for _, listing := range matches {
				fmt.Fprintf(out, "[%s] %s\n  %s\n  %s\n", listing.SourceID, listing.Title, listing.Description, listing.URL)
			}
			fmt.Fprintf(out, "%d matching listings\n", len(matches))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&selected, "sources", []string{string(entities.AllSources)}, "source ids to search")
	cmd.Flags().StringVar(&keywordsInput, "keywords", "", `keywords separated by "-"`)
	_ = cmd.MarkFlagRequired("keywords")
	return cmd
}

func sourcesCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured source ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := sources.Setup(config.GetOffline().Sources)
			if err != nil {
				return err
			}
			for _, id := range registry.IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
