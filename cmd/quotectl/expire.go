package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sink_quoter/internal/database"
	"sink_quoter/internal/matching"
	"sink_quoter/internal/repository"
	"sink_quoter/internal/services"
)

func init() {
	rootCmd.AddCommand(expireCmd)
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Expire sent and viewed quotes past their validity date",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, logger, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		measurementRepo := repository.NewMeasurementRepository(db)
		productRepo := repository.NewProductRepository(db)
		quoteService := services.NewQuoteService(services.QuoteServiceDeps{
			Quotes:       repository.NewQuoteRepository(db),
			LineItems:    repository.NewLineItemRepository(db),
			Customers:    repository.NewCustomerRepository(db),
			Measurements: measurementRepo,
			Matches: services.NewMatchService(measurementRepo, productRepo, nil,
				matching.NewMatcher(cfg.Thresholds, cfg.AddOnPricing), logger),
			Settings: services.QuoteSettings{
				DefaultTaxRate: cfg.DefaultTaxRate,
				ValidityDays:   cfg.QuoteValidityDays,
			},
			Logger: logger,
		})

		n, err := quoteService.ExpireStale(commandContext(cmd))
		fmt.Printf("Expired %d quote(s)\n", n)
		return err
	},
}
