package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"sink_quoter/internal/database"
	"sink_quoter/internal/matching"
	"sink_quoter/internal/models"
	"sink_quoter/internal/repository"
	"sink_quoter/internal/services"
)

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Uint("measurement", 0, "measurement ID (required)")
	matchCmd.Flags().Uint("user", 0, "acting user ID (required)")
	matchCmd.Flags().Int("limit", matching.DefaultLimit, "maximum results")
	matchCmd.Flags().String("color", "", "preferred color")
	matchCmd.Flags().String("bowls", "", "preferred bowl configuration")
	matchCmd.Flags().String("max-price", "", "budget ceiling")
	matchCmd.Flags().String("install-type", "", "retrofit, new_construction or universal")
	matchCmd.Flags().Bool("workstation", false, "prefer workstation sinks")
	matchCmd.MarkFlagRequired("measurement")
	matchCmd.MarkFlagRequired("user")
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the catalog against a site measurement",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, logger, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)
		ctx := commandContext(cmd)

		measurementID, _ := cmd.Flags().GetUint("measurement")
		userID, _ := cmd.Flags().GetUint("user")
		limit, _ := cmd.Flags().GetInt("limit")

		prefs, err := preferencesFromFlags(cmd)
		if err != nil {
			return err
		}

		scope, err := services.NewUserService(repository.NewUserRepository(db)).ResolveScope(ctx, userID)
		if err != nil {
			return err
		}
		matchService := services.NewMatchService(
			repository.NewMeasurementRepository(db),
			repository.NewProductRepository(db),
			nil,
			matching.NewMatcher(cfg.Thresholds, cfg.AddOnPricing),
			logger,
		)
		results, err := matchService.MatchProductsToMeasurement(ctx, scope, measurementID, prefs, limit)
		if err != nil {
			return err
		}

		fmt.Printf("=== Matches for measurement %d ===\n\n", measurementID)
		if len(results) == 0 {
			fmt.Println("No candidate products.")
			return nil
		}
		fmt.Printf("%-4s %-16s %-6s %-10s %-10s %s\n", "#", "SKU", "SCORE", "RATING", "PRICE", "METHODS")
		for i, r := range results {
			methods := make([]string, 0, len(r.FeasibleMethods))
			for _, m := range r.FeasibleMethods {
				methods = append(methods, string(m.Method))
			}
			fmt.Printf("%-4d %-16s %-6d %-10s %-10s %s\n",
				i+1, r.Product.SKU, r.OverallScore, r.FitRating, r.Product.Price.StringFixed(2), strings.Join(methods, ","))
			for _, g := range r.HardGateFailures {
				fmt.Printf("     gate: %s\n", g)
			}
			for _, w := range r.Warnings {
				fmt.Printf("     warn: %s\n", w)
			}
		}
		return nil
	},
}

func preferencesFromFlags(cmd *cobra.Command) (matching.Preferences, error) {
	var prefs matching.Preferences
	flags := cmd.Flags()

	if v, _ := flags.GetString("color"); v != "" {
		prefs.Color = &v
	}
	if v, _ := flags.GetString("bowls"); v != "" {
		bc := models.BowlConfiguration(v)
		prefs.BowlConfiguration = &bc
	}
	if v, _ := flags.GetString("max-price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return prefs, fmt.Errorf("invalid --max-price %q: %w", v, err)
		}
		prefs.MaxPrice = &d
	}
	if v, _ := flags.GetString("install-type"); v != "" {
		it := models.InstallationType(v)
		prefs.InstallationType = &it
	}
	if flags.Changed("workstation") {
		v, _ := flags.GetBool("workstation")
		prefs.Workstation = &v
	}
	return prefs, nil
}
