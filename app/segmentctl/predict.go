package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/domain"

	"github.com/spf13/cobra"
)

func newPredictCmd() *cobra.Command {
	var (
		input  domain.CustomerInput
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the segment, pricing and strategy for one customer",
		Example: `  segmentctl predict --bundle model/segment_bundle.json \
    --spending-score 82 --membership-years 7.5 --purchase-frequency 12 \
    --category "Home Appliances"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, err := loadEngine(ctx)
			if err != nil {
				return err
			}

			svc := segmentation.NewSegmentationService(engine, segmentation.NewValidator())
			pred, err := svc.Predict(ctx, input)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(struct {
					domain.Prediction
					PricingStatus string `json:"pricing_status"`
				}{pred, pred.PricingStatus()}, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal prediction: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), segmentation.RenderReport(input, pred))
			return nil
		},
	}

	// defaults match the customer form
	f := cmd.Flags()
	f.IntVar(&input.SpendingScore, "spending-score", 50, "Spending score (0-100)")
	f.Float64Var(&input.MembershipYears, "membership-years", 5.0, "Membership years (0-20)")
	f.IntVar(&input.Age, "age", 35, "Age (15-100)")
	f.IntVar(&input.Income, "income", 50000, "Annual income in dollars (1000-500000)")
	f.IntVar(&input.PurchaseFrequency, "purchase-frequency", 10, "Purchases per year (1-50)")
	f.IntVar(&input.LastPurchaseAmount, "last-purchase-amount", 200, "Last purchase amount in dollars (1-10000)")
	f.StringVar(&input.PreferredCategory, "category", domain.Categories[0],
		"Preferred category, one of: "+strings.Join(domain.Categories, ", "))
	f.BoolVar(&asJSON, "json", false, "Print the prediction as JSON")

	return cmd
}

func newStrategyCmd() *cobra.Command {
	var (
		spendingScore     int
		purchaseFrequency int
		membershipYears   float64
	)

	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Evaluate only the marketing strategy rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the rule needs no bundle, only in-range inputs
			if err := segmentation.ValidateStrategyInput(spendingScore, purchaseFrequency, membershipYears); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				segmentation.RecommendStrategy(spendingScore, purchaseFrequency, membershipYears))
			return nil
		},
	}

	cmd.Flags().IntVar(&spendingScore, "spending-score", 50, "Spending score (0-100)")
	cmd.Flags().IntVar(&purchaseFrequency, "purchase-frequency", 10, "Purchases per year (1-50)")
	cmd.Flags().Float64Var(&membershipYears, "membership-years", 5.0, "Membership years (0-20)")
	return cmd
}

func newSegmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "List the segments of the loaded bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range engine.Segments() {
				pricing := domain.PricingUnavailable
				if s.Pricing != nil {
					pricing = fmt.Sprintf("$%.2f -> $%.2f (%+.1f%%)",
						s.Pricing.CurrentPrice, s.Pricing.OptimalPrice, s.Pricing.PriceChangePct)
				}
				fmt.Fprintf(out, "%d\t%s\t%s\n", s.Index, s.Label, pricing)
			}
			return nil
		},
	}
}
